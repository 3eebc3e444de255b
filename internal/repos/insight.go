package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type InsightRepo interface {
	Create(ctx context.Context, tx *gorm.DB, insight *types.AIInsight) error
	ListCurrent(ctx context.Context, tx *gorm.DB, domain types.InsightDomain, entityID uuid.UUID, now time.Time) ([]*types.AIInsight, error)
}

type insightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
	return &insightRepo{db: db, log: baseLog.With("repo", "InsightRepo")}
}

func (ir *insightRepo) Create(ctx context.Context, tx *gorm.DB, insight *types.AIInsight) error {
	conn := tx
	if conn == nil {
		conn = ir.db
	}
	return conn.WithContext(ctx).Create(insight).Error
}

// ListCurrent filters out logically expired insights; expired rows stay in
// the table but never reach a client.
func (ir *insightRepo) ListCurrent(ctx context.Context, tx *gorm.DB, domain types.InsightDomain, entityID uuid.UUID, now time.Time) ([]*types.AIInsight, error) {
	conn := tx
	if conn == nil {
		conn = ir.db
	}
	q := conn.WithContext(ctx).
		Where("domain = ? AND expires_at > ?", domain, now)
	if entityID != uuid.Nil {
		q = q.Where("entity_id = ?", entityID)
	}
	var results []*types.AIInsight
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
