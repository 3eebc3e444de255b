package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type ScenarioRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scenario *types.UrbanScenario) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UrbanScenario, error)
	ListByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*types.UrbanScenario, error)
}

type scenarioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	return &scenarioRepo{db: db, log: baseLog.With("repo", "ScenarioRepo")}
}

func (sr *scenarioRepo) Create(ctx context.Context, tx *gorm.DB, scenario *types.UrbanScenario) error {
	return withTx(ctx, sr.db, tx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(scenario).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.UrbanScenario{}.TableName(), scenario.ID, types.AuditInsert, nil, scenario)
	})
}

func (sr *scenarioRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.UrbanScenario, error) {
	conn := tx
	if conn == nil {
		conn = sr.db
	}
	var scenario types.UrbanScenario
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&scenario).Error; err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (sr *scenarioRepo) ListByCity(ctx context.Context, tx *gorm.DB, cityID uuid.UUID) ([]*types.UrbanScenario, error) {
	conn := tx
	if conn == nil {
		conn = sr.db
	}
	var results []*types.UrbanScenario
	if err := conn.WithContext(ctx).
		Where("city_id = ?", cityID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
