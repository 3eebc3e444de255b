package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type EmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.CarbonEmissionRecord) error
	ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.CarbonEmissionRecord, error)
	GetByCompanyYear(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, year int) (*types.CarbonEmissionRecord, error)
	UpdateVerification(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.VerificationStatus, quality float64) error
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type emissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmissionRepo(db *gorm.DB, baseLog *logger.Logger) EmissionRepo {
	return &emissionRepo{db: db, log: baseLog.With("repo", "EmissionRepo")}
}

// Create inserts one yearly footprint. A second record for the same
// (company, reporting year) pair surfaces as a conflict, driven by the
// unique index rather than a read-then-write race.
func (er *emissionRepo) Create(ctx context.Context, tx *gorm.DB, record *types.CarbonEmissionRecord) error {
	return withTx(ctx, er.db, tx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(record).Error; err != nil {
			if isUniqueViolation(err) {
				return apierror.Conflict("emission record already exists for this company and year")
			}
			return err
		}
		return writeAudit(ctx, tx, types.CarbonEmissionRecord{}.TableName(), record.ID, types.AuditInsert, nil, record)
	})
}

func (er *emissionRepo) ListByCompany(ctx context.Context, tx *gorm.DB, companyID uuid.UUID) ([]*types.CarbonEmissionRecord, error) {
	conn := tx
	if conn == nil {
		conn = er.db
	}
	var results []*types.CarbonEmissionRecord
	if err := conn.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("reporting_year ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *emissionRepo) GetByCompanyYear(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, year int) (*types.CarbonEmissionRecord, error) {
	conn := tx
	if conn == nil {
		conn = er.db
	}
	var record types.CarbonEmissionRecord
	if err := conn.WithContext(ctx).
		Where("company_id = ? AND reporting_year = ?", companyID, year).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (er *emissionRepo) UpdateVerification(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.VerificationStatus, quality float64) error {
	return withTx(ctx, er.db, tx, func(tx *gorm.DB) error {
		var old types.CarbonEmissionRecord
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&old).Error; err != nil {
			return err
		}
		updated := old
		updated.VerificationStatus = status
		updated.QualityScore = quality
		if err := tx.WithContext(ctx).
			Model(&types.CarbonEmissionRecord{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"verification_status": status,
				"quality_score":       quality,
			}).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.CarbonEmissionRecord{}.TableName(), id, types.AuditUpdate, &old, &updated)
	})
}

func (er *emissionRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	conn := tx
	if conn == nil {
		conn = er.db
	}
	var count int64
	if err := conn.WithContext(ctx).
		Model(&types.CarbonEmissionRecord{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// isUniqueViolation matches both the postgres driver error and sqlite's
// constraint message, since either backend can be behind gorm here.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
