package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type WeatherRepo interface {
	CreateRecord(ctx context.Context, tx *gorm.DB, record *types.WeatherRecord) error
	ListRecords(ctx context.Context, tx *gorm.DB, location string, limit int) ([]*types.WeatherRecord, error)
	CountRecordsSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)

	CreateAlert(ctx context.Context, tx *gorm.DB, alert *types.WeatherAlert) error
	ListActiveAlerts(ctx context.Context, tx *gorm.DB) ([]*types.WeatherAlert, error)
	DeactivateAlert(ctx context.Context, tx *gorm.DB, id uuid.UUID, endTime time.Time) error
	DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type weatherRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeatherRepo(db *gorm.DB, baseLog *logger.Logger) WeatherRepo {
	return &weatherRepo{db: db, log: baseLog.With("repo", "WeatherRepo")}
}

// CreateRecord appends an observation. Weather records are not in the audited
// set; the table is itself append-only history.
func (wr *weatherRepo) CreateRecord(ctx context.Context, tx *gorm.DB, record *types.WeatherRecord) error {
	conn := tx
	if conn == nil {
		conn = wr.db
	}
	return conn.WithContext(ctx).Create(record).Error
}

func (wr *weatherRepo) ListRecords(ctx context.Context, tx *gorm.DB, location string, limit int) ([]*types.WeatherRecord, error) {
	conn := tx
	if conn == nil {
		conn = wr.db
	}
	if limit <= 0 {
		limit = 100
	}
	var results []*types.WeatherRecord
	if err := conn.WithContext(ctx).
		Where("location = ?", location).
		Order("observed_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *weatherRepo) CountRecordsSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	conn := tx
	if conn == nil {
		conn = wr.db
	}
	var count int64
	if err := conn.WithContext(ctx).
		Model(&types.WeatherRecord{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (wr *weatherRepo) CreateAlert(ctx context.Context, tx *gorm.DB, alert *types.WeatherAlert) error {
	return withTx(ctx, wr.db, tx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(alert).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.WeatherAlert{}.TableName(), alert.ID, types.AuditInsert, nil, alert)
	})
}

func (wr *weatherRepo) ListActiveAlerts(ctx context.Context, tx *gorm.DB) ([]*types.WeatherAlert, error) {
	conn := tx
	if conn == nil {
		conn = wr.db
	}
	var results []*types.WeatherAlert
	if err := conn.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeactivateAlert flips is_active and stamps end_time, the only two fields
// mutable after creation.
func (wr *weatherRepo) DeactivateAlert(ctx context.Context, tx *gorm.DB, id uuid.UUID, endTime time.Time) error {
	return withTx(ctx, wr.db, tx, func(tx *gorm.DB) error {
		var old types.WeatherAlert
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&old).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).
			Model(&types.WeatherAlert{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"is_active": false,
				"end_time":  endTime,
			}).Error; err != nil {
			return err
		}
		updated := old
		updated.IsActive = false
		updated.EndTime = &endTime
		return writeAudit(ctx, tx, types.WeatherAlert{}.TableName(), id, types.AuditUpdate, &old, &updated)
	})
}

func (wr *weatherRepo) DeactivateExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	conn := tx
	if conn == nil {
		conn = wr.db
	}
	res := conn.WithContext(ctx).
		Model(&types.WeatherAlert{}).
		Where("is_active = ? AND end_time IS NOT NULL AND end_time <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
