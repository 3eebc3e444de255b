package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type CityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, city *types.City) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.City, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.City, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.City, error)
}

type cityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCityRepo(db *gorm.DB, baseLog *logger.Logger) CityRepo {
	return &cityRepo{db: db, log: baseLog.With("repo", "CityRepo")}
}

func (cr *cityRepo) Create(ctx context.Context, tx *gorm.DB, city *types.City) error {
	return withTx(ctx, cr.db, tx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(city).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.City{}.TableName(), city.ID, types.AuditInsert, nil, city)
	})
}

func (cr *cityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.City, error) {
	conn := tx
	if conn == nil {
		conn = cr.db
	}
	var city types.City
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (cr *cityRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.City, error) {
	conn := tx
	if conn == nil {
		conn = cr.db
	}
	var city types.City
	if err := conn.WithContext(ctx).Where("name = ?", name).First(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (cr *cityRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.City, error) {
	conn := tx
	if conn == nil {
		conn = cr.db
	}
	var results []*types.City
	if err := conn.WithContext(ctx).Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
