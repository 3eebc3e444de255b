package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type CompanyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, company *types.Company) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Company, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Company, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Company, error)
	Update(ctx context.Context, tx *gorm.DB, company *types.Company) error
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: baseLog.With("repo", "CompanyRepo")}
}

func (cr *companyRepo) Create(ctx context.Context, tx *gorm.DB, company *types.Company) error {
	return withTx(ctx, cr.db, tx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(company).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.Company{}.TableName(), company.ID, types.AuditInsert, nil, company)
	})
}

func (cr *companyRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Company, error) {
	conn := tx
	if conn == nil {
		conn = cr.db
	}
	var company types.Company
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (cr *companyRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Company, error) {
	conn := tx
	if conn == nil {
		conn = cr.db
	}
	var company types.Company
	if err := conn.WithContext(ctx).Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (cr *companyRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Company, error) {
	conn := tx
	if conn == nil {
		conn = cr.db
	}
	var results []*types.Company
	if err := conn.WithContext(ctx).Order("name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *companyRepo) Update(ctx context.Context, tx *gorm.DB, company *types.Company) error {
	return withTx(ctx, cr.db, tx, func(tx *gorm.DB) error {
		old, err := cr.GetByID(ctx, tx, company.ID)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Save(company).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.Company{}.TableName(), company.ID, types.AuditUpdate, old, company)
	})
}
