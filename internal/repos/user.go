package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	RecordLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	UpdateRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role types.Role) error
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) error {
	return withTx(ctx, ur.db, tx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(user).Error; err != nil {
			return err
		}
		return writeAudit(ctx, tx, types.User{}.TableName(), user.ID, types.AuditInsert, nil, user)
	})
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	conn := tx
	if conn == nil {
		conn = ur.db
	}
	var user types.User
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	conn := tx
	if conn == nil {
		conn = ur.db
	}
	var user types.User
	if err := conn.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	conn := tx
	if conn == nil {
		conn = ur.db
	}
	var count int64
	if err := conn.WithContext(ctx).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordLogin bumps activity counters only; not an audited profile mutation.
func (ur *userRepo) RecordLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	conn := tx
	if conn == nil {
		conn = ur.db
	}
	return conn.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_login":  at,
			"login_count": gorm.Expr("login_count + 1"),
		}).Error
}

func (ur *userRepo) UpdateRole(ctx context.Context, tx *gorm.DB, id uuid.UUID, role types.Role) error {
	return withTx(ctx, ur.db, tx, func(tx *gorm.DB) error {
		old, err := ur.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).
			Model(&types.User{}).
			Where("id = ?", id).
			Update("role", role).Error; err != nil {
			return err
		}
		updated := *old
		updated.Role = role
		return writeAudit(ctx, tx, types.User{}.TableName(), id, types.AuditUpdate, old, &updated)
	})
}

// Deactivate soft-disables the account; users are never hard-deleted.
func (ur *userRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return withTx(ctx, ur.db, tx, func(tx *gorm.DB) error {
		old, err := ur.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).
			Model(&types.User{}).
			Where("id = ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		updated := *old
		updated.IsActive = false
		return writeAudit(ctx, tx, types.User{}.TableName(), id, types.AuditUpdate, old, &updated)
	})
}
