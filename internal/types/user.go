package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	FirstName    string     `gorm:"column:first_name" json:"first_name"`
	LastName     string     `gorm:"column:last_name" json:"last_name"`
	Organization string     `gorm:"column:organization" json:"organization,omitempty"`
	Role         Role       `gorm:"column:role;not null;default:analyst" json:"role"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	LoginCount   int        `gorm:"column:login_count;not null;default:0" json:"login_count"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
