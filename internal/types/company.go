package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanySize string

const (
	CompanySmall      CompanySize = "small"
	CompanyMedium     CompanySize = "medium"
	CompanyLarge      CompanySize = "large"
	CompanyEnterprise CompanySize = "enterprise"
)

func (s CompanySize) Valid() bool {
	switch s {
	case CompanySmall, CompanyMedium, CompanyLarge, CompanyEnterprise:
		return true
	}
	return false
}

type Company struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string      `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Sector    string      `gorm:"column:sector;not null" json:"sector"`
	Size      CompanySize `gorm:"column:size;not null" json:"size"`
	Country   string      `gorm:"column:country" json:"country"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`

	Emissions []CarbonEmissionRecord `gorm:"foreignKey:CompanyID" json:"emissions,omitempty"`
}

func (Company) TableName() string { return "companies" }

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
