package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type City struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	Country     string    `gorm:"column:country;not null" json:"country"`
	Population  int64     `gorm:"column:population" json:"population"`
	AreaKm2     float64   `gorm:"column:area_km2" json:"area_km2"`
	Latitude    float64   `gorm:"column:latitude" json:"latitude"`
	Longitude   float64   `gorm:"column:longitude" json:"longitude"`
	ClimateZone string    `gorm:"column:climate_zone" json:"climate_zone"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (City) TableName() string { return "cities" }

func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// UrbanScenario is a planner-authored what-if document for a city. The
// parameters blob is opaque to the schema store; the urban service interprets
// it.
type UrbanScenario struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CityID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"city_id"`
	City       *City          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CityID;references:ID" json:"city,omitempty"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	Parameters datatypes.JSON `gorm:"column:parameters;type:jsonb" json:"parameters"`
	CreatedBy  uuid.UUID      `gorm:"type:uuid;column:created_by;not null" json:"created_by"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (UrbanScenario) TableName() string { return "urban_scenarios" }

func (s *UrbanScenario) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
