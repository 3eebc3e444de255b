package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WeatherRecord is an append-only observation or forecast snapshot. Rows are
// never updated after creation.
type WeatherRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Location   string         `gorm:"column:location;not null;index" json:"location"`
	Latitude   float64        `gorm:"column:latitude" json:"latitude"`
	Longitude  float64        `gorm:"column:longitude" json:"longitude"`
	ObservedAt time.Time      `gorm:"column:observed_at;not null;index" json:"observed_at"`
	Kind       string         `gorm:"column:kind;not null;default:observation" json:"kind"`
	Metrics    datatypes.JSON `gorm:"column:metrics;type:jsonb" json:"metrics"`
	RiskLevel  string         `gorm:"column:risk_level" json:"risk_level"`
	Confidence float64        `gorm:"column:confidence" json:"confidence"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (WeatherRecord) TableName() string { return "weather_records" }

func (r *WeatherRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeveritySevere   AlertSeverity = "severe"
	SeverityCritical AlertSeverity = "critical"
)

// WeatherAlert is created active; after creation only is_active and end_time
// may change.
type WeatherAlert struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Location  string         `gorm:"column:location;not null;index" json:"location"`
	AlertType string         `gorm:"column:alert_type;not null" json:"alert_type"`
	Severity  AlertSeverity  `gorm:"column:severity;not null" json:"severity"`
	Headline  string         `gorm:"column:headline" json:"headline"`
	Details   datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`
	StartTime time.Time      `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   *time.Time     `gorm:"column:end_time" json:"end_time,omitempty"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (WeatherAlert) TableName() string { return "weather_alerts" }

func (a *WeatherAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
