package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InsightDomain string

const (
	DomainWeather InsightDomain = "weather"
	DomainCarbon  InsightDomain = "carbon"
	DomainUrban   InsightDomain = "urban"
)

func (d InsightDomain) Valid() bool {
	switch d {
	case DomainWeather, DomainCarbon, DomainUrban:
		return true
	}
	return false
}

// AIInsight is a recommendation artifact. Read-only after creation; rows
// logically expire at ExpiresAt and are filtered out of reads.
type AIInsight struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Domain         InsightDomain  `gorm:"column:domain;not null;index" json:"domain"`
	EntityID       uuid.UUID      `gorm:"type:uuid;column:entity_id;index" json:"entity_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Recommendation string         `gorm:"column:recommendation;not null" json:"recommendation"`
	Confidence     float64        `gorm:"column:confidence;not null" json:"confidence"`
	SupportingData datatypes.JSON `gorm:"column:supporting_data;type:jsonb" json:"supporting_data"`
	ExpiresAt      time.Time      `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
}

func (AIInsight) TableName() string { return "ai_insights" }

func (i *AIInsight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
