package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationSelfReport VerificationStatus = "self_reported"
	VerificationThirdParty VerificationStatus = "third_party_verified"
)

func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationUnverified, VerificationSelfReport, VerificationThirdParty:
		return true
	}
	return false
}

// CarbonEmissionRecord is one company's yearly footprint. Unique per
// (company, reporting year); re-uploads of the same pair are a conflict,
// re-verification updates in place.
type CarbonEmissionRecord struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID          uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_company_year" json:"company_id"`
	Company            *Company           `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	ReportingYear      int                `gorm:"column:reporting_year;not null;uniqueIndex:idx_company_year" json:"reporting_year"`
	Scope1Tonnes       float64            `gorm:"column:scope1_tonnes;not null" json:"scope1_tonnes"`
	Scope2Tonnes       float64            `gorm:"column:scope2_tonnes;not null" json:"scope2_tonnes"`
	Scope3Tonnes       float64            `gorm:"column:scope3_tonnes;not null" json:"scope3_tonnes"`
	TotalTonnes        float64            `gorm:"column:total_tonnes;not null" json:"total_tonnes"`
	IntensityPerMUSD   float64            `gorm:"column:intensity_per_musd" json:"intensity_per_musd"`
	VerificationStatus VerificationStatus `gorm:"column:verification_status;not null;default:unverified" json:"verification_status"`
	QualityScore       float64            `gorm:"column:quality_score" json:"quality_score"`
	CreatedAt          time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

func (CarbonEmissionRecord) TableName() string { return "carbon_emission_records" }

func (r *CarbonEmissionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
