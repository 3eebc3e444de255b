package repos

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

func TestEmissionCreate_DuplicateCompanyYearConflicts(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	companyRepo := NewCompanyRepo(db, log)
	emissionRepo := NewEmissionRepo(db, log)
	ctx := actorContext(uuid.New())

	company := &types.Company{Name: "Acme Carbon", Sector: "technology", Size: types.CompanyMedium}
	if err := companyRepo.Create(ctx, nil, company); err != nil {
		t.Fatalf("create company: %v", err)
	}

	first := &types.CarbonEmissionRecord{
		CompanyID:     company.ID,
		ReportingYear: 2023,
		Scope1Tonnes:  100,
		Scope2Tonnes:  200,
		Scope3Tonnes:  300,
		TotalTonnes:   600,
	}
	if err := emissionRepo.Create(ctx, nil, first); err != nil {
		t.Fatalf("create emission record: %v", err)
	}

	dup := &types.CarbonEmissionRecord{
		CompanyID:     company.ID,
		ReportingYear: 2023,
		TotalTonnes:   1,
	}
	err := emissionRepo.Create(ctx, nil, dup)
	if err == nil {
		t.Fatal("expected conflict on duplicate (company, year)")
	}
	if apierror.KindOf(err) != apierror.KindConflict {
		t.Fatalf("expected conflict kind, got %s (%v)", apierror.KindOf(err), err)
	}

	// A different year for the same company is fine.
	next := &types.CarbonEmissionRecord{
		CompanyID:     company.ID,
		ReportingYear: 2024,
		TotalTonnes:   500,
	}
	if err := emissionRepo.Create(ctx, nil, next); err != nil {
		t.Fatalf("create second year: %v", err)
	}
}

func TestUpdateVerification_Audited(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	companyRepo := NewCompanyRepo(db, log)
	emissionRepo := NewEmissionRepo(db, log)
	auditRepo := NewAuditRepo(db, log)
	ctx := actorContext(uuid.New())

	company := &types.Company{Name: "Acme Carbon", Sector: "retail", Size: types.CompanySmall}
	if err := companyRepo.Create(ctx, nil, company); err != nil {
		t.Fatalf("create company: %v", err)
	}
	record := &types.CarbonEmissionRecord{CompanyID: company.ID, ReportingYear: 2023, TotalTonnes: 10}
	if err := emissionRepo.Create(ctx, nil, record); err != nil {
		t.Fatalf("create emission record: %v", err)
	}

	if err := emissionRepo.UpdateVerification(ctx, nil, record.ID, types.VerificationThirdParty, 0.9); err != nil {
		t.Fatalf("update verification: %v", err)
	}

	stored, err := emissionRepo.GetByCompanyYear(ctx, nil, company.ID, 2023)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if stored.VerificationStatus != types.VerificationThirdParty || stored.QualityScore != 0.9 {
		t.Fatalf("verification update not applied: %s %f", stored.VerificationStatus, stored.QualityScore)
	}

	entries, err := auditRepo.ListByRecord(ctx, nil, "carbon_emission_records", record.ID)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected create+update audit entries, got %d", len(entries))
	}
}
