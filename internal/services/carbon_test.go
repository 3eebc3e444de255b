package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

func newCarbonService(t *testing.T) (CarbonService, *gorm.DB, repos.CompanyRepo, repos.EmissionRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	companyRepo := repos.NewCompanyRepo(db, log)
	emissionRepo := repos.NewEmissionRepo(db, log)
	svc := NewCarbonService(db, log, companyRepo, emissionRepo, nil, noopRecommender{}, nil, 0)
	return svc, db, companyRepo, emissionRepo
}

const uploadHeader = "company_name,sector,size,country,reporting_year,scope1_tonnes,scope2_tonnes,scope3_tonnes,intensity_per_musd,verification_status\n"

func TestUploadEmissions_PartialSuccess(t *testing.T) {
	svc, _, companyRepo, _ := newCarbonService(t)
	ctx := actorContext(uuid.New())

	csv := uploadHeader +
		"Acme Corp,technology,large,US,2023,100,200,300,15.5,self_reported\n" +
		"Broken Row,technology,large,US,not-a-year,1,2,3,1.0,self_reported\n" +
		"Acme Corp,technology,large,US,2024,110,210,310,14.2,third_party_verified\n"

	result, err := svc.UploadEmissions(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.TotalRows != 3 || result.Imported != 2 || result.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Line != 3 {
		t.Fatalf("row error should carry its line number: %+v", result.Errors)
	}

	// Unknown companies are created on the fly.
	company, err := companyRepo.GetByName(ctx, nil, "Acme Corp")
	if err != nil {
		t.Fatalf("company not created: %v", err)
	}
	if company.Sector != "technology" || company.Country != "US" {
		t.Fatalf("company fields not mapped: %+v", company)
	}
}

func TestUploadEmissions_DuplicateYearFailsRow(t *testing.T) {
	svc, _, _, _ := newCarbonService(t)
	ctx := actorContext(uuid.New())

	csv := uploadHeader +
		"Acme Corp,technology,large,US,2023,100,200,300,15.5,self_reported\n" +
		"Acme Corp,technology,large,US,2023,999,999,999,99.9,self_reported\n"

	result, err := svc.UploadEmissions(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Imported != 1 || result.Failed != 1 {
		t.Fatalf("duplicate (company, year) should fail only its row: %+v", result)
	}
}

func TestUploadEmissions_AllRowsInvalid(t *testing.T) {
	svc, _, _, _ := newCarbonService(t)
	ctx := actorContext(uuid.New())

	csv := uploadHeader +
		",technology,large,US,2023,1,2,3,1.0,self_reported\n" +
		"Acme Corp,technology,large,US,2023,-5,2,3,1.0,self_reported\n"

	result, err := svc.UploadEmissions(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Imported != 0 || result.Failed != 2 {
		t.Fatalf("unexpected summary: %+v", result)
	}
}

func TestUploadEmissions_MissingColumn(t *testing.T) {
	svc, _, _, _ := newCarbonService(t)
	ctx := actorContext(uuid.New())

	csv := "company_name,sector\nAcme,technology\n"
	_, err := svc.UploadEmissions(ctx, strings.NewReader(csv))
	if apierror.KindOf(err) != apierror.KindValidation {
		t.Fatalf("expected validation error for missing columns, got %v", err)
	}
}

func TestCompanyData_TrendAndLatest(t *testing.T) {
	svc, _, companyRepo, emissionRepo := newCarbonService(t)
	ctx := actorContext(uuid.New())

	company := &types.Company{Name: "Trendy", Sector: "retail", Size: types.CompanyMedium, Country: ""}
	if err := companyRepo.Create(ctx, nil, company); err != nil {
		t.Fatalf("create company: %v", err)
	}
	for year, total := range map[int]float64{2022: 1000, 2023: 900} {
		rec := &types.CarbonEmissionRecord{CompanyID: company.ID, ReportingYear: year, TotalTonnes: total}
		if err := emissionRepo.Create(ctx, nil, rec); err != nil {
			t.Fatalf("create record: %v", err)
		}
	}

	doc, err := svc.CompanyData(ctx, company.ID)
	if err != nil {
		t.Fatalf("company data: %v", err)
	}
	if doc.Latest == nil || doc.Latest.ReportingYear != 2023 {
		t.Fatalf("latest should be most recent year: %+v", doc.Latest)
	}
	if doc.TrendPct == nil {
		t.Fatal("trend missing with two years of data")
	}
	if *doc.TrendPct > -9.9 || *doc.TrendPct < -10.1 {
		t.Fatalf("expected roughly -10%% trend, got %f", *doc.TrendPct)
	}
}

func TestCompanyData_NotFound(t *testing.T) {
	svc, _, _, _ := newCarbonService(t)
	_, err := svc.CompanyData(actorContext(uuid.New()), uuid.New())
	if apierror.KindOf(err) != apierror.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBenchmarks(t *testing.T) {
	svc, _, _, _ := newCarbonService(t)
	ctx := actorContext(uuid.New())

	doc, err := svc.Benchmarks(ctx, "technology")
	if err != nil {
		t.Fatalf("benchmarks: %v", err)
	}
	if doc.Benchmark.Scope12PerMUSD != 15.2 {
		t.Fatalf("wrong technology benchmark: %+v", doc.Benchmark)
	}
	if doc.PeerPerformance["median"] != 15.2 || doc.PeerPerformance["top_quartile"] >= doc.PeerPerformance["median"] {
		t.Fatalf("peer performance bands wrong: %+v", doc.PeerPerformance)
	}

	generic, err := svc.Benchmarks(ctx, "basket weaving")
	if err != nil {
		t.Fatalf("benchmarks: %v", err)
	}
	if generic.Benchmark.Sector != "generic" {
		t.Fatalf("unknown sector should fall back to generic, got %+v", generic.Benchmark)
	}
}
