package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/cache"
	"github.com/Nidish2/Climate-Platform/internal/clients/gridintensity"
	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

// GridIntensityProvider is the slice of the grid intensity adapter the
// service needs.
type GridIntensityProvider interface {
	Latest(ctx context.Context, countryCode string) (*gridintensity.Intensity, error)
}

// SectorBenchmark is the published per-sector footprint reference
// (tonnes CO2e per $M revenue).
type SectorBenchmark struct {
	Sector          string   `json:"sector"`
	Scope12PerMUSD  float64  `json:"scope1_2_per_musd"`
	Scope3PerMUSD   float64  `json:"scope3_per_musd"`
	Leaders         []string `json:"leaders"`
	ReductionTarget float64  `json:"reduction_target_pct"`
}

var sectorBenchmarks = map[string]SectorBenchmark{
	"technology": {
		Sector:          "technology",
		Scope12PerMUSD:  15.2,
		Scope3PerMUSD:   45.8,
		Leaders:         []string{"Microsoft", "Google", "Apple"},
		ReductionTarget: 50,
	},
	"manufacturing": {
		Sector:          "manufacturing",
		Scope12PerMUSD:  89.4,
		Scope3PerMUSD:   234.7,
		Leaders:         []string{"Unilever", "Interface", "Siemens"},
		ReductionTarget: 30,
	},
	"financial_services": {
		Sector:          "financial_services",
		Scope12PerMUSD:  8.9,
		Scope3PerMUSD:   156.3,
		Leaders:         []string{"Bank of America", "Goldman Sachs"},
		ReductionTarget: 40,
	},
	"retail": {
		Sector:          "retail",
		Scope12PerMUSD:  34.6,
		Scope3PerMUSD:   187.2,
		Leaders:         []string{"Walmart", "IKEA", "Target"},
		ReductionTarget: 35,
	},
}

var genericBenchmark = SectorBenchmark{
	Sector:          "generic",
	Scope12PerMUSD:  45.0,
	Scope3PerMUSD:   120.0,
	ReductionTarget: 30,
}

// Peer performance multipliers relative to the sector benchmark.
const (
	peerTopMultiplier    = 0.6
	peerBottomMultiplier = 1.4
)

type CompanyDataDoc struct {
	Company       *types.Company                `json:"company"`
	Emissions     []*types.CarbonEmissionRecord `json:"emissions"`
	Latest        *types.CarbonEmissionRecord   `json:"latest,omitempty"`
	TrendPct      *float64                      `json:"trend_pct,omitempty"`
	GridIntensity *gridintensity.Intensity      `json:"grid_intensity,omitempty"`
	Benchmark     SectorBenchmark               `json:"benchmark"`
}

type BenchmarkDoc struct {
	Benchmark       SectorBenchmark    `json:"benchmark"`
	PeerPerformance map[string]float64 `json:"peer_performance"`
}

type UploadRowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type UploadResult struct {
	TotalRows int              `json:"total_rows"`
	Imported  int              `json:"imported"`
	Failed    int              `json:"failed"`
	Errors    []UploadRowError `json:"errors,omitempty"`
}

type CarbonService interface {
	ListCompanies(ctx context.Context) ([]*types.Company, error)
	CompanyData(ctx context.Context, companyID uuid.UUID) (*CompanyDataDoc, error)
	Recommendations(ctx context.Context, companyID uuid.UUID) ([]*types.AIInsight, error)
	Benchmarks(ctx context.Context, sector string) (*BenchmarkDoc, error)
	UploadEmissions(ctx context.Context, r io.Reader) (*UploadResult, error)
}

type carbonService struct {
	db            *gorm.DB
	log           *logger.Logger
	companyRepo   repos.CompanyRepo
	emissionRepo  repos.EmissionRepo
	gridIntensity GridIntensityProvider
	recommender   Recommender
	cache         cache.Cache
	cacheTTL      time.Duration
}

func NewCarbonService(
	db *gorm.DB,
	log *logger.Logger,
	companyRepo repos.CompanyRepo,
	emissionRepo repos.EmissionRepo,
	gridIntensity GridIntensityProvider,
	recommender Recommender,
	c cache.Cache,
	cacheTTL time.Duration,
) CarbonService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &carbonService{
		db:            db,
		log:           log.With("service", "CarbonService"),
		companyRepo:   companyRepo,
		emissionRepo:  emissionRepo,
		gridIntensity: gridIntensity,
		recommender:   recommender,
		cache:         c,
		cacheTTL:      cacheTTL,
	}
}

func (cs *carbonService) ListCompanies(ctx context.Context) ([]*types.Company, error) {
	companies, err := cs.companyRepo.List(ctx, nil)
	if err != nil {
		return nil, apierror.Internal("list companies", err)
	}
	return companies, nil
}

func (cs *carbonService) CompanyData(ctx context.Context, companyID uuid.UUID) (*CompanyDataDoc, error) {
	company, err := cs.companyRepo.GetByID(ctx, nil, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("company not found")
		}
		return nil, apierror.Internal("load company", err)
	}

	emissions, err := cs.emissionRepo.ListByCompany(ctx, nil, companyID)
	if err != nil {
		return nil, apierror.Internal("load emissions", err)
	}

	doc := &CompanyDataDoc{
		Company:   company,
		Emissions: emissions,
		Benchmark: benchmarkFor(company.Sector),
	}
	if n := len(emissions); n > 0 {
		// ListByCompany orders by reporting_year ascending.
		doc.Latest = emissions[n-1]
		if n > 1 && emissions[n-2].TotalTonnes > 0 {
			trend := (emissions[n-1].TotalTonnes - emissions[n-2].TotalTonnes) / emissions[n-2].TotalTonnes * 100
			doc.TrendPct = &trend
		}
	}

	if cs.gridIntensity != nil && company.Country != "" {
		var intensity gridintensity.Intensity
		key := fmt.Sprintf("%s|latest|%s", gridintensity.Source, strings.ToUpper(company.Country))
		err := cache.FetchJSON(ctx, cs.cache, key, cs.cacheTTL, &intensity, func(ctx context.Context) (any, error) {
			return cs.gridIntensity.Latest(ctx, company.Country)
		})
		if err != nil {
			return nil, mapUpstreamError(err)
		}
		doc.GridIntensity = &intensity
	}

	return doc, nil
}

func (cs *carbonService) Recommendations(ctx context.Context, companyID uuid.UUID) ([]*types.AIInsight, error) {
	company, err := cs.companyRepo.GetByID(ctx, nil, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("company not found")
		}
		return nil, apierror.Internal("load company", err)
	}

	emissions, err := cs.emissionRepo.ListByCompany(ctx, nil, companyID)
	if err != nil {
		return nil, apierror.Internal("load emissions", err)
	}
	if len(emissions) == 0 {
		return nil, apierror.Validation("company has no emission records")
	}

	latest := emissions[len(emissions)-1]
	scope3Share := 0.0
	if latest.TotalTonnes > 0 {
		scope3Share = latest.Scope3Tonnes / latest.TotalTonnes
	}

	insights, err := cs.recommender.Recommend(ctx, types.DomainCarbon, company.ID, map[string]float64{
		"intensity_per_musd": latest.IntensityPerMUSD,
		"scope3_share":       scope3Share,
		"quality_score":      latest.QualityScore,
	})
	if err != nil {
		return nil, apierror.Internal("generate recommendations", err)
	}
	return insights, nil
}

func (cs *carbonService) Benchmarks(ctx context.Context, sector string) (*BenchmarkDoc, error) {
	b := benchmarkFor(sector)
	scope12 := b.Scope12PerMUSD
	return &BenchmarkDoc{
		Benchmark: b,
		PeerPerformance: map[string]float64{
			"top_quartile":    scope12 * peerTopMultiplier,
			"median":          scope12,
			"bottom_quartile": scope12 * peerBottomMultiplier,
		},
	}, nil
}

func benchmarkFor(sector string) SectorBenchmark {
	sector = strings.ToLower(strings.TrimSpace(sector))
	sector = strings.ReplaceAll(sector, " ", "_")
	if b, ok := sectorBenchmarks[sector]; ok {
		return b
	}
	return genericBenchmark
}

// Expected CSV header, in order.
var uploadColumns = []string{
	"company_name", "sector", "size", "country", "reporting_year",
	"scope1_tonnes", "scope2_tonnes", "scope3_tonnes",
	"intensity_per_musd", "verification_status",
}

// UploadEmissions ingests a CSV of yearly emission rows. Rows fail
// independently: valid rows are imported, invalid ones are reported with
// their line number. Unknown companies are created on the fly.
func (cs *carbonService) UploadEmissions(ctx context.Context, r io.Reader) (*UploadResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apierror.Validation("empty or unreadable CSV file")
	}
	colIndex, err := mapUploadHeader(header)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{}
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.TotalRows++
			result.Failed++
			result.Errors = append(result.Errors, UploadRowError{Line: line, Reason: "malformed CSV row"})
			continue
		}
		result.TotalRows++
		if err := cs.importRow(ctx, colIndex, row); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, UploadRowError{Line: line, Reason: apierror.UserMessage(err)})
			continue
		}
		result.Imported++
	}

	if result.TotalRows == 0 {
		return nil, apierror.Validation("CSV file contains no data rows")
	}
	cs.log.Info("Emission upload processed", "total", result.TotalRows, "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func mapUploadHeader(header []string) (map[string]int, error) {
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range uploadColumns[:8] {
		if _, ok := colIndex[required]; !ok {
			return nil, apierror.Validation(fmt.Sprintf("missing required column %q", required))
		}
	}
	return colIndex, nil
}

func field(colIndex map[string]int, row []string, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// importRow validates and persists one CSV row inside its own transaction so
// a failing row never poisons its neighbours.
func (cs *carbonService) importRow(ctx context.Context, colIndex map[string]int, row []string) error {
	name := field(colIndex, row, "company_name")
	if name == "" {
		return apierror.Validation("company_name is required")
	}

	year, err := strconv.Atoi(field(colIndex, row, "reporting_year"))
	if err != nil || year < 1990 || year > time.Now().Year()+1 {
		return apierror.Validation("reporting_year must be a plausible year")
	}

	scope1, err := parseNonNegative(field(colIndex, row, "scope1_tonnes"))
	if err != nil {
		return apierror.Validation("scope1_tonnes must be a non-negative number")
	}
	scope2, err := parseNonNegative(field(colIndex, row, "scope2_tonnes"))
	if err != nil {
		return apierror.Validation("scope2_tonnes must be a non-negative number")
	}
	scope3, err := parseNonNegative(field(colIndex, row, "scope3_tonnes"))
	if err != nil {
		return apierror.Validation("scope3_tonnes must be a non-negative number")
	}

	intensity := 0.0
	if raw := field(colIndex, row, "intensity_per_musd"); raw != "" {
		intensity, err = parseNonNegative(raw)
		if err != nil {
			return apierror.Validation("intensity_per_musd must be a non-negative number")
		}
	}

	status := types.VerificationUnverified
	if raw := field(colIndex, row, "verification_status"); raw != "" {
		status = types.VerificationStatus(strings.ToLower(raw))
		if !status.Valid() {
			return apierror.Validation("verification_status is not recognized")
		}
	}

	size := types.CompanyMedium
	if raw := field(colIndex, row, "size"); raw != "" {
		size = types.CompanySize(strings.ToLower(raw))
		if !size.Valid() {
			return apierror.Validation("size is not recognized")
		}
	}

	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := cs.companyRepo.GetByName(ctx, tx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			company = &types.Company{
				Name:    name,
				Sector:  strings.ToLower(field(colIndex, row, "sector")),
				Size:    size,
				Country: strings.ToUpper(field(colIndex, row, "country")),
			}
			if err := cs.companyRepo.Create(ctx, tx, company); err != nil {
				return apierror.Internal("create company", err)
			}
		} else if err != nil {
			return apierror.Internal("load company", err)
		}

		record := &types.CarbonEmissionRecord{
			CompanyID:          company.ID,
			ReportingYear:      year,
			Scope1Tonnes:       scope1,
			Scope2Tonnes:       scope2,
			Scope3Tonnes:       scope3,
			TotalTonnes:        scope1 + scope2 + scope3,
			IntensityPerMUSD:   intensity,
			VerificationStatus: status,
			QualityScore:       qualityScoreFor(status),
		}
		return cs.emissionRepo.Create(ctx, tx, record)
	})
}

func parseNonNegative(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %f", v)
	}
	return v, nil
}

func qualityScoreFor(status types.VerificationStatus) float64 {
	switch status {
	case types.VerificationThirdParty:
		return 0.9
	case types.VerificationSelfReport:
		return 0.6
	default:
		return 0.4
	}
}
