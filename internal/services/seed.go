package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

// SeedService loads the demo data set: three users (one per role), four
// companies with emission history, and two cities with a scenario baseline.
// Seeding is idempotent; existing rows are left untouched.
type SeedService interface {
	Seed(ctx context.Context) error
}

type seedService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	companyRepo  repos.CompanyRepo
	emissionRepo repos.EmissionRepo
	cityRepo     repos.CityRepo
}

func NewSeedService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	companyRepo repos.CompanyRepo,
	emissionRepo repos.EmissionRepo,
	cityRepo repos.CityRepo,
) SeedService {
	return &seedService{
		log:          log.With("service", "SeedService"),
		userRepo:     userRepo,
		companyRepo:  companyRepo,
		emissionRepo: emissionRepo,
		cityRepo:     cityRepo,
	}
}

type seedUser struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      types.Role
}

type seedEmission struct {
	year             int
	scope1           float64
	scope2           float64
	scope3           float64
	intensityPerMUSD float64
}

type seedCompany struct {
	name      string
	sector    string
	size      types.CompanySize
	country   string
	emissions []seedEmission
}

var demoUsers = []seedUser{
	{email: "admin@climate.com", password: "admin123", firstName: "Demo", lastName: "Admin", role: types.RoleAdmin},
	{email: "analyst@climate.com", password: "analyst123", firstName: "Demo", lastName: "Analyst", role: types.RoleAnalyst},
	{email: "planner@climate.com", password: "planner123", firstName: "Demo", lastName: "Planner", role: types.RolePlanner},
}

var demoCompanies = []seedCompany{
	{
		name: "GreenTech Industries", sector: "technology", size: types.CompanyLarge, country: "US",
		emissions: []seedEmission{
			{year: 2022, scope1: 1200, scope2: 3400, scope3: 8900, intensityPerMUSD: 18.4},
			{year: 2023, scope1: 1050, scope2: 3100, scope3: 8200, intensityPerMUSD: 16.1},
		},
	},
	{
		name: "Atlas Manufacturing", sector: "manufacturing", size: types.CompanyEnterprise, country: "DE",
		emissions: []seedEmission{
			{year: 2022, scope1: 45200, scope2: 21800, scope3: 96500, intensityPerMUSD: 94.7},
			{year: 2023, scope1: 43800, scope2: 20100, scope3: 91200, intensityPerMUSD: 88.9},
		},
	},
	{
		name: "Meridian Capital", sector: "financial_services", size: types.CompanyLarge, country: "UK",
		emissions: []seedEmission{
			{year: 2023, scope1: 850, scope2: 2100, scope3: 34600, intensityPerMUSD: 9.3},
		},
	},
	{
		name: "Harbor Retail Group", sector: "retail", size: types.CompanyMedium, country: "CA",
		emissions: []seedEmission{
			{year: 2023, scope1: 5600, scope2: 8900, scope3: 41200, intensityPerMUSD: 37.2},
		},
	},
}

type seedCity struct {
	name        string
	country     string
	population  int64
	areaKm2     float64
	lat         float64
	lon         float64
	climateZone string
}

var demoCities = []seedCity{
	{name: "Rotterdam", country: "NL", population: 655_000, areaKm2: 324.1, lat: 51.9244, lon: 4.4777, climateZone: "temperate_oceanic"},
	{name: "Singapore", country: "SG", population: 5_917_000, areaKm2: 734.3, lat: 1.3521, lon: 103.8198, climateZone: "tropical_rainforest"},
}

func (ss *seedService) Seed(ctx context.Context) error {
	if err := ss.seedUsers(ctx); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := ss.seedCompanies(ctx); err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}
	if err := ss.seedCities(ctx); err != nil {
		return fmt.Errorf("seed cities: %w", err)
	}
	ss.log.Info("Demo data seeded")
	return nil
}

func (ss *seedService) seedUsers(ctx context.Context) error {
	for _, u := range demoUsers {
		exists, err := ss.userRepo.EmailExists(ctx, nil, u.email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &types.User{
			Email:        u.email,
			PasswordHash: string(hash),
			FirstName:    u.firstName,
			LastName:     u.lastName,
			Role:         u.role,
			IsActive:     true,
		}
		if err := ss.userRepo.Create(ctx, nil, user); err != nil {
			return err
		}
	}
	return nil
}

func (ss *seedService) seedCompanies(ctx context.Context) error {
	for _, c := range demoCompanies {
		company, err := ss.companyRepo.GetByName(ctx, nil, c.name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			company = &types.Company{
				Name:    c.name,
				Sector:  c.sector,
				Size:    c.size,
				Country: c.country,
			}
			if err := ss.companyRepo.Create(ctx, nil, company); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for _, e := range c.emissions {
			_, err := ss.emissionRepo.GetByCompanyYear(ctx, nil, company.ID, e.year)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record := &types.CarbonEmissionRecord{
				CompanyID:          company.ID,
				ReportingYear:      e.year,
				Scope1Tonnes:       e.scope1,
				Scope2Tonnes:       e.scope2,
				Scope3Tonnes:       e.scope3,
				TotalTonnes:        e.scope1 + e.scope2 + e.scope3,
				IntensityPerMUSD:   e.intensityPerMUSD,
				VerificationStatus: types.VerificationSelfReport,
				QualityScore:       0.6,
			}
			if err := ss.emissionRepo.Create(ctx, nil, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ss *seedService) seedCities(ctx context.Context) error {
	for _, c := range demoCities {
		_, err := ss.cityRepo.GetByName(ctx, nil, c.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		city := &types.City{
			Name:        c.name,
			Country:     c.country,
			Population:  c.population,
			AreaKm2:     c.areaKm2,
			Latitude:    c.lat,
			Longitude:   c.lon,
			ClimateZone: c.climateZone,
		}
		if err := ss.cityRepo.Create(ctx, nil, city); err != nil {
			return err
		}
	}
	return nil
}
