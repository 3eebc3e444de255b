package services

import (
	"context"
	"testing"

	"github.com/Nidish2/Climate-Platform/internal/repos"
)

func TestSeed_Idempotent(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	companyRepo := repos.NewCompanyRepo(db, log)
	emissionRepo := repos.NewEmissionRepo(db, log)
	cityRepo := repos.NewCityRepo(db, log)
	svc := NewSeedService(log, userRepo, companyRepo, emissionRepo, cityRepo)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := svc.Seed(ctx); err != nil {
			t.Fatalf("seed pass %d: %v", i+1, err)
		}
	}

	companies, err := companyRepo.List(ctx, nil)
	if err != nil {
		t.Fatalf("list companies: %v", err)
	}
	if len(companies) != 4 {
		t.Fatalf("expected 4 demo companies after reseeding, got %d", len(companies))
	}

	cities, err := cityRepo.List(ctx, nil)
	if err != nil {
		t.Fatalf("list cities: %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 demo cities after reseeding, got %d", len(cities))
	}

	user, err := userRepo.GetByEmail(ctx, nil, "admin@climate.com")
	if err != nil {
		t.Fatalf("seeded admin missing: %v", err)
	}
	if !user.Role.Can("manage_users") {
		t.Fatalf("admin user lost its role: %+v", user)
	}
}
