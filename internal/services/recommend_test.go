package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

func newRecommender(t *testing.T) (Recommender, repos.InsightRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	insightRepo := repos.NewInsightRepo(db, log)
	rec, err := NewRuleRecommender(log, insightRepo, time.Hour)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return rec, insightRepo
}

func TestRecommend_MatchesCarbonRules(t *testing.T) {
	rec, _ := newRecommender(t)
	ctx := actorContext(uuid.New())

	insights, err := rec.Recommend(ctx, types.DomainCarbon, uuid.New(), map[string]float64{
		"intensity_per_musd": 150,
		"scope3_share":       0.7,
		"quality_score":      0.9,
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(insights) != 2 {
		t.Fatalf("expected intensity and scope 3 insights, got %d", len(insights))
	}
	titles := map[string]bool{}
	for _, in := range insights {
		titles[in.Title] = true
		if in.Domain != types.DomainCarbon {
			t.Fatalf("wrong domain on insight: %+v", in)
		}
		if in.ExpiresAt.Before(time.Now()) {
			t.Fatalf("insight already expired: %+v", in)
		}
	}
	if !titles["Emission intensity above sector benchmark"] || !titles["Supply chain dominates footprint"] {
		t.Fatalf("unexpected insight titles: %v", titles)
	}
}

func TestRecommend_CapsPerRequest(t *testing.T) {
	rec, _ := newRecommender(t)
	ctx := actorContext(uuid.New())

	// Every weather rule matches; only max_per_request survive.
	insights, err := rec.Recommend(ctx, types.DomainWeather, uuid.New(), map[string]float64{
		"temperature_c":    45,
		"wind_speed_ms":    20,
		"precipitation_mm": 30,
		"risk_score":       0.1,
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(insights) != 3 {
		t.Fatalf("expected the per-request cap of 3, got %d", len(insights))
	}
}

func TestRecommend_PersistsInsights(t *testing.T) {
	rec, insightRepo := newRecommender(t)
	ctx := actorContext(uuid.New())
	entity := uuid.New()

	insights, err := rec.Recommend(ctx, types.DomainUrban, entity, map[string]float64{
		"green_coverage_pct": 10,
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("expected one urban insight, got %d", len(insights))
	}

	stored, err := insightRepo.ListCurrent(ctx, nil, types.DomainUrban, entity, time.Now().UTC())
	if err != nil {
		t.Fatalf("list insights: %v", err)
	}
	if len(stored) != 1 || stored[0].Title != "Expand urban green infrastructure" {
		t.Fatalf("insight not persisted: %+v", stored)
	}
}

func TestRecommend_NoMatchesIsEmpty(t *testing.T) {
	rec, _ := newRecommender(t)

	insights, err := rec.Recommend(actorContext(uuid.New()), types.DomainCarbon, uuid.New(), map[string]float64{
		"intensity_per_musd": 50,
		"scope3_share":       0.2,
		"quality_score":      0.9,
	})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(insights) != 0 {
		t.Fatalf("expected no insights, got %+v", insights)
	}
}

func TestRecommend_UnknownDomain(t *testing.T) {
	rec, _ := newRecommender(t)
	if _, err := rec.Recommend(actorContext(uuid.New()), types.InsightDomain("finance"), uuid.New(), nil); err == nil {
		t.Fatal("unknown domain should be rejected")
	}
}
