package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

//go:embed rules/recommendations.yaml
var rulesYAML []byte

// Recommender produces insight artifacts for a domain given a numeric
// context. The current implementation is a fixed rule set; a learned model
// can replace it behind this interface without touching handlers.
type Recommender interface {
	Recommend(ctx context.Context, domain types.InsightDomain, entityID uuid.UUID, rcontext map[string]float64) ([]*types.AIInsight, error)
}

type rule struct {
	ID             string  `yaml:"id"`
	Field          string  `yaml:"field"`
	Op             string  `yaml:"op"`
	Value          float64 `yaml:"value"`
	Title          string  `yaml:"title"`
	Recommendation string  `yaml:"recommendation"`
	Confidence     float64 `yaml:"confidence"`
}

type ruleSet struct {
	MaxPerRequest int    `yaml:"max_per_request"`
	Weather       []rule `yaml:"weather"`
	Carbon        []rule `yaml:"carbon"`
	Urban         []rule `yaml:"urban"`
}

type ruleRecommender struct {
	log         *logger.Logger
	insightRepo repos.InsightRepo
	rules       ruleSet
	insightTTL  time.Duration
}

func NewRuleRecommender(log *logger.Logger, insightRepo repos.InsightRepo, insightTTL time.Duration) (Recommender, error) {
	var rs ruleSet
	if err := yaml.Unmarshal(rulesYAML, &rs); err != nil {
		return nil, fmt.Errorf("parse recommendation rules: %w", err)
	}
	if rs.MaxPerRequest <= 0 {
		rs.MaxPerRequest = 3
	}
	if insightTTL <= 0 {
		insightTTL = 24 * time.Hour
	}
	return &ruleRecommender{
		log:         log.With("service", "RuleRecommender"),
		insightRepo: insightRepo,
		rules:       rs,
		insightTTL:  insightTTL,
	}, nil
}

func (rr *ruleRecommender) Recommend(ctx context.Context, domain types.InsightDomain, entityID uuid.UUID, rcontext map[string]float64) ([]*types.AIInsight, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("unknown insight domain %q", domain)
	}

	var candidates []rule
	switch domain {
	case types.DomainWeather:
		candidates = rr.rules.Weather
	case types.DomainCarbon:
		candidates = rr.rules.Carbon
	case types.DomainUrban:
		candidates = rr.rules.Urban
	}

	supporting, err := json.Marshal(rcontext)
	if err != nil {
		return nil, fmt.Errorf("marshal insight context: %w", err)
	}

	now := time.Now().UTC()
	var insights []*types.AIInsight
	for _, r := range candidates {
		if len(insights) >= rr.rules.MaxPerRequest {
			break
		}
		val, ok := rcontext[r.Field]
		if !ok || !matches(r.Op, val, r.Value) {
			continue
		}
		insight := &types.AIInsight{
			ID:             uuid.New(),
			Domain:         domain,
			EntityID:       entityID,
			Title:          r.Title,
			Recommendation: r.Recommendation,
			Confidence:     clamp01(r.Confidence),
			SupportingData: datatypes.JSON(supporting),
			ExpiresAt:      now.Add(rr.insightTTL),
		}
		if rr.insightRepo != nil {
			if err := rr.insightRepo.Create(ctx, nil, insight); err != nil {
				return nil, fmt.Errorf("persist insight: %w", err)
			}
		}
		insights = append(insights, insight)
	}
	return insights, nil
}

func matches(op string, val, threshold float64) bool {
	switch op {
	case "gte":
		return val >= threshold
	case "lte":
		return val <= threshold
	case "eq":
		return val == threshold
	default:
		return false
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
