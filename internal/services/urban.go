package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

const JobTypeUrbanSimulation = "urban_simulation"

// Baseline assumptions applied when a scenario leaves a parameter unset.
const (
	defaultGreenCoveragePct = 25.0
	defaultFloodResilience  = 0.55
)

type ScenarioInput struct {
	CityID     uuid.UUID          `json:"city_id"`
	Name       string             `json:"name"`
	Parameters map[string]float64 `json:"parameters"`
}

type ResilienceDoc struct {
	CityID            uuid.UUID          `json:"city_id"`
	ScenarioID        *uuid.UUID         `json:"scenario_id,omitempty"`
	GreenCoveragePct  float64            `json:"green_coverage_pct"`
	FloodResilience   float64            `json:"flood_resilience"`
	PopulationDensity float64            `json:"population_density_per_km2"`
	HeatScore         float64            `json:"heat_score"`
	FloodScore        float64            `json:"flood_score"`
	DensityScore      float64            `json:"density_score"`
	ResilienceScore   float64            `json:"resilience_score"`
	Insights          []*types.AIInsight `json:"insights,omitempty"`
	AssessedAt        time.Time          `json:"assessed_at"`
}

type simulationPayload struct {
	CityID     uuid.UUID  `json:"city_id"`
	ScenarioID *uuid.UUID `json:"scenario_id,omitempty"`
}

type UrbanService interface {
	Cities(ctx context.Context) ([]*types.City, error)
	CityByID(ctx context.Context, id uuid.UUID) (*types.City, error)
	Scenarios(ctx context.Context, cityID uuid.UUID) ([]*types.UrbanScenario, error)
	CreateScenario(ctx context.Context, input ScenarioInput) (*types.UrbanScenario, error)
	Resilience(ctx context.Context, cityID uuid.UUID, scenarioID *uuid.UUID) (*ResilienceDoc, error)
	Simulate(ctx context.Context, cityID uuid.UUID, scenarioID *uuid.UUID) (*types.ProcessingJob, error)

	// ExecuteSimulation runs a queued simulation job and returns its result
	// document. The job worker is the only caller.
	ExecuteSimulation(ctx context.Context, payload datatypes.JSON) (datatypes.JSON, error)
}

type urbanService struct {
	log          *logger.Logger
	cityRepo     repos.CityRepo
	scenarioRepo repos.ScenarioRepo
	jobRepo      repos.JobRepo
	recommender  Recommender
}

func NewUrbanService(
	log *logger.Logger,
	cityRepo repos.CityRepo,
	scenarioRepo repos.ScenarioRepo,
	jobRepo repos.JobRepo,
	recommender Recommender,
) UrbanService {
	return &urbanService{
		log:          log.With("service", "UrbanService"),
		cityRepo:     cityRepo,
		scenarioRepo: scenarioRepo,
		jobRepo:      jobRepo,
		recommender:  recommender,
	}
}

func (us *urbanService) Cities(ctx context.Context) ([]*types.City, error) {
	cities, err := us.cityRepo.List(ctx, nil)
	if err != nil {
		return nil, apierror.Internal("list cities", err)
	}
	return cities, nil
}

func (us *urbanService) CityByID(ctx context.Context, id uuid.UUID) (*types.City, error) {
	city, err := us.cityRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("city not found")
		}
		return nil, apierror.Internal("load city", err)
	}
	return city, nil
}

func (us *urbanService) Scenarios(ctx context.Context, cityID uuid.UUID) ([]*types.UrbanScenario, error) {
	if _, err := us.CityByID(ctx, cityID); err != nil {
		return nil, err
	}
	scenarios, err := us.scenarioRepo.ListByCity(ctx, nil, cityID)
	if err != nil {
		return nil, apierror.Internal("list scenarios", err)
	}
	return scenarios, nil
}

func (us *urbanService) CreateScenario(ctx context.Context, input ScenarioInput) (*types.UrbanScenario, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apierror.Validation("scenario name is required")
	}
	if _, err := us.CityByID(ctx, input.CityID); err != nil {
		return nil, err
	}
	for key, v := range input.Parameters {
		if v < 0 {
			return nil, apierror.Validation(fmt.Sprintf("parameter %q must not be negative", key))
		}
	}

	params, err := json.Marshal(input.Parameters)
	if err != nil {
		return nil, apierror.Internal("marshal scenario parameters", err)
	}
	scenario := &types.UrbanScenario{
		CityID:     input.CityID,
		Name:       input.Name,
		Parameters: datatypes.JSON(params),
		CreatedBy:  ctxutil.ActorID(ctx),
	}
	if err := us.scenarioRepo.Create(ctx, nil, scenario); err != nil {
		return nil, apierror.Internal("create scenario", err)
	}
	return scenario, nil
}

func (us *urbanService) Resilience(ctx context.Context, cityID uuid.UUID, scenarioID *uuid.UUID) (*ResilienceDoc, error) {
	doc, entityID, err := us.assess(ctx, cityID, scenarioID)
	if err != nil {
		return nil, err
	}

	insights, err := us.recommender.Recommend(ctx, types.DomainUrban, entityID, map[string]float64{
		"green_coverage_pct": doc.GreenCoveragePct,
		"flood_resilience":   doc.FloodResilience,
		"population_density": doc.PopulationDensity,
		"resilience_score":   doc.ResilienceScore,
	})
	if err != nil {
		us.log.Warn("Recommendation generation failed", "city_id", cityID, "error", err)
	}
	doc.Insights = insights
	return doc, nil
}

func (us *urbanService) Simulate(ctx context.Context, cityID uuid.UUID, scenarioID *uuid.UUID) (*types.ProcessingJob, error) {
	if _, err := us.CityByID(ctx, cityID); err != nil {
		return nil, err
	}
	if scenarioID != nil {
		scenario, err := us.loadScenario(ctx, *scenarioID)
		if err != nil {
			return nil, err
		}
		if scenario.CityID != cityID {
			return nil, apierror.Validation("scenario does not belong to the given city")
		}
	}

	payload, err := json.Marshal(simulationPayload{CityID: cityID, ScenarioID: scenarioID})
	if err != nil {
		return nil, apierror.Internal("marshal job payload", err)
	}
	job := &types.ProcessingJob{
		JobType:     JobTypeUrbanSimulation,
		Payload:     datatypes.JSON(payload),
		SubmittedBy: ctxutil.ActorID(ctx),
	}
	if err := us.jobRepo.Create(ctx, nil, job); err != nil {
		return nil, apierror.Internal("enqueue simulation job", err)
	}
	us.log.Info("Simulation job enqueued", "job_id", job.ID, "city_id", cityID)
	return job, nil
}

func (us *urbanService) ExecuteSimulation(ctx context.Context, raw datatypes.JSON) (datatypes.JSON, error) {
	var payload simulationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode simulation payload: %w", err)
	}
	doc, _, err := us.assess(ctx, payload.CityID, payload.ScenarioID)
	if err != nil {
		return nil, err
	}
	result, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal simulation result: %w", err)
	}
	return datatypes.JSON(result), nil
}

func (us *urbanService) loadScenario(ctx context.Context, id uuid.UUID) (*types.UrbanScenario, error) {
	scenario, err := us.scenarioRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("scenario not found")
		}
		return nil, apierror.Internal("load scenario", err)
	}
	return scenario, nil
}

// assess computes the resilience document for a city, optionally overlaying a
// scenario's parameters on the city baseline.
func (us *urbanService) assess(ctx context.Context, cityID uuid.UUID, scenarioID *uuid.UUID) (*ResilienceDoc, uuid.UUID, error) {
	city, err := us.CityByID(ctx, cityID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	params := map[string]float64{}
	entityID := city.ID
	if scenarioID != nil {
		scenario, err := us.loadScenario(ctx, *scenarioID)
		if err != nil {
			return nil, uuid.Nil, err
		}
		if scenario.CityID != cityID {
			return nil, uuid.Nil, apierror.Validation("scenario does not belong to the given city")
		}
		if len(scenario.Parameters) > 0 {
			if err := json.Unmarshal(scenario.Parameters, &params); err != nil {
				return nil, uuid.Nil, apierror.Internal("decode scenario parameters", err)
			}
		}
		entityID = scenario.ID
	}

	green := paramOr(params, "green_coverage_pct", defaultGreenCoveragePct)
	flood := paramOr(params, "flood_resilience", defaultFloodResilience)
	density := 0.0
	if city.AreaKm2 > 0 {
		density = float64(city.Population) / city.AreaKm2
	}
	if override, ok := params["population_density"]; ok {
		density = override
	}

	heatScore := clamp01(green / 40)
	floodScore := clamp01(flood)
	densityScore := clamp01(1 - density/20000)
	overall := clamp01(0.4*heatScore + 0.4*floodScore + 0.2*densityScore)

	return &ResilienceDoc{
		CityID:            city.ID,
		ScenarioID:        scenarioID,
		GreenCoveragePct:  green,
		FloodResilience:   flood,
		PopulationDensity: density,
		HeatScore:         heatScore,
		FloodScore:        floodScore,
		DensityScore:      densityScore,
		ResilienceScore:   overall,
		AssessedAt:        time.Now().UTC(),
	}, entityID, nil
}

func paramOr(params map[string]float64, key string, fallback float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}
