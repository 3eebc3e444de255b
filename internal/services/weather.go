package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/Nidish2/Climate-Platform/internal/cache"
	"github.com/Nidish2/Climate-Platform/internal/clients/airvisual"
	"github.com/Nidish2/Climate-Platform/internal/clients/openweather"
	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/repos"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

// WeatherProvider is the slice of the OpenWeather adapter the service needs;
// tests substitute it.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (*openweather.Observation, error)
	Forecast(ctx context.Context, location string, days int) ([]openweather.ForecastPoint, error)
	Configured() bool
}

// AirQualityProvider is the slice of the AirVisual adapter the service needs.
type AirQualityProvider interface {
	NearestCity(ctx context.Context, lat, lon float64) (*airvisual.AirQuality, error)
	Configured() bool
}

// Severity thresholds for risk classification.
const (
	tempExtremeHotC  = 40.0
	tempHotC         = 35.0
	tempColdC        = -10.0
	tempExtremeColdC = -20.0
	windHighMS       = 15.0
	windExtremeMS    = 25.0
	precipHeavyMM    = 10.0
	precipExtremeMM  = 25.0
)

type PredictionDoc struct {
	Location    string                      `json:"location"`
	Range       string                      `json:"range"`
	Current     *openweather.Observation    `json:"current"`
	Forecast    []openweather.ForecastPoint `json:"forecast"`
	RiskLevel   string                      `json:"risk_level"`
	RiskScore   float64                     `json:"risk_score"`
	Confidence  float64                     `json:"confidence"`
	Insights    []*types.AIInsight          `json:"insights"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

type RiskDoc struct {
	Location   string                `json:"location"`
	RiskLevel  string                `json:"risk_level"`
	RiskScore  float64               `json:"risk_score"`
	Factors    []string              `json:"factors"`
	AirQuality *airvisual.AirQuality `json:"air_quality,omitempty"`
	AssessedAt time.Time             `json:"assessed_at"`
}

type WeatherService interface {
	Predictions(ctx context.Context, location, rng string) (*PredictionDoc, error)
	Risk(ctx context.Context, location string) (*RiskDoc, error)
	Historical(ctx context.Context, location string, limit int) ([]*types.WeatherRecord, error)
	ActiveAlerts(ctx context.Context) ([]*types.WeatherAlert, error)
}

type weatherService struct {
	log         *logger.Logger
	weatherRepo repos.WeatherRepo
	weather     WeatherProvider
	airQuality  AirQualityProvider
	recommender Recommender
	cache       cache.Cache
	cacheTTL    time.Duration
}

func NewWeatherService(
	log *logger.Logger,
	weatherRepo repos.WeatherRepo,
	weather WeatherProvider,
	airQuality AirQualityProvider,
	recommender Recommender,
	c cache.Cache,
	cacheTTL time.Duration,
) WeatherService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &weatherService{
		log:         log.With("service", "WeatherService"),
		weatherRepo: weatherRepo,
		weather:     weather,
		airQuality:  airQuality,
		recommender: recommender,
		cache:       c,
		cacheTTL:    cacheTTL,
	}
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

func parseRangeDays(rng string) int {
	rng = strings.TrimSuffix(strings.TrimSpace(rng), "d")
	days, err := strconv.Atoi(rng)
	if err != nil || days <= 0 {
		return 7
	}
	if days > 14 {
		days = 14
	}
	return days
}

func (ws *weatherService) Predictions(ctx context.Context, location, rng string) (*PredictionDoc, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apierror.Validation("location is required")
	}
	days := parseRangeDays(rng)

	var current openweather.Observation
	key := fmt.Sprintf("%s|current|%s", openweather.Source, normalizeLocation(location))
	err := cache.FetchJSON(ctx, ws.cache, key, ws.cacheTTL, &current, func(ctx context.Context) (any, error) {
		return ws.weather.Current(ctx, location)
	})
	if err != nil {
		return nil, mapUpstreamError(err)
	}

	var forecast []openweather.ForecastPoint
	key = fmt.Sprintf("%s|forecast|%s|%dd", openweather.Source, normalizeLocation(location), days)
	err = cache.FetchJSON(ctx, ws.cache, key, ws.cacheTTL, &forecast, func(ctx context.Context) (any, error) {
		return ws.weather.Forecast(ctx, location, days)
	})
	if err != nil {
		return nil, mapUpstreamError(err)
	}

	riskLevel, riskScore, _ := classifyRisk(&current, forecast)
	confidence := forecastConfidence(days)

	metrics, mErr := json.Marshal(current)
	if mErr != nil {
		return nil, apierror.Internal("marshal observation", mErr)
	}
	record := &types.WeatherRecord{
		Location:   location,
		Latitude:   current.Latitude,
		Longitude:  current.Longitude,
		ObservedAt: current.ObservedAt,
		Kind:       "observation",
		Metrics:    datatypes.JSON(metrics),
		RiskLevel:  riskLevel,
		Confidence: confidence,
	}
	if err := ws.weatherRepo.CreateRecord(ctx, nil, record); err != nil {
		return nil, apierror.Internal("store weather record", err)
	}

	if err := ws.raiseAlertIfSevere(ctx, location, &current, riskLevel); err != nil {
		ws.log.Warn("Failed to raise weather alert", "location", location, "error", err)
	}

	insights, err := ws.recommender.Recommend(ctx, types.DomainWeather, record.ID, map[string]float64{
		"temperature_c":    current.TemperatureC,
		"wind_speed_ms":    current.WindSpeedMS,
		"precipitation_mm": maxPrecip(forecast),
		"risk_score":       riskScore,
	})
	if err != nil {
		ws.log.Warn("Recommendation generation failed", "location", location, "error", err)
	}

	return &PredictionDoc{
		Location:    location,
		Range:       fmt.Sprintf("%dd", days),
		Current:     &current,
		Forecast:    forecast,
		RiskLevel:   riskLevel,
		RiskScore:   riskScore,
		Confidence:  confidence,
		Insights:    insights,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (ws *weatherService) Risk(ctx context.Context, location string) (*RiskDoc, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apierror.Validation("location is required")
	}

	var current openweather.Observation
	key := fmt.Sprintf("%s|current|%s", openweather.Source, normalizeLocation(location))
	err := cache.FetchJSON(ctx, ws.cache, key, ws.cacheTTL, &current, func(ctx context.Context) (any, error) {
		return ws.weather.Current(ctx, location)
	})
	if err != nil {
		return nil, mapUpstreamError(err)
	}

	riskLevel, riskScore, factors := classifyRisk(&current, nil)

	doc := &RiskDoc{
		Location:   location,
		RiskLevel:  riskLevel,
		RiskScore:  riskScore,
		Factors:    factors,
		AssessedAt: time.Now().UTC(),
	}

	if ws.airQuality != nil && ws.airQuality.Configured() {
		var aq airvisual.AirQuality
		key = fmt.Sprintf("%s|aq|%.4f,%.4f", airvisual.Source, current.Latitude, current.Longitude)
		err := cache.FetchJSON(ctx, ws.cache, key, ws.cacheTTL, &aq, func(ctx context.Context) (any, error) {
			return ws.airQuality.NearestCity(ctx, current.Latitude, current.Longitude)
		})
		if err != nil {
			// Air quality is supplementary; the risk document still stands.
			ws.log.Warn("Air quality fetch failed", "location", location, "error", err)
		} else {
			doc.AirQuality = &aq
		}
	}

	return doc, nil
}

func (ws *weatherService) Historical(ctx context.Context, location string, limit int) ([]*types.WeatherRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apierror.Validation("location is required")
	}
	records, err := ws.weatherRepo.ListRecords(ctx, nil, location, limit)
	if err != nil {
		return nil, apierror.Internal("list weather records", err)
	}
	return records, nil
}

func (ws *weatherService) ActiveAlerts(ctx context.Context) ([]*types.WeatherAlert, error) {
	if _, err := ws.weatherRepo.DeactivateExpired(ctx, nil, time.Now().UTC()); err != nil {
		ws.log.Warn("Failed to deactivate expired alerts", "error", err)
	}
	alerts, err := ws.weatherRepo.ListActiveAlerts(ctx, nil)
	if err != nil {
		return nil, apierror.Internal("list alerts", err)
	}
	return alerts, nil
}

func (ws *weatherService) raiseAlertIfSevere(ctx context.Context, location string, obs *openweather.Observation, riskLevel string) error {
	if riskLevel != "high" && riskLevel != "extreme" {
		return nil
	}
	details, err := json.Marshal(obs)
	if err != nil {
		return err
	}
	severity := types.SeveritySevere
	if riskLevel == "extreme" {
		severity = types.SeverityCritical
	}
	end := time.Now().UTC().Add(6 * time.Hour)
	alert := &types.WeatherAlert{
		Location:  location,
		AlertType: alertType(obs),
		Severity:  severity,
		Headline:  fmt.Sprintf("%s risk conditions in %s", riskLevel, location),
		Details:   datatypes.JSON(details),
		StartTime: time.Now().UTC(),
		EndTime:   &end,
		IsActive:  true,
	}
	return ws.weatherRepo.CreateAlert(ctx, nil, alert)
}

func alertType(obs *openweather.Observation) string {
	switch {
	case obs.TemperatureC >= tempHotC:
		return "extreme_heat"
	case obs.TemperatureC <= tempColdC:
		return "extreme_cold"
	case obs.WindSpeedMS >= windHighMS:
		return "high_wind"
	default:
		return "severe_weather"
	}
}

// classifyRisk scores current conditions plus forecast extremes against the
// fixed severity thresholds.
func classifyRisk(current *openweather.Observation, forecast []openweather.ForecastPoint) (string, float64, []string) {
	score := 0.0
	var factors []string

	switch {
	case current.TemperatureC >= tempExtremeHotC:
		score += 0.5
		factors = append(factors, "extreme heat")
	case current.TemperatureC >= tempHotC:
		score += 0.3
		factors = append(factors, "high temperature")
	case current.TemperatureC <= tempExtremeColdC:
		score += 0.5
		factors = append(factors, "extreme cold")
	case current.TemperatureC <= tempColdC:
		score += 0.3
		factors = append(factors, "low temperature")
	}

	switch {
	case current.WindSpeedMS >= windExtremeMS:
		score += 0.4
		factors = append(factors, "extreme wind")
	case current.WindSpeedMS >= windHighMS:
		score += 0.25
		factors = append(factors, "high wind")
	}

	if p := maxPrecip(forecast); p >= precipExtremeMM {
		score += 0.4
		factors = append(factors, "extreme precipitation forecast")
	} else if p >= precipHeavyMM {
		score += 0.25
		factors = append(factors, "heavy precipitation forecast")
	}

	if score > 1 {
		score = 1
	}
	switch {
	case score >= 0.8:
		return "extreme", score, factors
	case score >= 0.5:
		return "high", score, factors
	case score >= 0.25:
		return "moderate", score, factors
	default:
		return "low", score, factors
	}
}

func maxPrecip(forecast []openweather.ForecastPoint) float64 {
	max := 0.0
	for _, p := range forecast {
		if p.PrecipitationMM > max {
			max = p.PrecipitationMM
		}
	}
	return max
}

// Confidence decays with forecast horizon.
func forecastConfidence(days int) float64 {
	c := 0.95 - 0.05*float64(days)
	if c < 0.3 {
		c = 0.3
	}
	return c
}
