package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Recommender services.Recommender
	Weather     services.WeatherService
	Carbon      services.CarbonService
	Urban       services.UrbanService
	Dashboard   services.DashboardService
	Jobs        services.JobService
	Seed        services.SeedService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	recommender, err := services.NewRuleRecommender(log, r.Insight, 0)
	if err != nil {
		return Services{}, fmt.Errorf("init recommender: %w", err)
	}

	auth := services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.TokenTTL)
	weather := services.NewWeatherService(log, r.Weather, c.OpenWeather, c.AirVisual, recommender, c.Cache, cfg.CacheTTL)
	carbon := services.NewCarbonService(db, log, r.Company, r.Emission, c.GridIntensity, recommender, c.Cache, cfg.CacheTTL)
	urban := services.NewUrbanService(log, r.City, r.Scenario, r.Job, recommender)
	dashboard := services.NewDashboardService(log, r.Weather, r.Emission, r.Job, r.Audit)
	jobs := services.NewJobService(log, r.Job, cfg.JobPollInterval)
	jobs.RegisterExecutor(services.JobTypeUrbanSimulation, urban.ExecuteSimulation)
	seed := services.NewSeedService(log, r.User, r.Company, r.Emission, r.City)

	return Services{
		Auth:        auth,
		Recommender: recommender,
		Weather:     weather,
		Carbon:      carbon,
		Urban:       urban,
		Dashboard:   dashboard,
		Jobs:        jobs,
		Seed:        seed,
	}, nil
}
