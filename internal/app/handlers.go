package app

import (
	httpH "github.com/Nidish2/Climate-Platform/internal/http/handlers"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

type Handlers struct {
	Auth      *httpH.AuthHandler
	Health    *httpH.HealthHandler
	Dashboard *httpH.DashboardHandler
	Weather   *httpH.WeatherHandler
	Carbon    *httpH.CarbonHandler
	Urban     *httpH.UrbanHandler
	Job       *httpH.JobHandler
}

func wireHandlers(log *logger.Logger, cfg Config, s Services, c Clients, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	adapters := map[string]bool{
		"openweather":   c.OpenWeather.Configured(),
		"airvisual":     c.AirVisual.Configured(),
		"gridintensity": c.GridIntensity.Configured(),
	}
	return Handlers{
		Auth:      httpH.NewAuthHandler(log, s.Auth),
		Health:    httpH.NewHealthHandler(cfg.Version, db, adapters),
		Dashboard: httpH.NewDashboardHandler(log, s.Dashboard),
		Weather:   httpH.NewWeatherHandler(log, s.Weather),
		Carbon:    httpH.NewCarbonHandler(log, s.Carbon),
		Urban:     httpH.NewUrbanHandler(log, s.Urban),
		Job:       httpH.NewJobHandler(log, s.Jobs),
	}
}
