package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/Nidish2/Climate-Platform/internal/http/handlers"
	httpMW "github.com/Nidish2/Climate-Platform/internal/http/middleware"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	// Optional per-client-IP throttles. AuthLimiter covers the public auth
	// routes; UpstreamLimiter covers routes that proxy external weather APIs.
	AuthLimiter     *httpMW.RateLimiter
	UpstreamLimiter *httpMW.RateLimiter

	HealthHandler    *httpH.HealthHandler
	DashboardHandler *httpH.DashboardHandler
	WeatherHandler   *httpH.WeatherHandler
	CarbonHandler    *httpH.CarbonHandler
	UrbanHandler     *httpH.UrbanHandler
	JobHandler       *httpH.JobHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware("climate-platform"))

	api := r.Group("/api")
	{
		// Public
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.HealthCheck)
		}
		if cfg.AuthHandler != nil {
			auth := api.Group("/auth")
			if cfg.AuthLimiter != nil {
				auth.Use(cfg.AuthLimiter.Limit())
			}
			auth.POST("/register", cfg.AuthHandler.Register)
			auth.POST("/login", cfg.AuthHandler.Login)
			auth.GET("/verify", cfg.AuthHandler.Verify)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard/metrics", httpMW.RequireCapability(types.CapViewDashboard), cfg.DashboardHandler.Metrics)
			protected.GET("/dashboard/alerts", httpMW.RequireCapability(types.CapViewDashboard), cfg.DashboardHandler.Alerts)
		}

		if cfg.WeatherHandler != nil {
			// Predictions and risk fan out to external weather APIs; the
			// throttle keeps one noisy client from burning the quota.
			if cfg.UpstreamLimiter != nil {
				throttle := cfg.UpstreamLimiter.Limit()
				protected.GET("/weather/predictions", throttle, cfg.WeatherHandler.Predictions)
				protected.GET("/weather/risk", throttle, cfg.WeatherHandler.Risk)
			} else {
				protected.GET("/weather/predictions", cfg.WeatherHandler.Predictions)
				protected.GET("/weather/risk", cfg.WeatherHandler.Risk)
			}
			protected.GET("/weather/historical", cfg.WeatherHandler.Historical)
			protected.GET("/weather/alerts", cfg.WeatherHandler.Alerts)
		}

		if cfg.CarbonHandler != nil {
			protected.GET("/carbon/companies", cfg.CarbonHandler.ListCompanies)
			protected.GET("/carbon/data/:id", cfg.CarbonHandler.CompanyData)
			protected.GET("/carbon/recommendations/:id", cfg.CarbonHandler.Recommendations)
			protected.GET("/carbon/benchmarks", cfg.CarbonHandler.Benchmarks)
			protected.POST("/carbon/upload", httpMW.RequireCapability(types.CapUploadEmissions), cfg.CarbonHandler.Upload)
		}

		if cfg.UrbanHandler != nil {
			protected.GET("/urban/cities", cfg.UrbanHandler.Cities)
			protected.GET("/urban/cities/:id", cfg.UrbanHandler.CityByID)
			protected.GET("/urban/scenarios", cfg.UrbanHandler.Scenarios)
			protected.POST("/urban/scenarios", httpMW.RequireCapability(types.CapCreateScenario), cfg.UrbanHandler.CreateScenario)
			protected.GET("/urban/resilience", cfg.UrbanHandler.Resilience)
			protected.POST("/urban/simulate", httpMW.RequireCapability(types.CapRunSimulation), cfg.UrbanHandler.Simulate)
		}

		if cfg.JobHandler != nil {
			protected.GET("/jobs/:id", cfg.JobHandler.GetJob)
		}
	}

	return r
}
