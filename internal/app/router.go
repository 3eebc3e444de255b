package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/Nidish2/Climate-Platform/internal/http"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:              log,
		AuthHandler:      handlers.Auth,
		AuthMiddleware:   middleware.Auth,
		AuthLimiter:      middleware.AuthLimiter,
		UpstreamLimiter:  middleware.UpstreamLimiter,
		HealthHandler:    handlers.Health,
		DashboardHandler: handlers.Dashboard,
		WeatherHandler:   handlers.Weather,
		CarbonHandler:    handlers.Carbon,
		UrbanHandler:     handlers.Urban,
		JobHandler:       handlers.Job,
	})
}
