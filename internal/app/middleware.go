package app

import (
	httpMW "github.com/Nidish2/Climate-Platform/internal/http/middleware"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

type Middleware struct {
	Auth            *httpMW.AuthMiddleware
	AuthLimiter     *httpMW.RateLimiter
	UpstreamLimiter *httpMW.RateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:            httpMW.NewAuthMiddleware(log, s.Auth),
		AuthLimiter:     httpMW.NewRateLimiter(log, cfg.AuthRatePerMinute, cfg.AuthRatePerMinute),
		UpstreamLimiter: httpMW.NewRateLimiter(log, cfg.UpstreamRatePerMinute, cfg.UpstreamRatePerMinute),
	}
}
