package app

import (
	"github.com/Nidish2/Climate-Platform/internal/cache"
	"github.com/Nidish2/Climate-Platform/internal/clients/airvisual"
	"github.com/Nidish2/Climate-Platform/internal/clients/gridintensity"
	"github.com/Nidish2/Climate-Platform/internal/clients/openweather"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

type Clients struct {
	OpenWeather   *openweather.Client
	AirVisual     *airvisual.Client
	GridIntensity *gridintensity.Client
	Cache         cache.Cache
}

func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")

	var upstreamCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis unreachable, using in-process cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			upstreamCache = redisCache
		}
	}
	if upstreamCache == nil {
		upstreamCache = cache.NewMemoryCache()
	}

	return Clients{
		OpenWeather:   openweather.NewClient(log, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, cfg.AdapterTimeout),
		AirVisual:     airvisual.NewClient(log, cfg.AirVisualBaseURL, cfg.AirVisualAPIKey, cfg.AdapterTimeout),
		GridIntensity: gridintensity.NewClient(log, cfg.GridIntensityBaseURL, cfg.GridIntensityAPIKey, cfg.AdapterTimeout),
		Cache:         upstreamCache,
	}
}
