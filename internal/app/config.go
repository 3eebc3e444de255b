package app

import (
	"time"

	"github.com/Nidish2/Climate-Platform/internal/platform/envutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

type Config struct {
	Version string

	JWTSecretKey string
	TokenTTL     time.Duration

	CacheTTL        time.Duration
	RedisAddr       string
	AdapterTimeout  time.Duration
	JobPollInterval time.Duration

	AuthRatePerMinute     int
	UpstreamRatePerMinute int

	OpenWeatherAPIKey    string
	OpenWeatherBaseURL   string
	AirVisualAPIKey      string
	AirVisualBaseURL     string
	GridIntensityAPIKey  string
	GridIntensityBaseURL string

	SeedDemoData bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Version: envutil.GetEnv("APP_VERSION", "1.0.0", log),

		JWTSecretKey: envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		TokenTTL:     time.Duration(envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,

		CacheTTL:        time.Duration(envutil.GetEnvAsInt("UPSTREAM_CACHE_TTL", 300, log)) * time.Second,
		RedisAddr:       envutil.GetEnv("REDIS_ADDR", "", log),
		AdapterTimeout:  time.Duration(envutil.GetEnvAsInt("UPSTREAM_TIMEOUT", 10, log)) * time.Second,
		JobPollInterval: time.Duration(envutil.GetEnvAsInt("JOB_POLL_INTERVAL_MS", 2000, log)) * time.Millisecond,

		AuthRatePerMinute:     envutil.GetEnvAsInt("AUTH_RATE_PER_MINUTE", 5, log),
		UpstreamRatePerMinute: envutil.GetEnvAsInt("UPSTREAM_RATE_PER_MINUTE", 10, log),

		OpenWeatherAPIKey:    envutil.GetEnv("OPENWEATHER_API_KEY", "", log),
		OpenWeatherBaseURL:   envutil.GetEnv("OPENWEATHER_BASE_URL", "", log),
		AirVisualAPIKey:      envutil.GetEnv("AIRVISUAL_API_KEY", "", log),
		AirVisualBaseURL:     envutil.GetEnv("AIRVISUAL_BASE_URL", "", log),
		GridIntensityAPIKey:  envutil.GetEnv("GRID_INTENSITY_API_KEY", "", log),
		GridIntensityBaseURL: envutil.GetEnv("GRID_INTENSITY_BASE_URL", "", log),

		SeedDemoData: envutil.GetEnv("SEED_DEMO_DATA", "false", log) == "true",
	}
}
