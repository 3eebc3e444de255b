package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Nidish2/Climate-Platform/internal/clients/upstream"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

const Source = "openweather"

// Observation is the normalized current-conditions document. Provider field
// names stop at this boundary.
type Observation struct {
	Location      string    `json:"location"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	TemperatureC  float64   `json:"temperature_c"`
	FeelsLikeC    float64   `json:"feels_like_c"`
	Humidity      float64   `json:"humidity_pct"`
	PressureHPa   float64   `json:"pressure_hpa"`
	WindSpeedMS   float64   `json:"wind_speed_ms"`
	WindDirection float64   `json:"wind_direction_deg"`
	VisibilityKm  float64   `json:"visibility_km"`
	CloudCoverPct float64   `json:"cloud_cover_pct"`
	Condition     string    `json:"condition"`
	Description   string    `json:"description"`
	ObservedAt    time.Time `json:"observed_at"`
}

// ForecastPoint is one normalized forecast interval.
type ForecastPoint struct {
	At              time.Time `json:"at"`
	TemperatureC    float64   `json:"temperature_c"`
	FeelsLikeC      float64   `json:"feels_like_c"`
	Humidity        float64   `json:"humidity_pct"`
	PressureHPa     float64   `json:"pressure_hpa"`
	WindSpeedMS     float64   `json:"wind_speed_ms"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	Condition       string    `json:"condition"`
	Description     string    `json:"description"`
}

type Client struct {
	log     *logger.Logger
	http    *upstream.Client
	baseURL string
	apiKey  string
}

func NewClient(log *logger.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5"
	}
	return &Client{
		log:     log.With("client", "OpenWeather"),
		http:    upstream.NewClient(Source, timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type currentPayload struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Visibility float64 `json:"visibility"`
	Dt         int64   `json:"dt"`
}

func (c *Client) Current(ctx context.Context, location string) (*Observation, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var payload currentPayload
	if err := c.http.GetJSON(ctx, c.baseURL+"/weather", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Weather) == 0 {
		return nil, upstream.NewError(Source, upstream.KindMalformed, fmt.Errorf("empty weather block"))
	}

	observedAt := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		observedAt = time.Now().UTC()
	}
	return &Observation{
		Location:      location,
		Latitude:      payload.Coord.Lat,
		Longitude:     payload.Coord.Lon,
		TemperatureC:  payload.Main.Temp,
		FeelsLikeC:    payload.Main.FeelsLike,
		Humidity:      payload.Main.Humidity,
		PressureHPa:   payload.Main.Pressure,
		WindSpeedMS:   payload.Wind.Speed,
		WindDirection: payload.Wind.Deg,
		VisibilityKm:  payload.Visibility / 1000,
		CloudCoverPct: payload.Clouds.All,
		Condition:     payload.Weather[0].Main,
		Description:   payload.Weather[0].Description,
		ObservedAt:    observedAt,
	}, nil
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
		Snow struct {
			ThreeHour float64 `json:"3h"`
		} `json:"snow"`
	} `json:"list"`
}

// Forecast returns up to days of 3-hour intervals, capped at the provider's
// 5-day window.
func (c *Client) Forecast(ctx context.Context, location string, days int) ([]ForecastPoint, error) {
	if days <= 0 {
		days = 7
	}
	count := days * 8
	if count > 40 {
		count = 40
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	params.Set("cnt", strconv.Itoa(count))

	var payload forecastPayload
	if err := c.http.GetJSON(ctx, c.baseURL+"/forecast", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.List) == 0 {
		return nil, upstream.NewError(Source, upstream.KindMalformed, fmt.Errorf("empty forecast list"))
	}

	points := make([]ForecastPoint, 0, len(payload.List))
	for _, item := range payload.List {
		point := ForecastPoint{
			At:              time.Unix(item.Dt, 0).UTC(),
			TemperatureC:    item.Main.Temp,
			FeelsLikeC:      item.Main.FeelsLike,
			Humidity:        item.Main.Humidity,
			PressureHPa:     item.Main.Pressure,
			WindSpeedMS:     item.Wind.Speed,
			PrecipitationMM: item.Rain.ThreeHour + item.Snow.ThreeHour,
		}
		if len(item.Weather) > 0 {
			point.Condition = item.Weather[0].Main
			point.Description = item.Weather[0].Description
		}
		points = append(points, point)
	}
	return points, nil
}
