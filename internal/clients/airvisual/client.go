package airvisual

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/Nidish2/Climate-Platform/internal/clients/upstream"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

const Source = "airvisual"

// AirQuality is the normalized air quality document for the nearest
// monitoring station.
type AirQuality struct {
	City       string    `json:"city"`
	Country    string    `json:"country"`
	AQI        int       `json:"aqi"`
	Category   string    `json:"category"`
	Pollutant  string    `json:"main_pollutant"`
	MeasuredAt time.Time `json:"measured_at"`
}

type Client struct {
	log     *logger.Logger
	http    *upstream.Client
	baseURL string
	apiKey  string
}

func NewClient(log *logger.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.airvisual.com/v2"
	}
	return &Client{
		log:     log.With("client", "AirVisual"),
		http:    upstream.NewClient(Source, timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type nearestCityPayload struct {
	Data struct {
		City    string `json:"city"`
		Country string `json:"country"`
		Current struct {
			Pollution struct {
				AQIUS  int    `json:"aqius"`
				MainUS string `json:"mainus"`
				Ts     string `json:"ts"`
			} `json:"pollution"`
		} `json:"current"`
	} `json:"data"`
}

func (c *Client) NearestCity(ctx context.Context, lat, lon float64) (*AirQuality, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("key", c.apiKey)

	var payload nearestCityPayload
	if err := c.http.GetJSON(ctx, c.baseURL+"/nearest_city", params, &payload); err != nil {
		return nil, err
	}

	measuredAt, err := time.Parse(time.RFC3339, payload.Data.Current.Pollution.Ts)
	if err != nil {
		measuredAt = time.Now().UTC()
	}
	aqi := payload.Data.Current.Pollution.AQIUS
	return &AirQuality{
		City:       payload.Data.City,
		Country:    payload.Data.Country,
		AQI:        aqi,
		Category:   categorize(aqi),
		Pollutant:  payload.Data.Current.Pollution.MainUS,
		MeasuredAt: measuredAt,
	}, nil
}

func categorize(aqi int) string {
	switch {
	case aqi <= 50:
		return "good"
	case aqi <= 100:
		return "moderate"
	case aqi <= 150:
		return "unhealthy_sensitive"
	case aqi <= 200:
		return "unhealthy"
	case aqi <= 300:
		return "very_unhealthy"
	default:
		return "hazardous"
	}
}
