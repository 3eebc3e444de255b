package gridintensity

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Nidish2/Climate-Platform/internal/clients/upstream"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

const Source = "gridintensity"

// Intensity is the normalized grid carbon intensity for one country.
type Intensity struct {
	CountryCode string    `json:"country_code"`
	GramsPerKWh float64   `json:"grams_co2e_per_kwh"`
	Estimated   bool      `json:"estimated"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Published averages used when the live API is unconfigured or unreachable
// (gCO2eq/kWh).
var countryAverages = map[string]float64{
	"US": 386,
	"DE": 338,
	"FR": 57,
	"UK": 233,
	"CN": 555,
	"IN": 708,
	"JP": 330,
	"CA": 120,
}

const globalAverage = 475

type Client struct {
	log     *logger.Logger
	http    *upstream.Client
	baseURL string
	apiKey  string
}

func NewClient(log *logger.Logger, baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.electricitymap.org/v3"
	}
	return &Client{
		log:     log.With("client", "GridIntensity"),
		http:    upstream.NewClient(Source, timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type intensityPayload struct {
	CarbonIntensity float64 `json:"carbonIntensity"`
	Zone            string  `json:"zone"`
}

// Latest returns the live grid intensity for countryCode, falling back to
// static country averages when the upstream is not configured.
func (c *Client) Latest(ctx context.Context, countryCode string) (*Intensity, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if countryCode == "" {
		countryCode = "US"
	}

	if !c.Configured() {
		return c.fallback(countryCode), nil
	}

	params := url.Values{}
	params.Set("zone", countryCode)
	params.Set("auth-token", c.apiKey)

	var payload intensityPayload
	if err := c.http.GetJSON(ctx, c.baseURL+"/carbon-intensity/latest", params, &payload); err != nil {
		if kind, ok := upstream.KindOf(err); ok && kind == upstream.KindRateLimited {
			return nil, err
		}
		c.log.Warn("Live intensity fetch failed, using country average", "country", countryCode, "error", err)
		return c.fallback(countryCode), nil
	}

	return &Intensity{
		CountryCode: countryCode,
		GramsPerKWh: payload.CarbonIntensity,
		Estimated:   false,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func (c *Client) fallback(countryCode string) *Intensity {
	grams, ok := countryAverages[countryCode]
	if !ok {
		grams = globalAverage
	}
	return &Intensity{
		CountryCode: countryCode,
		GramsPerKWh: grams,
		Estimated:   true,
		FetchedAt:   time.Now().UTC(),
	}
}
