package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nidish2/Climate-Platform/internal/clients/upstream"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestCurrent_NormalizesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected metric units, got %q", r.URL.Query().Get("units"))
		}
		w.Write([]byte(`{
			"coord": {"lat": 51.92, "lon": 4.48},
			"main": {"temp": 18.5, "feels_like": 17.9, "humidity": 72, "pressure": 1013},
			"wind": {"speed": 6.2, "deg": 240},
			"clouds": {"all": 40},
			"weather": [{"main": "Clouds", "description": "scattered clouds"}],
			"visibility": 10000,
			"dt": 1719392400
		}`))
	}))
	defer srv.Close()

	c := NewClient(testLogger(t), srv.URL, "key", time.Second)
	obs, err := c.Current(context.Background(), "Rotterdam")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if obs.TemperatureC != 18.5 || obs.WindSpeedMS != 6.2 {
		t.Fatalf("normalization wrong: %+v", obs)
	}
	if obs.VisibilityKm != 10 {
		t.Fatalf("visibility should be km, got %f", obs.VisibilityKm)
	}
	if obs.Condition != "Clouds" {
		t.Fatalf("condition not mapped: %q", obs.Condition)
	}
	if obs.ObservedAt.IsZero() {
		t.Fatal("observed_at not set")
	}
}

func TestCurrent_EmptyWeatherBlockIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 1}, "weather": []}`))
	}))
	defer srv.Close()

	c := NewClient(testLogger(t), srv.URL, "key", time.Second)
	_, err := c.Current(context.Background(), "Nowhere")
	if err == nil {
		t.Fatal("expected error for empty weather block")
	}
	kind, ok := upstream.KindOf(err)
	if !ok || kind != upstream.KindMalformed {
		t.Fatalf("expected malformed kind, got %v (%v)", kind, err)
	}
}

func TestForecast_SumsRainAndSnow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": [
			{"dt": 1719392400, "main": {"temp": 2.0}, "wind": {"speed": 3}, "rain": {"3h": 1.5}, "snow": {"3h": 0.5},
			 "weather": [{"main": "Snow", "description": "light snow"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(testLogger(t), srv.URL, "key", time.Second)
	points, err := c.Forecast(context.Background(), "Oslo", 1)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].PrecipitationMM != 2.0 {
		t.Fatalf("rain+snow should sum, got %f", points[0].PrecipitationMM)
	}
}
