package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

func newLimitedEngine(t *testing.T, perMinute, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	rl := NewRateLimiter(log, perMinute, burst)
	engine := gin.New()
	engine.GET("/ping", rl.Limit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return engine
}

func pingFrom(engine *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	engine := newLimitedEngine(t, 5, 2)

	for i := 0; i < 2; i++ {
		if w := pingFrom(engine, "10.0.0.1:5000"); w.Code != http.StatusOK {
			t.Fatalf("request %d within burst: status %d", i+1, w.Code)
		}
	}

	w := pingFrom(engine, "10.0.0.1:5000")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the burst, got %d", w.Code)
	}
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "rate_limited" {
		t.Fatalf("unexpected error code %q", resp.Error.Code)
	}
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	engine := newLimitedEngine(t, 5, 1)

	if w := pingFrom(engine, "10.0.0.1:5000"); w.Code != http.StatusOK {
		t.Fatalf("first client: status %d", w.Code)
	}
	if w := pingFrom(engine, "10.0.0.1:5000"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("first client should be throttled, got %d", w.Code)
	}
	// A different address gets its own bucket.
	if w := pingFrom(engine, "10.0.0.2:5000"); w.Code != http.StatusOK {
		t.Fatalf("second client: status %d", w.Code)
	}
}
