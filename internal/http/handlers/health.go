package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports backing-store liveness.
type Pinger interface {
	Ping() error
}

type HealthHandler struct {
	version  string
	db       Pinger
	adapters map[string]bool
}

func NewHealthHandler(version string, db Pinger, adapters map[string]bool) *HealthHandler {
	return &HealthHandler{version: version, db: db, adapters: adapters}
}

// GET /api/health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "connected"
	status := "healthy"
	httpStatus := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			dbStatus = "unreachable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	configured := 0
	for _, ok := range h.adapters {
		if ok {
			configured++
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":          status,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"version":         h.version,
		"database":        dbStatus,
		"api_keys":        h.adapters,
		"apis_configured": configured,
		"services": gin.H{
			"weather_predictions": true,
			"carbon_tracking":     true,
			"urban_planning":      true,
		},
	})
}
