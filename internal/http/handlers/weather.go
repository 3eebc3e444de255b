package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
)

type WeatherHandler struct {
	log     *logger.Logger
	weather services.WeatherService
}

func NewWeatherHandler(log *logger.Logger, weather services.WeatherService) *WeatherHandler {
	return &WeatherHandler{log: log.With("handler", "WeatherHandler"), weather: weather}
}

// GET /api/weather/predictions?location=...&range=7d
func (h *WeatherHandler) Predictions(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "location query parameter is required")
		return
	}
	doc, err := h.weather.Predictions(c.Request.Context(), location, c.DefaultQuery("range", "7d"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, doc)
}

// GET /api/weather/risk?location=...
func (h *WeatherHandler) Risk(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "location query parameter is required")
		return
	}
	doc, err := h.weather.Risk(c.Request.Context(), location)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, doc)
}

// GET /api/weather/historical?location=...&limit=100
func (h *WeatherHandler) Historical(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "location query parameter is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	records, err := h.weather.Historical(c.Request.Context(), location, limit)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"location": location, "records": records, "count": len(records)})
}

// GET /api/weather/alerts
func (h *WeatherHandler) Alerts(c *gin.Context) {
	alerts, err := h.weather.ActiveAlerts(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": alerts, "count": len(alerts)})
}
