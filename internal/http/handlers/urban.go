package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
)

type UrbanHandler struct {
	log   *logger.Logger
	urban services.UrbanService
}

func NewUrbanHandler(log *logger.Logger, urban services.UrbanService) *UrbanHandler {
	return &UrbanHandler{log: log.With("handler", "UrbanHandler"), urban: urban}
}

// GET /api/urban/cities
func (h *UrbanHandler) Cities(c *gin.Context) {
	cities, err := h.urban.Cities(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"cities": cities, "count": len(cities)})
}

// GET /api/urban/cities/:id
func (h *UrbanHandler) CityByID(c *gin.Context) {
	cityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid city id")
		return
	}
	city, err := h.urban.CityByID(c.Request.Context(), cityID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"city": city})
}

// GET /api/urban/scenarios?city=...
func (h *UrbanHandler) Scenarios(c *gin.Context) {
	cityID, err := uuid.Parse(c.Query("city"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "city query parameter is required")
		return
	}
	scenarios, err := h.urban.Scenarios(c.Request.Context(), cityID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"scenarios": scenarios, "count": len(scenarios)})
}

// POST /api/urban/scenarios
func (h *UrbanHandler) CreateScenario(c *gin.Context) {
	var req struct {
		CityID     uuid.UUID          `json:"city_id"`
		Name       string             `json:"name"`
		Parameters map[string]float64 `json:"parameters"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.CityID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "city_id is required")
		return
	}
	scenario, err := h.urban.CreateScenario(c.Request.Context(), services.ScenarioInput{
		CityID:     req.CityID,
		Name:       req.Name,
		Parameters: req.Parameters,
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"scenario": scenario})
}

// GET /api/urban/resilience?city=...&scenario=...
func (h *UrbanHandler) Resilience(c *gin.Context) {
	cityID, err := uuid.Parse(c.Query("city"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "city query parameter is required")
		return
	}
	scenarioID, err := optionalScenarioID(c, "scenario")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid scenario id")
		return
	}
	doc, err := h.urban.Resilience(c.Request.Context(), cityID, scenarioID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, doc)
}

// POST /api/urban/simulate
func (h *UrbanHandler) Simulate(c *gin.Context) {
	var req struct {
		CityID     uuid.UUID  `json:"city_id"`
		ScenarioID *uuid.UUID `json:"scenario_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.CityID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "city_id is required")
		return
	}
	job, err := h.urban.Simulate(c.Request.Context(), req.CityID, req.ScenarioID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}

func optionalScenarioID(c *gin.Context, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
