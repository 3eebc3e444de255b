package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
)

type DashboardHandler struct {
	log       *logger.Logger
	dashboard services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{log: log.With("handler", "DashboardHandler"), dashboard: dashboard}
}

// GET /api/dashboard/metrics
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.dashboard.Metrics(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, metrics)
}

// GET /api/dashboard/alerts
func (h *DashboardHandler) Alerts(c *gin.Context) {
	alerts, err := h.dashboard.Alerts(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": alerts, "count": len(alerts)})
}
