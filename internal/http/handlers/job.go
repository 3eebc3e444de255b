package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
)

type JobHandler struct {
	log  *logger.Logger
	jobs services.JobService
}

func NewJobHandler(log *logger.Logger, jobs services.JobService) *JobHandler {
	return &JobHandler{log: log.With("handler", "JobHandler"), jobs: jobs}
}

// GET /api/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid job id")
		return
	}
	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
