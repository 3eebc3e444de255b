package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
)

// Upload size ceiling for emission CSVs.
const maxUploadBytes = 10 << 20

type CarbonHandler struct {
	log    *logger.Logger
	carbon services.CarbonService
}

func NewCarbonHandler(log *logger.Logger, carbon services.CarbonService) *CarbonHandler {
	return &CarbonHandler{log: log.With("handler", "CarbonHandler"), carbon: carbon}
}

// GET /api/carbon/companies
func (h *CarbonHandler) ListCompanies(c *gin.Context) {
	companies, err := h.carbon.ListCompanies(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"companies": companies, "count": len(companies)})
}

// GET /api/carbon/data/:id
func (h *CarbonHandler) CompanyData(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid company id")
		return
	}
	doc, err := h.carbon.CompanyData(c.Request.Context(), companyID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, doc)
}

// GET /api/carbon/recommendations/:id
func (h *CarbonHandler) Recommendations(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid company id")
		return
	}
	insights, err := h.carbon.Recommendations(c.Request.Context(), companyID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": insights, "count": len(insights)})
}

// GET /api/carbon/benchmarks?sector=technology
func (h *CarbonHandler) Benchmarks(c *gin.Context) {
	doc, err := h.carbon.Benchmarks(c.Request.Context(), c.Query("sector"))
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, doc)
}

// POST /api/carbon/upload (multipart, field "file")
func (h *CarbonHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "multipart field \"file\" is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "file exceeds the 10MB upload limit")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.carbon.UploadEmissions(c.Request.Context(), file)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	if result.Imported == 0 {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	response.RespondOK(c, result)
}
