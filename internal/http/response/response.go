package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service error onto the wire taxonomy. The full
// error chain is logged server-side with the request id; clients only ever
// see the sanitized message.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	status := apierror.HTTPStatus(err)
	if log != nil && status >= 500 {
		log.Error("Request failed",
			"request_id", ctxutil.RequestID(c.Request.Context()),
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	RespondError(c, status, string(apierror.KindOf(err)), apierror.UserMessage(err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondAccepted(c *gin.Context, payload any) {
	c.JSON(http.StatusAccepted, payload)
}
