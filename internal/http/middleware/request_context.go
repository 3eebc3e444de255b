package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
)

// AttachRequestContext assigns every request a correlation id before any
// other middleware runs. An inbound X-Request-ID is honored so upstream
// proxies can stitch traces together.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{RequestID: requestID})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
