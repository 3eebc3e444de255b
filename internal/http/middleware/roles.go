package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/ctxutil"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

// RequireCapability gates a route on the caller's role capability. Runs after
// RequireAuth, so an absent identity means a wiring mistake and is treated as
// forbidden rather than unauthorized.
func RequireCapability(cap types.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || !types.Role(rd.Role).Can(cap) {
			response.RespondError(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
