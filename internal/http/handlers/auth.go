package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nidish2/Climate-Platform/internal/http/response"
	"github.com/Nidish2/Climate-Platform/internal/platform/logger"
	"github.com/Nidish2/Climate-Platform/internal/services"
	"github.com/Nidish2/Climate-Platform/internal/types"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	// The route is public, but an administrator may present a token to
	// register privileged accounts.
	ctx := c.Request.Context()
	if token := bearerToken(c); token != "" {
		if authed, err := ah.authService.SetContextFromToken(ctx, token); err == nil {
			ctx = authed
		}
	}
	user, err := ah.authService.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName, types.Role(req.Role))
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	user, token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{
		"token":      token,
		"expires_in": int(ah.authService.TokenTTL().Seconds()),
		"user":       user,
	})
}

// GET /api/auth/verify
func (ah *AuthHandler) Verify(c *gin.Context) {
	user, err := ah.authService.VerifyToken(c.Request.Context(), bearerToken(c))
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"valid": true, "user": user})
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return authHeader[len(prefix):]
	}
	return ""
}
