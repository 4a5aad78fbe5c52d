package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/safespace/backend/internal/application/identity"
	"github.com/safespace/backend/internal/interfaces/http/middleware"
)

// AuthService authenticates admins
type AuthService interface {
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
	GetCurrentAdmin(ctx context.Context, adminID uuid.UUID) (*identityapp.AdminInfo, error)
	ChangePassword(ctx context.Context, input identityapp.ChangePasswordInput) error
}

// AuthHandler handles admin sign-in and the caller's own account
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresAt:   result.ExpiresAt,
		Admin:       toAdminResponse(result.Admin),
	})
}

// Logout handles POST /auth/logout and revokes the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetAdminClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		AdminID:   middleware.GetAdminID(c),
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.authService.GetCurrentAdmin(c.Request.Context(), middleware.GetAdminID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAdminResponse(*admin))
}

// ChangePassword handles PUT /auth/password. Other sessions of the admin are
// revoked; the client must sign in again.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		AdminID:     middleware.GetAdminID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Password changed successfully"})
}
