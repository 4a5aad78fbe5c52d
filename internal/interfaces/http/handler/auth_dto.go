package handler

import (
	"time"

	"github.com/google/uuid"
	identityapp "github.com/safespace/backend/internal/application/identity"
)

// LoginRequest is the admin login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// CreateAdminRequest creates an admin account
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"required"`
}

// ChangeRoleRequest sets another admin's role. Case is ignored.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ResetPasswordRequest sets another admin's password
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// ListAdminsQuery holds admin list filters
type ListAdminsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Role     string `form:"role"`
}

// AdminResponse is an admin account in responses
type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LoginResponse carries the bearer token
type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	Admin       AdminResponse `json:"admin"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

func toAdminResponse(a identityapp.AdminInfo) AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role.String(),
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}
