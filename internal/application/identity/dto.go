package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/identity"
)

// LoginInput contains the input for admin login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	TokenType   string
	Admin       AdminInfo
}

// AdminInfo is the public view of an admin account
type AdminInfo struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Role        identity.Role
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// LogoutInput identifies the token being logged out
type LogoutInput struct {
	AdminID   uuid.UUID
	TokenID   string // JWT ID
	ExpiresAt time.Time
}

// ChangePasswordInput contains the input for changing one's own password
type ChangePasswordInput struct {
	AdminID     uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateAdminInput contains the input for creating an admin
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// ChangeRoleInput contains the input for changing another admin's role
type ChangeRoleInput struct {
	ActorID uuid.UUID
	AdminID uuid.UUID
	Role    string
}

// ResetPasswordInput sets another admin's password without the old one
type ResetPasswordInput struct {
	AdminID     uuid.UUID
	NewPassword string
}

// DeleteAdminInput contains the input for removing an admin
type DeleteAdminInput struct {
	ActorID uuid.UUID
	AdminID uuid.UUID
}

// ListAdminsInput contains list filters
type ListAdminsInput struct {
	Role     string
	Page     int
	PageSize int
}

// AdminList is a page of admins
type AdminList struct {
	Admins []AdminInfo
	Total  int64
}

func toAdminInfo(a *identity.Admin) AdminInfo {
	return AdminInfo{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}
