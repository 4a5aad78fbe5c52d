package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/safespace/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is an admin panel role
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ParseRole matches a role name case-insensitively and returns its canonical form
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "superadmin":
		return RoleSuperAdmin, nil
	}
	return "", shared.NewDomainError("INVALID_ROLE", "Role must be admin or superAdmin")
}

// Is reports whether r names the same role as other, ignoring case
func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// Admin is an account that can sign in to the admin panel
type Admin struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	LastLoginAt  *time.Time
}

// NewAdmin creates an admin with a hashed password
func NewAdmin(name, email, password string, role Role) (*Admin, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	canonical, err := ParseRole(string(role))
	if err != nil {
		return nil, err
	}

	admin := &Admin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Role:              canonical,
	}
	if err := admin.SetPassword(password); err != nil {
		return nil, err
	}
	return admin, nil
}

// IsSuperAdmin reports whether the admin holds the superAdmin role
func (a *Admin) IsSuperAdmin() bool {
	return a.Role.Is(RoleSuperAdmin)
}

// ChangeRole sets a new role
func (a *Admin) ChangeRole(role Role) error {
	canonical, err := ParseRole(string(role))
	if err != nil {
		return err
	}
	a.Role = canonical
	a.MarkModified(time.Now())
	return nil
}

// ChangePassword changes the password after checking the current one
func (a *Admin) ChangePassword(oldPassword, newPassword string) error {
	if !a.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return a.SetPassword(newPassword)
}

// SetPassword sets a new password (superAdmin reset, no old password check)
func (a *Admin) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a.PasswordHash = string(hash)
	a.MarkModified(time.Now())
	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Admin) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last successful login
func (a *Admin) RecordLogin() {
	now := time.Now()
	a.LastLoginAt = &now
	a.UpdatedAt = now
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeEmail lower-cases and trims an email used as a login identifier
func NormalizeEmail(email string) string {
	return normalizeEmail(email)
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores input past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}

	hasLetter := strings.IndexFunc(password, isLetter) >= 0
	hasNumber := strings.IndexFunc(password, isDigit) >= 0
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
