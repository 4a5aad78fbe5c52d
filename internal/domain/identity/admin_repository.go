package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminRepository defines the interface for admin account persistence
type AdminRepository interface {
	// Create creates a new admin
	Create(ctx context.Context, admin *Admin) error

	// Update updates an existing admin
	Update(ctx context.Context, admin *Admin) error

	// Delete deletes an admin by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)

	// FindByEmail finds an admin by (normalised) email
	FindByEmail(ctx context.Context, email string) (*Admin, error)

	// FindAll returns admins ordered by creation time, newest first
	FindAll(ctx context.Context, filter AdminFilter) ([]*Admin, int64, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountByRole returns the number of admins holding role
	CountByRole(ctx context.Context, role Role) (int64, error)
}

// AdminFilter contains filter options for listing admins
type AdminFilter struct {
	Role     *Role
	Page     int
	PageSize int
}
