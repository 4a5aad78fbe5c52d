package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	// Create persists a new booking
	Create(ctx context.Context, b *Booking) error

	// Update saves changes to an existing booking
	Update(ctx context.Context, b *Booking) error

	// FindByID finds a booking by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByReference finds a booking by payment reference
	FindByReference(ctx context.Context, reference string) (*Booking, error)

	// FindByIdempotencyKey finds the booking created for a retry key
	FindByIdempotencyKey(ctx context.Context, key string) (*Booking, error)

	// FindAll lists bookings newest first
	FindAll(ctx context.Context, filter Filter) ([]*Booking, int64, error)
}

// Filter contains filter options for listing bookings
type Filter struct {
	Status   *Status
	Email    string
	Page     int
	PageSize int
}
