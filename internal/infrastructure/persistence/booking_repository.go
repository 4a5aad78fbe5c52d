package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/booking"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrDuplicateIdempotencyKey is returned when a booking with the same
// idempotency key was stored concurrently.
var ErrDuplicateIdempotencyKey = shared.NewDomainError("DUPLICATE_REQUEST", "A booking with this idempotency key already exists")

// GormBookingRepository implements booking.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create persists a new booking
func (r *GormBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if err := r.db.WithContext(ctx).Create(models.BookingModelFromDomain(b)).Error; err != nil {
		if isUniqueViolation(err) && b.IdempotencyKey != "" {
			return ErrDuplicateIdempotencyKey
		}
		return err
	}
	return nil
}

// Update saves status, gateway and payment fields of a booking. The stored
// version must be older than b's, so a concurrent writer that already saved
// the same transition gets shared.ErrConflict.
func (r *GormBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	result := r.db.WithContext(ctx).
		Model(&models.BookingModel{}).
		Where("id = ? AND version < ?", b.ID, b.Version).
		Select("status", "payment_reference", "authorization_url", "paid_at", "version", "updated_at").
		Updates(models.BookingModelFromDomain(b))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.BookingModel{}).Where("id = ?", b.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConflict
	}
	return nil
}

// FindByID finds a booking by ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByReference finds a booking by payment reference
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, shared.ErrNotFound
	}
	var model models.BookingModel
	if err := r.db.WithContext(ctx).Where("payment_reference = ?", reference).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIdempotencyKey finds the booking created for a retry key
func (r *GormBookingRepository) FindByIdempotencyKey(ctx context.Context, key string) (*booking.Booking, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.ErrNotFound
	}
	var model models.BookingModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists bookings newest first with the total count
func (r *GormBookingRepository) FindAll(ctx context.Context, filter booking.Filter) ([]*booking.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BookingModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if email := strings.ToLower(strings.TrimSpace(filter.Email)); email != "" {
		query = query.Where("client_email = ?", email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := paginate(filter.Page, filter.PageSize)
	var rows []models.BookingModel
	if err := query.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	bookings := make([]*booking.Booking, len(rows))
	for i := range rows {
		bookings[i] = rows[i].ToDomain()
	}
	return bookings, total, nil
}

var _ booking.BookingRepository = (*GormBookingRepository)(nil)
