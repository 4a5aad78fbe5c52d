package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminRepository implements identity.AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// Create creates a new admin
func (r *GormAdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	if err := r.db.WithContext(ctx).Create(models.AdminModelFromDomain(admin)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("EMAIL_EXISTS", "An admin with this email already exists")
		}
		return err
	}
	return nil
}

// Update updates an existing admin
func (r *GormAdminRepository) Update(ctx context.Context, admin *identity.Admin) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdminModel{}).
		Where("id = ?", admin.ID).
		Select("name", "email", "password_hash", "role", "last_login_at", "version", "updated_at").
		Updates(models.AdminModelFromDomain(admin))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.NewDomainError("EMAIL_EXISTS", "An admin with this email already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an admin by ID
func (r *GormAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an admin by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an admin by email, ignoring case
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var model models.AdminModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns admins newest first with the total count
func (r *GormAdminRepository) FindAll(ctx context.Context, filter identity.AdminFilter) ([]*identity.Admin, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminModel{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := paginate(filter.Page, filter.PageSize)
	var rows []models.AdminModel
	if err := query.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	admins := make([]*identity.Admin, len(rows))
	for i := range rows {
		admins[i] = rows[i].ToDomain()
	}
	return admins, total, nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByRole returns the number of admins holding role
func (r *GormAdminRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminModel{}).
		Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ identity.AdminRepository = (*GormAdminRepository)(nil)
