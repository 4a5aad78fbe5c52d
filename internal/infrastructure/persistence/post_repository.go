package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/content"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// ErrSlugTaken is returned when a post slug collides with an existing one
var ErrSlugTaken = shared.NewDomainError("SLUG_EXISTS", "A post with this slug already exists")

// GormPostRepository implements content.PostRepository using GORM.
// Tags live in blog_post_tags and are replaced wholesale on update.
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create persists a new post with its tags
func (r *GormPostRepository) Create(ctx context.Context, post *content.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PostModelFromDomain(post)
		tags := model.Tags
		model.Tags = nil
		if err := tx.Omit("Tags").Create(model).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			return tx.Create(&tags).Error
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

// Update saves the editable fields and replaces the tag set
func (r *GormPostRepository) Update(ctx context.Context, post *content.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PostModelFromDomain(post)
		result := tx.Model(&models.PostModel{}).
			Where("id = ?", post.ID).
			Select("title", "slug", "excerpt", "content", "cover_image", "author", "status", "published_at", "version", "updated_at").
			Omit("Tags").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTagModel{}).Error; err != nil {
			return err
		}
		if len(model.Tags) > 0 {
			return tx.Create(&model.Tags).Error
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

// Delete deletes a post and its tags
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PostModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).Preload("Tags").First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a post by slug
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*content.Post, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, shared.ErrNotFound
	}
	var model models.PostModel
	if err := r.db.WithContext(ctx).Preload("Tags").Where("slug = ?", slug).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ExistsBySlug checks if a slug is taken
func (r *GormPostRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists posts newest first by publication time, falling back to creation time
func (r *GormPostRepository) FindAll(ctx context.Context, filter content.PostFilter) ([]*content.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PostModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if tag := strings.ToLower(strings.TrimSpace(filter.Tag)); tag != "" {
		query = query.Where("id IN (?)",
			r.db.WithContext(ctx).Model(&models.PostTagModel{}).Select("post_id").Where("tag = ?", tag))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := paginate(filter.Page, filter.PageSize)
	var rows []models.PostModel
	if err := query.Preload("Tags").
		Order("COALESCE(published_at, created_at) DESC").
		Offset(p.Offset()).Limit(p.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*content.Post, len(rows))
	for i := range rows {
		posts[i] = rows[i].ToDomain()
	}
	return posts, total, nil
}

var _ content.PostRepository = (*GormPostRepository)(nil)
