package content

import (
	"context"

	"github.com/google/uuid"
)

// PostRepository defines the interface for blog post persistence
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	// ExistsBySlug checks if a slug is taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	// FindAll lists posts newest first by publication time, falling back to creation time
	FindAll(ctx context.Context, filter PostFilter) ([]*Post, int64, error)
}

// PostFilter contains filter options for listing posts
type PostFilter struct {
	Status   *PostStatus
	Tag      string
	Page     int
	PageSize int
}
