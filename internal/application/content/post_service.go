package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/content"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search
const maxSlugAttempts = 50

// allowedImageTypes maps sniffed content types to file extensions. SVG is
// excluded because it can carry script.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	errPostNotFound     = shared.NewDomainError("POST_NOT_FOUND", "Post not found")
	errSlugExhausted    = shared.NewDomainError("SLUG_EXISTS", "Could not find a free slug for this title")
	errEmptyImage       = shared.NewDomainError("INVALID_IMAGE", "Image is empty")
	errImageTooLarge    = shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the maximum upload size")
	errImageTypeBlocked = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
)

// UploadConfig limits cover image uploads
type UploadConfig struct {
	MaxSize   int64
	KeyPrefix string
}

// PostService manages blog posts and their images
type PostService struct {
	posts  content.PostRepository
	images content.ImageStore
	upload UploadConfig
	logger *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(posts content.PostRepository, images content.ImageStore, upload UploadConfig, logger *zap.Logger) *PostService {
	return &PostService{
		posts:  posts,
		images: images,
		upload: upload,
		logger: logger,
	}
}

// ListPublished lists published posts newest first
func (s *PostService) ListPublished(ctx context.Context, input ListPostsInput) ([]PostSummary, int64, error) {
	published := content.PostStatusPublished
	return s.list(ctx, content.PostFilter{
		Status:   &published,
		Tag:      strings.ToLower(strings.TrimSpace(input.Tag)),
		Page:     input.Page,
		PageSize: input.PageSize,
	})
}

// GetPublished returns a published post by slug. Drafts are reported as not found.
func (s *PostService) GetPublished(ctx context.Context, slug string) (*PostResponse, error) {
	post, err := s.posts.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !post.IsPublished() {
		return nil, errPostNotFound
	}
	return toPostResponse(post), nil
}

// List lists all posts for the admin panel, optionally filtered by status
func (s *PostService) List(ctx context.Context, input ListPostsInput) ([]PostSummary, int64, error) {
	filter := content.PostFilter{
		Tag:      strings.ToLower(strings.TrimSpace(input.Tag)),
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Status != "" {
		status := content.PostStatus(strings.ToLower(input.Status))
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Status must be draft or published")
		}
		filter.Status = &status
	}
	return s.list(ctx, filter)
}

func (s *PostService) list(ctx context.Context, filter content.PostFilter) ([]PostSummary, int64, error) {
	posts, total, err := s.posts.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostSummary(p))
	}
	return out, total, nil
}

// Get returns any post by id
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toPostResponse(post), nil
}

// Create stores a new post with a unique slug derived from its title
func (s *PostService) Create(ctx context.Context, req PostRequest) (*PostResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "content", "create_post")
	defer span.End()

	post, err := content.NewPost(req.draft())
	if err != nil {
		return nil, err
	}
	if req.Publish {
		if err := post.Publish(); err != nil {
			return nil, err
		}
	}

	base := post.Slug
	for n := 1; n <= maxSlugAttempts; n++ {
		slug := content.WithSuffix(base, n)
		taken, err := s.posts.ExistsBySlug(ctx, slug)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if taken {
			continue
		}

		post.SetSlug(slug)
		err = s.posts.Create(ctx, post)
		if err == nil {
			telemetry.SetAttributes(span, telemetry.SpanAttrPostID, post.ID.String(), telemetry.SpanAttrSlug, slug)
			s.logger.Info("Post created",
				zap.String("post_id", post.ID.String()),
				zap.String("slug", slug),
				zap.String("status", string(post.Status)))
			return toPostResponse(post), nil
		}
		// Lost a race for this slug; try the next suffix
		if !isSlugTaken(err) {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	return nil, errSlugExhausted
}

// Update replaces the editable fields of a post. The slug is kept so links stay valid.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req PostRequest) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := post.Update(req.draft()); err != nil {
		return nil, err
	}
	if req.Publish && !post.IsPublished() {
		if err := post.Publish(); err != nil {
			return nil, err
		}
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, mapNotFound(err)
	}
	s.logger.Info("Post updated", zap.String("post_id", id.String()))
	return toPostResponse(post), nil
}

// Delete removes a post
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info("Post deleted", zap.String("post_id", id.String()))
	return nil
}

// Publish makes a post public
func (s *PostService) Publish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	return s.transition(ctx, id, (*content.Post).Publish)
}

// Unpublish returns a post to draft
func (s *PostService) Unpublish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	return s.transition(ctx, id, (*content.Post).Unpublish)
}

func (s *PostService) transition(ctx context.Context, id uuid.UUID, fn func(*content.Post) error) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := fn(post); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, mapNotFound(err)
	}
	s.logger.Info("Post status changed",
		zap.String("post_id", id.String()),
		zap.String("status", string(post.Status)))
	return toPostResponse(post), nil
}

// UploadImage validates an image by its content, not its name, and stores it
// under {prefix}/{yyyy}/{mm}/{uuid}{ext}
func (s *PostService) UploadImage(ctx context.Context, input UploadImageInput) (*UploadedImage, error) {
	if len(input.Data) == 0 {
		return nil, errEmptyImage
	}
	if s.upload.MaxSize > 0 && int64(len(input.Data)) > s.upload.MaxSize {
		return nil, errImageTooLarge
	}

	contentType := http.DetectContentType(input.Data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		s.logger.Warn("Rejected image upload",
			zap.String("filename", input.Filename),
			zap.String("content_type", contentType))
		return nil, errImageTypeBlocked
	}

	now := time.Now().UTC()
	key := path.Join(s.upload.KeyPrefix, now.Format("2006"), now.Format("01"), uuid.NewString()+ext)

	url, err := s.images.Upload(ctx, key, input.Data, contentType)
	if err != nil {
		s.logger.Error("Image upload failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("upload image: %w", err)
	}

	s.logger.Info("Image uploaded", zap.String("key", key), zap.Int("size", len(input.Data)))
	return &UploadedImage{URL: url, Key: key, ContentType: contentType, Size: len(input.Data)}, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return errPostNotFound
	}
	return err
}

func isSlugTaken(err error) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == "SLUG_EXISTS"
}
