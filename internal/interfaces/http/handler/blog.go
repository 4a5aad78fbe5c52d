package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	contentapp "github.com/safespace/backend/internal/application/content"
	"github.com/safespace/backend/internal/interfaces/http/dto"
)

// ImageFormField is the multipart field carrying an uploaded image
const ImageFormField = "image"

// PostService manages blog posts
type PostService interface {
	ListPublished(ctx context.Context, input contentapp.ListPostsInput) ([]contentapp.PostSummary, int64, error)
	GetPublished(ctx context.Context, slug string) (*contentapp.PostResponse, error)
	List(ctx context.Context, input contentapp.ListPostsInput) ([]contentapp.PostSummary, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error)
	Create(ctx context.Context, req contentapp.PostRequest) (*contentapp.PostResponse, error)
	Update(ctx context.Context, id uuid.UUID, req contentapp.PostRequest) (*contentapp.PostResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error)
	UploadImage(ctx context.Context, input contentapp.UploadImageInput) (*contentapp.UploadedImage, error)
}

// ListPostsQuery holds blog list filters
type ListPostsQuery struct {
	dto.ListRequest
	Tag    string `form:"tag" binding:"omitempty,max=50"`
	Status string `form:"status" binding:"omitempty,oneof=draft published"`
}

// BlogHandler serves public blog reads and admin post management
type BlogHandler struct {
	BaseHandler
	service       PostService
	maxUploadSize int64
}

// NewBlogHandler creates a blog handler. maxUploadSize bounds image uploads.
func NewBlogHandler(service PostService, maxUploadSize int64) *BlogHandler {
	return &BlogHandler{service: service, maxUploadSize: maxUploadSize}
}

func (h *BlogHandler) bindList(c *gin.Context) (ListPostsQuery, bool) {
	var q ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return q, false
	}
	q.Normalize()
	return q, true
}

// ListPublished handles GET /blogs
func (h *BlogHandler) ListPublished(c *gin.Context) {
	q, ok := h.bindList(c)
	if !ok {
		return
	}
	posts, total, err := h.service.ListPublished(c.Request.Context(), contentapp.ListPostsInput{
		Tag:      q.Tag,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, posts, total, q.Page, q.PageSize)
}

// GetPublished handles GET /blogs/:slug
func (h *BlogHandler) GetPublished(c *gin.Context) {
	post, err := h.service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// List handles GET /admin/blogs, drafts included
func (h *BlogHandler) List(c *gin.Context) {
	q, ok := h.bindList(c)
	if !ok {
		return
	}
	posts, total, err := h.service.List(c.Request.Context(), contentapp.ListPostsInput{
		Status:   q.Status,
		Tag:      q.Tag,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, posts, total, q.Page, q.PageSize)
}

// Get handles GET /admin/blogs/:id
func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Create handles POST /admin/blogs
func (h *BlogHandler) Create(c *gin.Context) {
	var req contentapp.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	post, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, post)
}

// Update handles PUT /admin/blogs/:id
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req contentapp.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	post, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Delete handles DELETE /admin/blogs/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish handles POST /admin/blogs/:id/publish
func (h *BlogHandler) Publish(c *gin.Context) {
	h.transition(c, h.service.Publish)
}

// Unpublish handles POST /admin/blogs/:id/unpublish
func (h *BlogHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.service.Unpublish)
}

func (h *BlogHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*contentapp.PostResponse, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	post, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// UploadImage handles POST /admin/blogs/images (multipart field "image")
func (h *BlogHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile(ImageFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Image exceeds the maximum upload size")
			return
		}
		h.BadRequest(c, "Missing image file in field \""+ImageFormField+"\"")
		return
	}
	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Image exceeds the maximum upload size")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxUploadSize > 0 {
		r = io.LimitReader(f, h.maxUploadSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	img, err := h.service.UploadImage(c.Request.Context(), contentapp.UploadImageInput{
		Filename: fh.Filename,
		Data:     data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, img)
}
