package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/content"
)

// PostRequest is the body for creating or replacing a post
type PostRequest struct {
	Title      string   `json:"title" binding:"required,min=1,max=300"`
	Excerpt    string   `json:"excerpt" binding:"max=1000"`
	Content    string   `json:"content" binding:"required"`
	CoverImage string   `json:"coverImage" binding:"omitempty,url,max=1000"`
	Author     string   `json:"author" binding:"max=200"`
	Tags       []string `json:"tags" binding:"max=20,dive,max=50"`
	Publish    bool     `json:"publish"`
}

func (r PostRequest) draft() content.PostDraft {
	return content.PostDraft{
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		CoverImage: r.CoverImage,
		Author:     r.Author,
		Tags:       r.Tags,
	}
}

// ListPostsInput contains list filters
type ListPostsInput struct {
	Status   string
	Tag      string
	Page     int
	PageSize int
}

// PostResponse is a post in API responses
type PostResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostSummary is a list item; it omits the body
type PostSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	CoverImage  string     `json:"coverImage"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// UploadImageInput is an image received from the admin panel
type UploadImageInput struct {
	Filename string
	Data     []byte
}

// UploadedImage is a stored image
type UploadedImage struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

func toPostResponse(p *content.Post) *PostResponse {
	return &PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		CoverImage:  p.CoverImage,
		Author:      p.Author,
		Tags:        tagsOrEmpty(p.Tags),
		Status:      string(p.Status),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostSummary(p *content.Post) PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		CoverImage:  p.CoverImage,
		Author:      p.Author,
		Tags:        tagsOrEmpty(p.Tags),
		Status:      string(p.Status),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
