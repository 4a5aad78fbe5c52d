package content

import (
	"strings"
	"time"

	"github.com/safespace/backend/internal/domain/shared"
)

// PostStatus is the publication state of a blog post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// IsValid reports whether s is a known status
func (s PostStatus) IsValid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog article
type Post struct {
	shared.BaseAggregateRoot
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverImage  string
	Author      string
	Tags        []string
	Status      PostStatus
	PublishedAt *time.Time
}

// PostDraft carries the editable fields of a post
type PostDraft struct {
	Title      string
	Excerpt    string
	Content    string
	CoverImage string
	Author     string
	Tags       []string
}

// NewPost creates a draft post. The slug is derived from the title and may
// be changed by the caller when it collides.
func NewPost(d PostDraft) (*Post, error) {
	p := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            PostStatusDraft,
	}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	p.Slug = Slugify(p.Title)
	if p.Slug == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title must contain at least one letter or digit")
	}
	return p, nil
}

// Update replaces the editable fields. The slug is kept.
func (p *Post) Update(d PostDraft) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.MarkModified(time.Now())
	return nil
}

func (p *Post) apply(d PostDraft) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 300 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 300 characters")
	}
	if strings.TrimSpace(d.Content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	if len(d.Excerpt) > 1000 {
		return shared.NewDomainError("INVALID_EXCERPT", "Excerpt cannot exceed 1000 characters")
	}

	p.Title = title
	p.Excerpt = strings.TrimSpace(d.Excerpt)
	p.Content = d.Content
	p.CoverImage = strings.TrimSpace(d.CoverImage)
	p.Author = strings.TrimSpace(d.Author)
	p.Tags = normalizeTags(d.Tags)
	return nil
}

// SetSlug overrides the slug, e.g. with a collision suffix
func (p *Post) SetSlug(slug string) {
	p.Slug = slug
}

// Publish makes the post publicly visible. The first publication time is kept
// across unpublish and republish.
func (p *Post) Publish() error {
	if p.Status == PostStatusPublished {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Post is already published")
	}
	now := time.Now()
	p.Status = PostStatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.MarkModified(now)
	return nil
}

// Unpublish returns the post to draft
func (p *Post) Unpublish() error {
	if p.Status == PostStatusDraft {
		return shared.NewDomainError("NOT_PUBLISHED", "Post is not published")
	}
	p.Status = PostStatusDraft
	p.MarkModified(time.Now())
	return nil
}

// IsPublished reports whether the post is visible to the public
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
