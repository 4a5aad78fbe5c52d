package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/content"
)

// PostModel is the persistence model for the Post aggregate
type PostModel struct {
	AggregateModel
	Title       string             `gorm:"type:varchar(300);not null"`
	Slug        string             `gorm:"type:varchar(150);not null;uniqueIndex"`
	Excerpt     string             `gorm:"type:text"`
	Content     string             `gorm:"type:text;not null"`
	CoverImage  string             `gorm:"type:varchar(500)"`
	Author      string             `gorm:"type:varchar(200)"`
	Status      content.PostStatus `gorm:"type:varchar(20);not null;index"`
	PublishedAt *time.Time         `gorm:"index"`
	Tags        []PostTagModel     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "blog_posts"
}

// PostTagModel is one tag on a blog post
type PostTagModel struct {
	PostID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag    string    `gorm:"type:varchar(50);primaryKey;index"`
}

// TableName returns the table name for GORM
func (PostTagModel) TableName() string {
	return "blog_post_tags"
}

// ToDomain converts the persistence model to a domain Post. Tags must be preloaded.
func (m *PostModel) ToDomain() *content.Post {
	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.Tag)
	}
	return &content.Post{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		Slug:              m.Slug,
		Excerpt:           m.Excerpt,
		Content:           m.Content,
		CoverImage:        m.CoverImage,
		Author:            m.Author,
		Tags:              tags,
		Status:            m.Status,
		PublishedAt:       m.PublishedAt,
	}
}

// FromDomain populates the persistence model from a domain Post
func (m *PostModel) FromDomain(p *content.Post) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Slug = p.Slug
	m.Excerpt = p.Excerpt
	m.Content = p.Content
	m.CoverImage = p.CoverImage
	m.Author = p.Author
	m.Status = p.Status
	m.PublishedAt = p.PublishedAt
	m.Tags = make([]PostTagModel, 0, len(p.Tags))
	for _, tag := range p.Tags {
		m.Tags = append(m.Tags, PostTagModel{PostID: p.ID, Tag: tag})
	}
}

// PostModelFromDomain creates a new persistence model from a domain Post
func PostModelFromDomain(p *content.Post) *PostModel {
	m := &PostModel{}
	m.FromDomain(p)
	return m
}
