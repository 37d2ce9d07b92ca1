package models

import "time"

// Post CMS 博客文章，content 为 Strapi blocks 富文本
type Post struct {
	ID          int        `json:"id"`
	DocumentID  string     `json:"documentId,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     RichText   `json:"content,omitzero"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
