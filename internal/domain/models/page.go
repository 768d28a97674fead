package models

import "time"

// PageContent is the editor document: a tree of typed nodes, each with
// optional "content" children and "marks". Stored verbatim as JSONB.
type PageContent map[string]interface{}

// Page is a document owned by a single user. Slug is globally unique across
// all users while non-nil and only meaningful when the page is published.
type Page struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	FolderID    *string     `json:"folder_id"` // nil = root level
	Title       string      `json:"title"`
	Content     PageContent `json:"content"`
	IsPublished bool        `json:"is_published"`
	Slug        *string     `json:"slug"`
	PublishedAt *time.Time  `json:"published_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
