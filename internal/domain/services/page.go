package services

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/httputil"
)

// CreatePageRequest creates an unpublished page, with empty content unless
// supplied.
type CreatePageRequest struct {
	UserID   string             `json:"-"`
	Title    string             `json:"title"`
	Content  models.PageContent `json:"content,omitempty"`
	FolderID *string            `json:"folder_id,omitempty"`
}

// UpdatePageRequest mutates title, content and/or containing folder.
// A non-nil Content triggers link reconciliation against the new content.
type UpdatePageRequest struct {
	Title    *string                 `json:"title,omitempty"`
	Content  models.PageContent      `json:"content,omitempty"`
	FolderID httputil.OptionalString `json:"folder_id"`
}

// PageService manages page lifecycle and publication. Page deletion is not
// exposed here; it goes through BinService.
type PageService interface {
	Create(ctx context.Context, req *CreatePageRequest) (*models.Page, error)

	// Get returns the page when the requester owns it, or when it is
	// published. requesterID may be empty for anonymous access.
	Get(ctx context.Context, id, requesterID string) (*models.Page, error)

	// GetBySlug returns a published page by slug.
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)

	List(ctx context.Context, userID string, filters repositories.PageFilters) ([]models.Page, error)

	Update(ctx context.Context, id, userID string, req *UpdatePageRequest) (*models.Page, error)

	Move(ctx context.Context, id, userID string, folderID *string) (*models.Page, error)

	// Publish normalizes the slug, claims it, and marks the page published.
	Publish(ctx context.Context, id, userID, slug string) (*models.Page, error)

	// Unpublish clears the published flag and timestamp; the slug stays
	// reserved for the owner.
	Unpublish(ctx context.Context, id, userID string) (*models.Page, error)
}
