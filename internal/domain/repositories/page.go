package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// PageFilters narrows ListByUser results.
type PageFilters struct {
	FolderID  *string // pages directly inside this folder
	RootOnly  bool    // pages with no folder
	Search    string  // case-insensitive match over title and serialized content
	Published *bool
}

// PageRepository defines data access for pages.
type PageRepository interface {
	// Create inserts a page, preserving the caller-supplied id and
	// timestamps (restore depends on this).
	Create(ctx context.Context, page *models.Page) error

	// GetByID retrieves a page regardless of owner or publish state.
	GetByID(ctx context.Context, id string) (*models.Page, error)

	// GetBySlug retrieves a published page by its slug.
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)

	// ListByUser lists a user's pages, most recently updated first.
	ListByUser(ctx context.Context, userID string, filters PageFilters) ([]models.Page, error)

	// Update persists all mutable fields.
	Update(ctx context.Context, page *models.Page) error

	// Delete removes a page row; returns domain.ErrNotFound when no row
	// was removed.
	Delete(ctx context.Context, id string) error

	// IsSlugTaken reports whether any page other than excludeID holds slug.
	IsSlugTaken(ctx context.Context, slug string, excludeID string) (bool, error)
}
