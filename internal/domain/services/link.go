package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// LinkService maintains the directed link graph between pages, both derived
// from content and created explicitly.
type LinkService interface {
	// ExtractReferences walks a content tree and returns the deduplicated
	// set of referenced page ids, order not significant.
	ExtractReferences(content models.PageContent) []string

	// Reconcile makes the page's outgoing edge set equal to desired,
	// deleting stale edges and creating new ones. Targets that do not
	// exist, are foreign, or equal the page itself are skipped silently.
	Reconcile(ctx context.Context, pageID, userID string, desiredTargetIDs []string) error

	// Links returns outgoing and incoming edges of an owned page.
	Links(ctx context.Context, pageID, userID string) (*models.PageLinks, error)

	// Backlinks returns incoming edges of an owned page.
	Backlinks(ctx context.Context, pageID, userID string) ([]models.PageLink, error)

	// CreateLink adds an explicit edge between two pages the user owns.
	CreateLink(ctx context.Context, userID, fromPageID, toPageID string) (*models.PageLink, error)

	// DeleteLink removes the (from, to) edge of an owned source page.
	DeleteLink(ctx context.Context, userID, fromPageID, toPageID string) error
}
