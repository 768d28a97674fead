package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// PageLinkRepository defines data access for directed page-to-page edges.
type PageLinkRepository interface {
	// Create inserts an edge. Inserting an already-existing (from, to)
	// pair is a no-op, which makes restore idempotent.
	Create(ctx context.Context, link *models.PageLink) error

	// ListOutgoing lists edges originating at the page, newest first.
	ListOutgoing(ctx context.Context, fromPageID string) ([]models.PageLink, error)

	// ListIncoming lists edges pointing at the page, newest first.
	ListIncoming(ctx context.Context, toPageID string) ([]models.PageLink, error)

	// ListByPage lists every edge where the page is source or target.
	ListByPage(ctx context.Context, pageID string) ([]models.PageLink, error)

	// DeleteByPage removes every edge where the page is source or target.
	DeleteByPage(ctx context.Context, pageID string) error

	// DeleteBetween removes the (from, to) edge if present.
	DeleteBetween(ctx context.Context, fromPageID, toPageID string) error
}
