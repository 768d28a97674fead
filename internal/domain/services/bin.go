package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// BinService is the trash engine: it owns every deletion of pages and
// folders, capturing a restorable snapshot alongside the live-row removals,
// and replays snapshots back with conflict resolution.
type BinService interface {
	List(ctx context.Context, userID string) ([]models.BinItem, error)

	// DeletePage snapshots the page with its outgoing edges, then deletes
	// the page and every edge touching it, atomically.
	DeletePage(ctx context.Context, id, userID string) error

	// DeleteFolder snapshots the folder subtree with contained pages and
	// all edges touching them, then deletes everything deepest-first,
	// atomically. Returns the number of removed entities.
	DeleteFolder(ctx context.Context, id, userID string) (int, error)

	// Restore replays a snapshot into live storage. Individual sub-steps
	// are best-effort: failures are logged and skipped, never rolled back.
	Restore(ctx context.Context, itemID, userID string) error

	// PermanentlyDelete discards a bin item without restoring. Returns
	// false for missing items and for items owned by someone else, so
	// existence is never leaked.
	PermanentlyDelete(ctx context.Context, itemID, userID string) (bool, error)

	// EmptyBin discards all of the user's bin items, returning the count.
	EmptyBin(ctx context.Context, userID string) (int64, error)
}
