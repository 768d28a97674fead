package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// BinRepository defines data access for trash snapshots.
type BinRepository interface {
	Create(ctx context.Context, item *models.BinItem) error

	GetByID(ctx context.Context, id string) (*models.BinItem, error)

	// ListByUser lists a user's bin items, most recently deleted first.
	ListByUser(ctx context.Context, userID string) ([]models.BinItem, error)

	// Delete removes a bin item; reports whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAllByUser empties a user's bin and returns the removed count.
	DeleteAllByUser(ctx context.Context, userID string) (int64, error)
}
