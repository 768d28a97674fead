package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// FolderRepository defines data access for folder tree nodes.
type FolderRepository interface {
	// Create inserts a folder, preserving the caller-supplied id and
	// timestamps (restore depends on this).
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder regardless of owner; ownership checks
	// belong to the service layer.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// ListByUser lists all folders of a user, position then name ordered.
	ListByUser(ctx context.Context, userID string) ([]models.Folder, error)

	// ListChildren lists the immediate children of a folder.
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)

	// Update persists name, parent and updated_at.
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a folder row; returns domain.ErrNotFound when no row
	// was removed.
	Delete(ctx context.Context, id string) error
}
