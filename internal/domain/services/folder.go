package services

import (
	"context"

	"inkwell/internal/domain/models"
	"inkwell/internal/httputil"
)

// CreateFolderRequest creates a folder at root or under a parent the same
// user owns.
type CreateFolderRequest struct {
	UserID   string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateFolderRequest renames and/or reparents a folder. ParentID uses
// tri-state semantics: absent = keep, null = move to root, value = move
// under that folder.
type UpdateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// FolderService manages the folder hierarchy and its tree invariants.
// Folder deletion is not exposed here; it goes through BinService so every
// removal leaves a restorable snapshot.
type FolderService interface {
	Create(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	Get(ctx context.Context, id, userID string) (*models.Folder, error)

	List(ctx context.Context, userID string) ([]models.Folder, error)

	Update(ctx context.Context, id, userID string, req *UpdateFolderRequest) (*models.Folder, error)

	// Move reparents a folder; a nil newParentID always succeeds (move to
	// root) and is never checked for circularity.
	Move(ctx context.Context, id, userID string, newParentID *string) (*models.Folder, error)

	// HasCircularReference reports whether making candidateParentID the
	// parent of folderID would create a cycle.
	HasCircularReference(ctx context.Context, folderID, candidateParentID string) (bool, error)

	// CollectSubtree returns every descendant of the folder in
	// parent-before-child order, restricted to folders the user owns.
	CollectSubtree(ctx context.Context, id, userID string) ([]models.Folder, error)
}
