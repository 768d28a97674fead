package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(folderRepo repositories.FolderRepository, logger *slog.Logger) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// Create creates a folder at root or under a parent the user owns.
func (s *folderService) Create(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentID != nil {
		if _, err := s.getOwned(ctx, *req.ParentID, req.UserID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		Position:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"user_id", folder.UserID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Get returns a folder the user owns.
func (s *folderService) Get(ctx context.Context, id, userID string) (*models.Folder, error) {
	return s.getOwned(ctx, id, userID)
}

// List lists all folders of the user.
func (s *folderService) List(ctx context.Context, userID string) ([]models.Folder, error) {
	return s.folderRepo.ListByUser(ctx, userID)
}

// Update renames and/or reparents a folder. Reparenting to a non-nil target
// re-validates acyclicity and parent ownership.
func (s *folderService) Update(ctx context.Context, id, userID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name == nil && !req.ParentID.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validation.Validate(name, validation.Required, validation.Length(1, config.MaxFolderNameLength)); err != nil {
			return nil, fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
		}
		folder.Name = name
	}

	if req.ParentID.Present {
		if req.ParentID.Value != nil {
			circular, err := s.HasCircularReference(ctx, id, *req.ParentID.Value)
			if err != nil {
				return nil, err
			}
			if circular {
				return nil, fmt.Errorf("folder %s under %s: %w", id, *req.ParentID.Value, domain.ErrCircularReference)
			}

			if _, err := s.getOwned(ctx, *req.ParentID.Value, userID); err != nil {
				return nil, fmt.Errorf("parent folder: %w", err)
			}
			folder.ParentID = req.ParentID.Value
		} else {
			folder.ParentID = nil
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"folder_id", folder.ID,
		"user_id", userID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// Move reparents a folder. A nil newParentID moves to root and is always
// legal.
func (s *folderService) Move(ctx context.Context, id, userID string, newParentID *string) (*models.Folder, error) {
	return s.Update(ctx, id, userID, &services.UpdateFolderRequest{
		ParentID: optionalString(newParentID),
	})
}

// HasCircularReference walks the candidate parent's ancestor chain looking
// for folderID. The visited set guards against pre-existing corrupt cycles
// causing an endless walk: revisiting any id also counts as circular.
func (s *folderService) HasCircularReference(ctx context.Context, folderID, candidateParentID string) (bool, error) {
	visited := make(map[string]bool)
	currentID := candidateParentID

	for currentID != "" {
		if currentID == folderID {
			return true, nil
		}
		if visited[currentID] {
			return true, nil
		}
		visited[currentID] = true

		folder, err := s.folderRepo.GetByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// A dangling parent pointer ends the chain.
				return false, nil
			}
			return false, err
		}

		if folder.ParentID == nil {
			return false, nil
		}
		currentID = *folder.ParentID
	}

	return false, nil
}

// CollectSubtree returns every descendant of the folder in
// parent-before-child order. Folders not owned by the user are excluded and
// not traversed; the visited set bounds the walk even if the stored tree is
// corrupt.
func (s *folderService) CollectSubtree(ctx context.Context, id, userID string) ([]models.Folder, error) {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return nil, err
	}

	var result []models.Folder
	visited := map[string]bool{id: true}
	queue := []string{id}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		children, err := s.folderRepo.ListChildren(ctx, currentID)
		if err != nil {
			return nil, err
		}

		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			if child.UserID != userID {
				s.logger.Warn("skipping foreign folder in subtree",
					"folder_id", child.ID,
					"owner", child.UserID,
					"expected_owner", userID,
				)
				continue
			}
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}

	return result, nil
}

// getOwned fetches a folder and conflates absence with foreign ownership.
func (s *folderService) getOwned(ctx context.Context, id, userID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folder, nil
}
