package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
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

type pageService struct {
	pageRepo    repositories.PageRepository
	folderRepo  repositories.FolderRepository
	linkService services.LinkService
	logger      *slog.Logger
}

// NewPageService creates a new page service.
func NewPageService(
	pageRepo repositories.PageRepository,
	folderRepo repositories.FolderRepository,
	linkService services.LinkService,
	logger *slog.Logger,
) services.PageService {
	return &pageService{
		pageRepo:    pageRepo,
		folderRepo:  folderRepo,
		linkService: linkService,
		logger:      logger,
	}
}

// Create creates an unpublished page, defaulting to empty content.
func (s *pageService) Create(ctx context.Context, req *services.CreatePageRequest) (*models.Page, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxPageTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil {
		if err := s.checkFolderOwned(ctx, *req.FolderID, req.UserID); err != nil {
			return nil, err
		}
	}

	content := req.Content
	if content == nil {
		content = models.PageContent{}
	}

	now := time.Now()
	page := &models.Page{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		FolderID:  req.FolderID,
		Title:     req.Title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, err
	}

	s.logger.Info("page created", "page_id", page.ID, "user_id", page.UserID)
	return page, nil
}

// Get returns the page to its owner regardless of publish state, and to
// anyone else only when published.
func (s *pageService) Get(ctx context.Context, id, requesterID string) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if page.UserID != requesterID && !page.IsPublished {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}

	return page, nil
}

// GetBySlug returns a published page by slug.
func (s *pageService) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return s.pageRepo.GetBySlug(ctx, slug)
}

// List lists the user's pages with optional folder/search filters.
func (s *pageService) List(ctx context.Context, userID string, filters repositories.PageFilters) ([]models.Page, error) {
	return s.pageRepo.ListByUser(ctx, userID, filters)
}

// Update mutates title, content and/or folder. A content update reconciles
// the page's outgoing links against the references embedded in the new
// content.
func (s *pageService) Update(ctx context.Context, id, userID string, req *services.UpdatePageRequest) (*models.Page, error) {
	page, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title == nil && req.Content == nil && !req.FolderID.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validation.Validate(title, validation.Required, validation.Length(1, config.MaxPageTitleLength)); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
		page.Title = title
	}

	if req.FolderID.Present {
		if req.FolderID.Value != nil {
			if err := s.checkFolderOwned(ctx, *req.FolderID.Value, userID); err != nil {
				return nil, err
			}
		}
		page.FolderID = req.FolderID.Value
	}

	contentChanged := req.Content != nil
	if contentChanged {
		page.Content = req.Content
	}

	page.UpdatedAt = time.Now()

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}

	if contentChanged {
		targets := s.linkService.ExtractReferences(page.Content)
		if err := s.linkService.Reconcile(ctx, page.ID, userID, targets); err != nil {
			// The page row is already saved; a reconcile failure should
			// not undo the edit.
			s.logger.Warn("link reconciliation failed", "page_id", page.ID, "error", err)
		}
	}

	s.logger.Info("page updated", "page_id", page.ID, "user_id", userID)
	return page, nil
}

// Move places the page in another folder (or root when folderID is nil).
func (s *pageService) Move(ctx context.Context, id, userID string, folderID *string) (*models.Page, error) {
	return s.Update(ctx, id, userID, &services.UpdatePageRequest{
		FolderID: optionalString(folderID),
	})
}

// Publish normalizes and claims the slug, then marks the page published.
func (s *pageService) Publish(ctx context.Context, id, userID, slug string) (*models.Page, error) {
	page, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	cleanSlug := NormalizeSlug(slug)
	if cleanSlug == "" {
		return nil, fmt.Errorf("%w: slug is required for publishing", domain.ErrValidation)
	}
	if len(cleanSlug) > config.MaxSlugLength {
		return nil, fmt.Errorf("%w: slug exceeds %d characters", domain.ErrValidation, config.MaxSlugLength)
	}

	taken, err := s.pageRepo.IsSlugTaken(ctx, cleanSlug, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("slug %q: %w", cleanSlug, domain.ErrSlugTaken)
	}

	now := time.Now()
	page.IsPublished = true
	page.Slug = &cleanSlug
	page.PublishedAt = &now
	page.UpdatedAt = now

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}

	s.logger.Info("page published", "page_id", page.ID, "user_id", userID, "slug", cleanSlug)
	return page, nil
}

// Unpublish clears the published flag and timestamp. The slug stays on the
// page so republishing keeps the same public identity.
func (s *pageService) Unpublish(ctx context.Context, id, userID string) (*models.Page, error) {
	page, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	page.IsPublished = false
	page.PublishedAt = nil
	page.UpdatedAt = time.Now()

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, err
	}

	s.logger.Info("page unpublished", "page_id", page.ID, "user_id", userID)
	return page, nil
}

// getOwned fetches a page and conflates absence with foreign ownership.
func (s *pageService) getOwned(ctx context.Context, id, userID string) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.UserID != userID {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return page, nil
}

func (s *pageService) checkFolderOwned(ctx context.Context, folderID, userID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return fmt.Errorf("folder: %w", err)
	}
	if folder.UserID != userID {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	return nil
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// NormalizeSlug lowercases, replaces every run of characters outside
// [a-z0-9-] with a dash, collapses dash runs and trims leading/trailing
// dashes. "hello world!" becomes "hello-world".
func NormalizeSlug(slug string) string {
	s := strings.ToLower(strings.TrimSpace(slug))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	s = slugDashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
