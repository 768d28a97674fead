package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

type linkService struct {
	linkRepo repositories.PageLinkRepository
	pageRepo repositories.PageRepository
	logger   *slog.Logger
}

// NewLinkService creates a new link service.
func NewLinkService(
	linkRepo repositories.PageLinkRepository,
	pageRepo repositories.PageRepository,
	logger *slog.Logger,
) services.LinkService {
	return &linkService{
		linkRepo: linkRepo,
		pageRepo: pageRepo,
		logger:   logger,
	}
}

// ExtractReferences walks the content tree with an explicit stack and
// collects the page id of every node typed "pageLink". Both child content
// and marks are traversed; duplicates collapse.
func (s *linkService) ExtractReferences(content models.PageContent) []string {
	if content == nil {
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	stack := []map[string]interface{}{content}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nodeType, _ := node["type"].(string); nodeType == "pageLink" {
			if attrs, ok := node["attrs"].(map[string]interface{}); ok {
				if pageID, ok := attrs["pageId"].(string); ok && pageID != "" && !seen[pageID] {
					seen[pageID] = true
					ids = append(ids, pageID)
				}
			}
		}

		for _, key := range []string{"content", "marks"} {
			children, ok := node[key].([]interface{})
			if !ok {
				continue
			}
			for _, child := range children {
				if childNode, ok := child.(map[string]interface{}); ok {
					stack = append(stack, childNode)
				}
			}
		}
	}

	return ids
}

// Reconcile diffs the page's outgoing edges against desiredTargetIDs.
// Stale edges are deleted; new targets are created when they exist and are
// owned by the user, and skipped silently otherwise. Content referencing a
// deleted or foreign page is an unrealized link, not an error.
func (s *linkService) Reconcile(ctx context.Context, pageID, userID string, desiredTargetIDs []string) error {
	if _, err := s.getOwnedPage(ctx, pageID, userID); err != nil {
		return err
	}

	current, err := s.linkRepo.ListOutgoing(ctx, pageID)
	if err != nil {
		return err
	}

	currentSet := make(map[string]bool, len(current))
	for _, link := range current {
		currentSet[link.ToPageID] = true
	}
	desiredSet := make(map[string]bool, len(desiredTargetIDs))
	for _, id := range desiredTargetIDs {
		desiredSet[id] = true
	}

	for targetID := range currentSet {
		if !desiredSet[targetID] {
			if err := s.linkRepo.DeleteBetween(ctx, pageID, targetID); err != nil {
				return err
			}
		}
	}

	for targetID := range desiredSet {
		if currentSet[targetID] || targetID == pageID {
			continue
		}

		target, err := s.pageRepo.GetByID(ctx, targetID)
		if err != nil || target.UserID != userID {
			s.logger.Debug("skipping unrealized link target", "page_id", pageID, "target_id", targetID)
			continue
		}

		link := &models.PageLink{
			ID:         uuid.NewString(),
			FromPageID: pageID,
			ToPageID:   targetID,
			CreatedAt:  time.Now(),
		}
		if err := s.linkRepo.Create(ctx, link); err != nil {
			return err
		}
	}

	s.logger.Debug("page links reconciled", "page_id", pageID, "target_count", len(desiredSet))
	return nil
}

// Links returns the outgoing and incoming edges of an owned page.
func (s *linkService) Links(ctx context.Context, pageID, userID string) (*models.PageLinks, error) {
	if _, err := s.getOwnedPage(ctx, pageID, userID); err != nil {
		return nil, err
	}

	outgoing, err := s.linkRepo.ListOutgoing(ctx, pageID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.linkRepo.ListIncoming(ctx, pageID)
	if err != nil {
		return nil, err
	}

	return &models.PageLinks{Outgoing: outgoing, Incoming: incoming}, nil
}

// Backlinks returns the incoming edges of an owned page.
func (s *linkService) Backlinks(ctx context.Context, pageID, userID string) ([]models.PageLink, error) {
	if _, err := s.getOwnedPage(ctx, pageID, userID); err != nil {
		return nil, err
	}
	return s.linkRepo.ListIncoming(ctx, pageID)
}

// CreateLink adds an explicit edge between two pages the user owns.
func (s *linkService) CreateLink(ctx context.Context, userID, fromPageID, toPageID string) (*models.PageLink, error) {
	if fromPageID == toPageID {
		return nil, fmt.Errorf("page %s: %w", fromPageID, domain.ErrSelfLink)
	}

	if _, err := s.getOwnedPage(ctx, fromPageID, userID); err != nil {
		return nil, fmt.Errorf("source page: %w", err)
	}
	if _, err := s.getOwnedPage(ctx, toPageID, userID); err != nil {
		return nil, fmt.Errorf("target page: %w", err)
	}

	link := &models.PageLink{
		ID:         uuid.NewString(),
		FromPageID: fromPageID,
		ToPageID:   toPageID,
		CreatedAt:  time.Now(),
	}
	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("page link created", "from_page_id", fromPageID, "to_page_id", toPageID, "user_id", userID)
	return link, nil
}

// DeleteLink removes the (from, to) edge of an owned source page.
func (s *linkService) DeleteLink(ctx context.Context, userID, fromPageID, toPageID string) error {
	if _, err := s.getOwnedPage(ctx, fromPageID, userID); err != nil {
		return fmt.Errorf("source page: %w", err)
	}

	if err := s.linkRepo.DeleteBetween(ctx, fromPageID, toPageID); err != nil {
		return err
	}

	s.logger.Info("page link deleted", "from_page_id", fromPageID, "to_page_id", toPageID, "user_id", userID)
	return nil
}

func (s *linkService) getOwnedPage(ctx context.Context, id, userID string) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.UserID != userID {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return page, nil
}
