package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

type binService struct {
	binRepo       repositories.BinRepository
	pageRepo      repositories.PageRepository
	folderRepo    repositories.FolderRepository
	linkRepo      repositories.PageLinkRepository
	folderService services.FolderService
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewBinService creates the trash engine.
func NewBinService(
	binRepo repositories.BinRepository,
	pageRepo repositories.PageRepository,
	folderRepo repositories.FolderRepository,
	linkRepo repositories.PageLinkRepository,
	folderService services.FolderService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.BinService {
	return &binService{
		binRepo:       binRepo,
		pageRepo:      pageRepo,
		folderRepo:    folderRepo,
		linkRepo:      linkRepo,
		folderService: folderService,
		txManager:     txManager,
		logger:        logger,
	}
}

// List lists the user's bin items.
func (s *binService) List(ctx context.Context, userID string) ([]models.BinItem, error) {
	return s.binRepo.ListByUser(ctx, userID)
}

// DeletePage snapshots the page and its outgoing edges, then deletes every
// edge touching the page and the page row, all in one transaction. A bin
// item is never left behind without the matching row deletions.
func (s *binService) DeletePage(ctx context.Context, id, userID string) error {
	page, err := s.getOwnedPage(ctx, id, userID)
	if err != nil {
		return err
	}

	links, err := s.linkRepo.ListOutgoing(ctx, id)
	if err != nil {
		return err
	}

	snapshot := models.PageSnapshot{
		Version: models.SnapshotVersion,
		Page:    *page,
		Links:   links,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode page snapshot: %w", err)
	}

	now := time.Now()
	item := &models.BinItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemType:  models.BinItemTypePage,
		ItemID:    id,
		ItemData:  data,
		DeletedAt: now,
		CreatedAt: now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.binRepo.Create(txCtx, item); err != nil {
			return err
		}
		if err := s.linkRepo.DeleteByPage(txCtx, id); err != nil {
			return err
		}
		// A zero-row delete means a concurrent request removed the page
		// first; the whole transaction (snapshot included) rolls back.
		return s.pageRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("page moved to bin",
		"page_id", id,
		"user_id", userID,
		"bin_item_id", item.ID,
		"link_count", len(links),
	)
	return nil
}

// DeleteFolder snapshots the folder with its entire subtree, contained
// pages and every edge touching those pages, then deletes the live rows in
// one transaction: links first, then pages, then folders deepest-first so
// no child outlives its parent's removal ordering. Returns the number of
// removed entities (folders plus pages).
func (s *binService) DeleteFolder(ctx context.Context, id, userID string) (int, error) {
	folder, err := s.getOwnedFolder(ctx, id, userID)
	if err != nil {
		return 0, err
	}

	subtree, err := s.folderService.CollectSubtree(ctx, id, userID)
	if err != nil {
		return 0, err
	}

	folderIDs := make([]string, 0, len(subtree)+1)
	folderIDs = append(folderIDs, id)
	for _, sub := range subtree {
		folderIDs = append(folderIDs, sub.ID)
	}

	var allPages []models.Page
	for _, folderID := range folderIDs {
		fid := folderID
		pages, err := s.pageRepo.ListByUser(ctx, userID, repositories.PageFilters{FolderID: &fid})
		if err != nil {
			return 0, err
		}
		allPages = append(allPages, pages...)
	}

	var allLinks []models.PageLink
	seenLinks := make(map[string]bool)
	for _, page := range allPages {
		links, err := s.linkRepo.ListByPage(ctx, page.ID)
		if err != nil {
			return 0, err
		}
		for _, link := range links {
			if !seenLinks[link.ID] {
				seenLinks[link.ID] = true
				allLinks = append(allLinks, link)
			}
		}
	}

	snapshot := models.FolderSnapshot{
		Version:      models.SnapshotVersion,
		Folder:       *folder,
		Subfolders:   subtree,
		Pages:        allPages,
		AllPageLinks: allLinks,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("encode folder snapshot: %w", err)
	}

	now := time.Now()
	item := &models.BinItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemType:  models.BinItemTypeFolder,
		ItemID:    id,
		ItemData:  data,
		DeletedAt: now,
		CreatedAt: now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.binRepo.Create(txCtx, item); err != nil {
			return err
		}
		for _, page := range allPages {
			if err := s.linkRepo.DeleteByPage(txCtx, page.ID); err != nil {
				return err
			}
		}
		for _, page := range allPages {
			if err := s.pageRepo.Delete(txCtx, page.ID); err != nil {
				return err
			}
		}
		// Subtree is in parent-before-child order; deleting in reverse
		// removes every folder before its parent.
		for i := len(subtree) - 1; i >= 0; i-- {
			if err := s.folderRepo.Delete(txCtx, subtree[i].ID); err != nil {
				return err
			}
		}
		// A zero-row delete of the root means a concurrent delete won;
		// roll everything back rather than leave a duplicate snapshot.
		return s.folderRepo.Delete(txCtx, id)
	})
	if err != nil {
		return 0, err
	}

	affected := 1 + len(subtree) + len(allPages)
	s.logger.Info("folder moved to bin",
		"folder_id", id,
		"user_id", userID,
		"bin_item_id", item.ID,
		"subfolder_count", len(subtree),
		"page_count", len(allPages),
		"link_count", len(allLinks),
	)
	return affected, nil
}

// Restore replays a snapshot into live storage, then removes the bin item.
// Sub-steps are best-effort: an individual subfolder, page or link that
// cannot be re-inserted is logged and skipped, and prior successful steps
// are never rolled back - partial recovery beats losing everything over
// one bad row.
func (s *binService) Restore(ctx context.Context, itemID, userID string) error {
	item, err := s.binRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return fmt.Errorf("bin item %s: %w", itemID, domain.ErrNotFound)
	}

	switch item.ItemType {
	case models.BinItemTypePage:
		err = s.restorePage(ctx, item)
	case models.BinItemTypeFolder:
		err = s.restoreFolder(ctx, item)
	default:
		err = fmt.Errorf("%w: unknown bin item type %q", domain.ErrValidation, item.ItemType)
	}
	if err != nil {
		return err
	}

	if _, err := s.binRepo.Delete(ctx, itemID); err != nil {
		return err
	}

	s.logger.Info("bin item restored", "bin_item_id", itemID, "item_type", item.ItemType, "user_id", userID)
	return nil
}

func (s *binService) restorePage(ctx context.Context, item *models.BinItem) error {
	var snapshot models.PageSnapshot
	if err := json.Unmarshal(item.ItemData, &snapshot); err != nil {
		return fmt.Errorf("decode page snapshot: %w", err)
	}
	if snapshot.Version != models.SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrValidation, snapshot.Version)
	}

	page := snapshot.Page
	s.resolvePageConflicts(ctx, &page)

	if err := s.pageRepo.Create(ctx, &page); err != nil {
		return err
	}

	// Outgoing edges come back only where the target still exists; a
	// vanished target is expected after partial data loss, not an error.
	for _, link := range snapshot.Links {
		if _, err := s.pageRepo.GetByID(ctx, link.ToPageID); err != nil {
			s.logger.Debug("skipping link restore, target missing",
				"from_page_id", link.FromPageID,
				"to_page_id", link.ToPageID,
			)
			continue
		}
		if err := s.linkRepo.Create(ctx, &link); err != nil {
			s.logger.Warn("failed to restore page link",
				"link_id", link.ID,
				"error", err,
			)
		}
	}

	return nil
}

func (s *binService) restoreFolder(ctx context.Context, item *models.BinItem) error {
	var snapshot models.FolderSnapshot
	if err := json.Unmarshal(item.ItemData, &snapshot); err != nil {
		return fmt.Errorf("decode folder snapshot: %w", err)
	}
	if snapshot.Version != models.SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrValidation, snapshot.Version)
	}

	folder := snapshot.Folder
	if folder.ParentID != nil && !s.folderUsable(ctx, *folder.ParentID, folder.UserID) {
		// The recorded parent vanished while this folder sat in the bin;
		// re-parent to root rather than fail the restore.
		folder.ParentID = nil
	}

	if err := s.folderRepo.Create(ctx, &folder); err != nil {
		return err
	}

	// Subfolders go back parent-first so every insert finds its parent
	// already live. Parents outside the snapshot resolve to the root
	// folder just inserted.
	for _, subfolder := range sortFoldersByHierarchy(snapshot.Subfolders) {
		sub := subfolder
		if err := s.folderRepo.Create(ctx, &sub); err != nil {
			s.logger.Warn("failed to restore subfolder",
				"folder_id", sub.ID,
				"error", err,
			)
		}
	}

	for _, snapshotPage := range snapshot.Pages {
		page := snapshotPage
		s.resolvePageConflicts(ctx, &page)
		if err := s.pageRepo.Create(ctx, &page); err != nil {
			s.logger.Warn("failed to restore page",
				"page_id", page.ID,
				"error", err,
			)
		}
	}

	// Stricter than the single-page path: either endpoint may be a page
	// that failed to restore, so both must exist live.
	for _, link := range snapshot.AllPageLinks {
		if _, err := s.pageRepo.GetByID(ctx, link.FromPageID); err != nil {
			continue
		}
		if _, err := s.pageRepo.GetByID(ctx, link.ToPageID); err != nil {
			continue
		}
		if err := s.linkRepo.Create(ctx, &link); err != nil {
			s.logger.Warn("failed to restore page link",
				"link_id", link.ID,
				"error", err,
			)
		}
	}

	return nil
}

// resolvePageConflicts applies restore conflict rules in place: a slug now
// held by a different live page is cleared (publish identity cannot be
// silently duplicated, so the page also unpublishes), and a vanished or
// foreign folder reference re-parents the page to root.
func (s *binService) resolvePageConflicts(ctx context.Context, page *models.Page) {
	if page.Slug != nil {
		taken, err := s.pageRepo.IsSlugTaken(ctx, *page.Slug, page.ID)
		if err != nil || taken {
			s.logger.Warn("slug conflict during restore, page unpublished",
				"page_id", page.ID,
				"slug", *page.Slug,
			)
			page.Slug = nil
			page.IsPublished = false
			page.PublishedAt = nil
		}
	}

	if page.FolderID != nil && !s.folderUsable(ctx, *page.FolderID, page.UserID) {
		page.FolderID = nil
	}
}

// folderUsable reports whether the folder exists and belongs to userID.
func (s *binService) folderUsable(ctx context.Context, folderID, userID string) bool {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("folder lookup failed during restore", "folder_id", folderID, "error", err)
		}
		return false
	}
	return folder.UserID == userID
}

// PermanentlyDelete removes a bin item without restoring anything. Missing
// items and items owned by someone else both report false, so existence is
// never leaked to non-owners.
func (s *binService) PermanentlyDelete(ctx context.Context, itemID, userID string) (bool, error) {
	item, err := s.binRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if item.UserID != userID {
		return false, nil
	}

	deleted, err := s.binRepo.Delete(ctx, itemID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("bin item permanently deleted", "bin_item_id", itemID, "user_id", userID)
	}
	return deleted, nil
}

// EmptyBin discards all of the user's bin items.
func (s *binService) EmptyBin(ctx context.Context, userID string) (int64, error) {
	count, err := s.binRepo.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("bin emptied", "user_id", userID, "items_deleted", count)
	return count, nil
}

func (s *binService) getOwnedPage(ctx context.Context, id, userID string) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.UserID != userID {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return page, nil
}

func (s *binService) getOwnedFolder(ctx context.Context, id, userID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folder, nil
}

// sortFoldersByHierarchy orders folders so every folder appears after its
// parent when the parent is in the set. Folders whose parent is outside
// the set (typically the root being restored separately) sort first. The
// walk is iterative with a processing guard, so a corrupt parent cycle in
// a snapshot cannot loop forever.
func sortFoldersByHierarchy(folders []models.Folder) []models.Folder {
	byID := make(map[string]models.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	result := make([]models.Folder, 0, len(folders))
	placed := make(map[string]bool, len(folders))

	for _, f := range folders {
		// Walk up to the highest unplaced ancestor inside the set, then
		// emit the chain top-down.
		chain := []models.Folder{}
		onChain := make(map[string]bool)
		current := f
		for {
			if placed[current.ID] || onChain[current.ID] {
				break
			}
			chain = append(chain, current)
			onChain[current.ID] = true
			if current.ParentID == nil {
				break
			}
			parent, ok := byID[*current.ParentID]
			if !ok {
				break
			}
			current = parent
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if !placed[chain[i].ID] {
				placed[chain[i].ID] = true
				result = append(result, chain[i])
			}
		}
	}

	return result
}
