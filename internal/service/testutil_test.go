package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFolderRepo is an in-memory FolderRepository.
type fakeFolderRepo struct {
	folders map[string]models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]models.Folder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	if _, exists := r.folders[folder.ID]; exists {
		return fmt.Errorf("folder %s already exists", folder.ID)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return &folder, nil
}

func (r *fakeFolderRepo) ListByUser(ctx context.Context, userID string) ([]models.Folder, error) {
	var result []models.Folder
	for _, folder := range r.folders {
		if folder.UserID == userID {
			result = append(result, folder)
		}
	}
	return result, nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	var result []models.Folder
	for _, folder := range r.folders {
		if folder.ParentID != nil && *folder.ParentID == parentID {
			result = append(result, folder)
		}
	}
	return result, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

// fakePageRepo is an in-memory PageRepository.
type fakePageRepo struct {
	pages map[string]models.Page
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{pages: make(map[string]models.Page)}
}

func (r *fakePageRepo) Create(ctx context.Context, page *models.Page) error {
	if _, exists := r.pages[page.ID]; exists {
		return fmt.Errorf("page %s already exists", page.ID)
	}
	r.pages[page.ID] = *page
	return nil
}

func (r *fakePageRepo) GetByID(ctx context.Context, id string) (*models.Page, error) {
	page, ok := r.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return &page, nil
}

func (r *fakePageRepo) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	for _, page := range r.pages {
		if page.IsPublished && page.Slug != nil && *page.Slug == slug {
			p := page
			return &p, nil
		}
	}
	return nil, fmt.Errorf("slug %s: %w", slug, domain.ErrNotFound)
}

func (r *fakePageRepo) ListByUser(ctx context.Context, userID string, filters repositories.PageFilters) ([]models.Page, error) {
	var result []models.Page
	for _, page := range r.pages {
		if page.UserID != userID {
			continue
		}
		if filters.FolderID != nil && (page.FolderID == nil || *page.FolderID != *filters.FolderID) {
			continue
		}
		if filters.RootOnly && page.FolderID != nil {
			continue
		}
		if filters.Published != nil && page.IsPublished != *filters.Published {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(page.Title), strings.ToLower(filters.Search)) {
			continue
		}
		result = append(result, page)
	}
	return result, nil
}

func (r *fakePageRepo) Update(ctx context.Context, page *models.Page) error {
	if _, ok := r.pages[page.ID]; !ok {
		return fmt.Errorf("page %s: %w", page.ID, domain.ErrNotFound)
	}
	r.pages[page.ID] = *page
	return nil
}

func (r *fakePageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.pages[id]; !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	delete(r.pages, id)
	return nil
}

func (r *fakePageRepo) IsSlugTaken(ctx context.Context, slug string, excludeID string) (bool, error) {
	for _, page := range r.pages {
		if page.ID != excludeID && page.Slug != nil && *page.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// fakeLinkRepo is an in-memory PageLinkRepository.
type fakeLinkRepo struct {
	links map[string]models.PageLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]models.PageLink)}
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *models.PageLink) error {
	for _, existing := range r.links {
		if existing.FromPageID == link.FromPageID && existing.ToPageID == link.ToPageID {
			return nil
		}
	}
	r.links[link.ID] = *link
	return nil
}

func (r *fakeLinkRepo) ListOutgoing(ctx context.Context, fromPageID string) ([]models.PageLink, error) {
	var result []models.PageLink
	for _, link := range r.links {
		if link.FromPageID == fromPageID {
			result = append(result, link)
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) ListIncoming(ctx context.Context, toPageID string) ([]models.PageLink, error) {
	var result []models.PageLink
	for _, link := range r.links {
		if link.ToPageID == toPageID {
			result = append(result, link)
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) ListByPage(ctx context.Context, pageID string) ([]models.PageLink, error) {
	var result []models.PageLink
	for _, link := range r.links {
		if link.FromPageID == pageID || link.ToPageID == pageID {
			result = append(result, link)
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) DeleteByPage(ctx context.Context, pageID string) error {
	for id, link := range r.links {
		if link.FromPageID == pageID || link.ToPageID == pageID {
			delete(r.links, id)
		}
	}
	return nil
}

func (r *fakeLinkRepo) DeleteBetween(ctx context.Context, fromPageID, toPageID string) error {
	for id, link := range r.links {
		if link.FromPageID == fromPageID && link.ToPageID == toPageID {
			delete(r.links, id)
		}
	}
	return nil
}

// fakeBinRepo is an in-memory BinRepository.
type fakeBinRepo struct {
	items map[string]models.BinItem
}

func newFakeBinRepo() *fakeBinRepo {
	return &fakeBinRepo{items: make(map[string]models.BinItem)}
}

func (r *fakeBinRepo) Create(ctx context.Context, item *models.BinItem) error {
	r.items[item.ID] = *item
	return nil
}

func (r *fakeBinRepo) GetByID(ctx context.Context, id string) (*models.BinItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("bin item %s: %w", id, domain.ErrNotFound)
	}
	return &item, nil
}

func (r *fakeBinRepo) ListByUser(ctx context.Context, userID string) ([]models.BinItem, error) {
	var result []models.BinItem
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeBinRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeBinRepo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	for id, item := range r.items {
		if item.UserID == userID {
			delete(r.items, id)
			count++
		}
	}
	return count, nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
