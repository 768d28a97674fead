package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

type binFixture struct {
	binRepo    *fakeBinRepo
	pageRepo   *fakePageRepo
	folderRepo *fakeFolderRepo
	linkRepo   *fakeLinkRepo
	bin        services.BinService
}

func newBinFixture() *binFixture {
	binRepo := newFakeBinRepo()
	pageRepo := newFakePageRepo()
	folderRepo := newFakeFolderRepo()
	linkRepo := newFakeLinkRepo()
	folderSvc := NewFolderService(folderRepo, testLogger())
	bin := NewBinService(binRepo, pageRepo, folderRepo, linkRepo, folderSvc, &fakeTxManager{}, testLogger())
	return &binFixture{
		binRepo:    binRepo,
		pageRepo:   pageRepo,
		folderRepo: folderRepo,
		linkRepo:   linkRepo,
		bin:        bin,
	}
}

func putLink(repo *fakeLinkRepo, id, from, to string) {
	repo.links[id] = models.PageLink{
		ID:         id,
		FromPageID: from,
		ToPageID:   to,
		CreatedAt:  time.Now(),
	}
}

func TestDeleteAndRestorePage(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)
	putPage(f.pageRepo, "p2", "u1", nil)
	putLink(f.linkRepo, "l1", "p1", "p2")
	putLink(f.linkRepo, "l2", "p2", "p1")

	if err := f.bin.DeletePage(ctx, "p1", "u1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	// Page row and every touching edge are gone.
	if _, err := f.pageRepo.GetByID(ctx, "p1"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("DeletePage() left the page row")
	}
	if edges, _ := f.linkRepo.ListByPage(ctx, "p1"); len(edges) != 0 {
		t.Errorf("DeletePage() left %d edges", len(edges))
	}

	items, _ := f.bin.List(ctx, "u1")
	if len(items) != 1 {
		t.Fatalf("List() = %d items, want 1", len(items))
	}
	if items[0].ItemType != models.BinItemTypePage || items[0].ItemID != "p1" {
		t.Fatalf("List() item = %+v", items[0])
	}

	if err := f.bin.Restore(ctx, items[0].ID, "u1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	// Page comes back under its original id; outgoing edge to the still
	// existing p2 is recreated, the incoming edge is not (it was p2's).
	restored, err := f.pageRepo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("page not restored: %v", err)
	}
	if restored.Title != "page-p1" {
		t.Errorf("restored title = %q", restored.Title)
	}
	outgoing, _ := f.linkRepo.ListOutgoing(ctx, "p1")
	if len(outgoing) != 1 || outgoing[0].ToPageID != "p2" {
		t.Errorf("restored outgoing = %v, want single edge to p2", outgoing)
	}

	if items, _ := f.bin.List(ctx, "u1"); len(items) != 0 {
		t.Error("Restore() left the bin item behind")
	}
}

func TestRestorePageSkipsMissingLinkTarget(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)
	putPage(f.pageRepo, "p2", "u1", nil)
	putLink(f.linkRepo, "l1", "p1", "p2")

	if err := f.bin.DeletePage(ctx, "p1", "u1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	// Target vanishes while p1 sits in the bin.
	delete(f.pageRepo.pages, "p2")

	items, _ := f.bin.List(ctx, "u1")
	if err := f.bin.Restore(ctx, items[0].ID, "u1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if outgoing, _ := f.linkRepo.ListOutgoing(ctx, "p1"); len(outgoing) != 0 {
		t.Errorf("Restore() recreated edge to missing target: %v", outgoing)
	}
}

func TestRestorePageSlugConflictUnpublishes(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)
	slug := "shared"
	now := time.Now()
	page := f.pageRepo.pages["p1"]
	page.IsPublished = true
	page.Slug = &slug
	page.PublishedAt = &now
	f.pageRepo.pages["p1"] = page

	if err := f.bin.DeletePage(ctx, "p1", "u1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	// Another page claims the slug in the meantime.
	putPage(f.pageRepo, "p2", "u1", nil)
	other := f.pageRepo.pages["p2"]
	other.IsPublished = true
	other.Slug = &slug
	f.pageRepo.pages["p2"] = other

	items, _ := f.bin.List(ctx, "u1")
	if err := f.bin.Restore(ctx, items[0].ID, "u1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, err := f.pageRepo.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("page not restored: %v", err)
	}
	if restored.Slug != nil || restored.IsPublished || restored.PublishedAt != nil {
		t.Errorf("Restore() with slug conflict = %+v, want unpublished with no slug", restored)
	}

	// The conflicting page keeps its slug.
	if p2, _ := f.pageRepo.GetByID(ctx, "p2"); p2.Slug == nil || *p2.Slug != slug {
		t.Error("Restore() disturbed the page holding the slug")
	}
}

func TestRestorePageMissingFolderMovesToRoot(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putFolder(f.folderRepo, "f1", "u1", nil)
	putPage(f.pageRepo, "p1", "u1", strPtr("f1"))

	if err := f.bin.DeletePage(ctx, "p1", "u1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	// Folder vanishes while the page sits in the bin.
	delete(f.folderRepo.folders, "f1")

	items, _ := f.bin.List(ctx, "u1")
	if err := f.bin.Restore(ctx, items[0].ID, "u1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, _ := f.pageRepo.GetByID(ctx, "p1")
	if restored.FolderID != nil {
		t.Errorf("Restore() folder = %v, want nil (root)", restored.FolderID)
	}
}

func TestDeleteAndRestoreFolderSubtree(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	// a -> b -> c, pages in a and c, a cross-link between them.
	putFolder(f.folderRepo, "a", "u1", nil)
	putFolder(f.folderRepo, "b", "u1", strPtr("a"))
	putFolder(f.folderRepo, "c", "u1", strPtr("b"))
	putPage(f.pageRepo, "pa", "u1", strPtr("a"))
	putPage(f.pageRepo, "pc", "u1", strPtr("c"))
	putLink(f.linkRepo, "l1", "pa", "pc")

	affected, err := f.bin.DeleteFolder(ctx, "a", "u1")
	if err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	if affected != 5 {
		t.Errorf("DeleteFolder() affected = %d, want 5 (3 folders + 2 pages)", affected)
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := f.folderRepo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("DeleteFolder() left folder %s", id)
		}
	}
	for _, id := range []string{"pa", "pc"} {
		if _, err := f.pageRepo.GetByID(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("DeleteFolder() left page %s", id)
		}
	}
	if len(f.linkRepo.links) != 0 {
		t.Errorf("DeleteFolder() left %d links", len(f.linkRepo.links))
	}

	items, _ := f.bin.List(ctx, "u1")
	if len(items) != 1 || items[0].ItemType != models.BinItemTypeFolder {
		t.Fatalf("List() = %+v, want one folder item", items)
	}

	if err := f.bin.Restore(ctx, items[0].ID, "u1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	// Entire subtree is back with original parents.
	b, err := f.folderRepo.GetByID(ctx, "b")
	if err != nil {
		t.Fatalf("folder b not restored: %v", err)
	}
	if b.ParentID == nil || *b.ParentID != "a" {
		t.Errorf("restored b parent = %v, want a", b.ParentID)
	}
	c, err := f.folderRepo.GetByID(ctx, "c")
	if err != nil {
		t.Fatalf("folder c not restored: %v", err)
	}
	if c.ParentID == nil || *c.ParentID != "b" {
		t.Errorf("restored c parent = %v, want b", c.ParentID)
	}

	pc, err := f.pageRepo.GetByID(ctx, "pc")
	if err != nil {
		t.Fatalf("page pc not restored: %v", err)
	}
	if pc.FolderID == nil || *pc.FolderID != "c" {
		t.Errorf("restored pc folder = %v, want c", pc.FolderID)
	}

	// Cross-link is back because both endpoints exist.
	outgoing, _ := f.linkRepo.ListOutgoing(ctx, "pa")
	if len(outgoing) != 1 || outgoing[0].ToPageID != "pc" {
		t.Errorf("restored outgoing = %v, want single edge pa -> pc", outgoing)
	}
}

func TestRestoreFolderVanishedParentMovesToRoot(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putFolder(f.folderRepo, "parent", "u1", nil)
	putFolder(f.folderRepo, "child", "u1", strPtr("parent"))

	if _, err := f.bin.DeleteFolder(ctx, "child", "u1"); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}
	delete(f.folderRepo.folders, "parent")

	items, _ := f.bin.List(ctx, "u1")
	if err := f.bin.Restore(ctx, items[0].ID, "u1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, _ := f.folderRepo.GetByID(ctx, "child")
	if restored.ParentID != nil {
		t.Errorf("Restore() parent = %v, want nil (root)", restored.ParentID)
	}
}

func TestRestoreForeignItem(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)
	if err := f.bin.DeletePage(ctx, "p1", "u1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	items, _ := f.bin.List(ctx, "u1")
	if err := f.bin.Restore(ctx, items[0].ID, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Restore() foreign item error = %v, want ErrNotFound", err)
	}
}

func TestPermanentlyDelete(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)
	if err := f.bin.DeletePage(ctx, "p1", "u1"); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}
	items, _ := f.bin.List(ctx, "u1")
	itemID := items[0].ID

	// Foreign user: reported as missing, item untouched.
	deleted, err := f.bin.PermanentlyDelete(ctx, itemID, "u2")
	if err != nil || deleted {
		t.Errorf("PermanentlyDelete() foreign = (%v, %v), want (false, nil)", deleted, err)
	}
	if items, _ := f.bin.List(ctx, "u1"); len(items) != 1 {
		t.Fatal("PermanentlyDelete() foreign removed the item")
	}

	// Owner: removed for good.
	deleted, err = f.bin.PermanentlyDelete(ctx, itemID, "u1")
	if err != nil || !deleted {
		t.Errorf("PermanentlyDelete() = (%v, %v), want (true, nil)", deleted, err)
	}

	// Missing item.
	deleted, err = f.bin.PermanentlyDelete(ctx, itemID, "u1")
	if err != nil || deleted {
		t.Errorf("PermanentlyDelete() missing = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestEmptyBin(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)
	putPage(f.pageRepo, "p2", "u1", nil)
	putPage(f.pageRepo, "p3", "u1", nil)
	putPage(f.pageRepo, "q1", "u2", nil)
	for _, id := range []string{"p1", "p2", "p3"} {
		if err := f.bin.DeletePage(ctx, id, "u1"); err != nil {
			t.Fatalf("DeletePage(%s) error = %v", id, err)
		}
	}
	if err := f.bin.DeletePage(ctx, "q1", "u2"); err != nil {
		t.Fatalf("DeletePage(q1) error = %v", err)
	}

	count, err := f.bin.EmptyBin(ctx, "u1")
	if err != nil {
		t.Fatalf("EmptyBin() error = %v", err)
	}
	if count != 3 {
		t.Errorf("EmptyBin() = %d, want 3", count)
	}

	// The other user's bin is untouched.
	if items, _ := f.bin.List(ctx, "u2"); len(items) != 1 {
		t.Errorf("EmptyBin() touched another user's bin")
	}
}

func TestDeletePageOwnership(t *testing.T) {
	f := newBinFixture()
	ctx := context.Background()

	putPage(f.pageRepo, "p1", "u1", nil)

	if err := f.bin.DeletePage(ctx, "p1", "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeletePage() foreign error = %v, want ErrNotFound", err)
	}
	if err := f.bin.DeletePage(ctx, "ghost", "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeletePage() missing error = %v, want ErrNotFound", err)
	}
}

func TestSortFoldersByHierarchy(t *testing.T) {
	// Children listed before parents must still come out parent-first.
	folders := []models.Folder{
		{ID: "c", ParentID: strPtr("b")},
		{ID: "b", ParentID: strPtr("a")},
		{ID: "a", ParentID: strPtr("outside")},
		{ID: "x", ParentID: nil},
	}

	sorted := sortFoldersByHierarchy(folders)
	if len(sorted) != 4 {
		t.Fatalf("sortFoldersByHierarchy() returned %d folders, want 4", len(sorted))
	}

	pos := make(map[string]int)
	for i, folder := range sorted {
		pos[folder.ID] = i
	}
	if pos["a"] > pos["b"] || pos["b"] > pos["c"] {
		t.Errorf("sortFoldersByHierarchy() order = %v", sorted)
	}

	// A corrupt parent cycle must not loop forever.
	cycle := []models.Folder{
		{ID: "m", ParentID: strPtr("n")},
		{ID: "n", ParentID: strPtr("m")},
	}
	if got := sortFoldersByHierarchy(cycle); len(got) != 2 {
		t.Errorf("sortFoldersByHierarchy() cycle returned %d folders, want 2", len(got))
	}
}
