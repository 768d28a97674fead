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

func putPage(repo *fakePageRepo, id, userID string, folderID *string) {
	now := time.Now()
	repo.pages[id] = models.Page{
		ID:        id,
		UserID:    userID,
		FolderID:  folderID,
		Title:     "page-" + id,
		Content:   models.PageContent{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newPageFixture() (*fakePageRepo, *fakeFolderRepo, *fakeLinkRepo, services.PageService) {
	pageRepo := newFakePageRepo()
	folderRepo := newFakeFolderRepo()
	linkRepo := newFakeLinkRepo()
	linkSvc := NewLinkService(linkRepo, pageRepo, testLogger())
	pageSvc := NewPageService(pageRepo, folderRepo, linkSvc, testLogger())
	return pageRepo, folderRepo, linkRepo, pageSvc
}

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world!", "hello-world"},
		{"Hello World", "hello-world"},
		{"  spaced  out  ", "spaced-out"},
		{"already-clean", "already-clean"},
		{"a--b---c", "a-b-c"},
		{"--trim--", "trim"},
		{"???", ""},
		{"", ""},
		{"Ünïcode & Symbols!", "n-code-symbols"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeSlug(tt.in); got != tt.want {
				t.Errorf("NormalizeSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPageServicePublish(t *testing.T) {
	pageRepo, _, _, svc := newPageFixture()
	putPage(pageRepo, "p1", "u1", nil)
	putPage(pageRepo, "p2", "u1", nil)

	page, err := svc.Publish(context.Background(), "p1", "u1", "My First Post!")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !page.IsPublished {
		t.Error("Publish() did not set published flag")
	}
	if page.Slug == nil || *page.Slug != "my-first-post" {
		t.Errorf("Publish() slug = %v, want my-first-post", page.Slug)
	}
	if page.PublishedAt == nil {
		t.Error("Publish() did not set published_at")
	}

	// Same slug on another page conflicts.
	if _, err := svc.Publish(context.Background(), "p2", "u1", "my first post"); !errors.Is(err, domain.ErrSlugTaken) {
		t.Errorf("Publish() duplicate slug error = %v, want ErrSlugTaken", err)
	}

	// Republish of the same page with its own slug is fine.
	if _, err := svc.Publish(context.Background(), "p1", "u1", "my-first-post"); err != nil {
		t.Errorf("Publish() republish error = %v", err)
	}

	// Slug that normalizes to nothing.
	if _, err := svc.Publish(context.Background(), "p2", "u1", "!!!"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Publish() empty slug error = %v, want ErrValidation", err)
	}
}

func TestPageServiceUnpublishKeepsSlug(t *testing.T) {
	pageRepo, _, _, svc := newPageFixture()
	putPage(pageRepo, "p1", "u1", nil)

	if _, err := svc.Publish(context.Background(), "p1", "u1", "keeper"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	page, err := svc.Unpublish(context.Background(), "p1", "u1")
	if err != nil {
		t.Fatalf("Unpublish() error = %v", err)
	}
	if page.IsPublished {
		t.Error("Unpublish() left published flag set")
	}
	if page.PublishedAt != nil {
		t.Error("Unpublish() left published_at set")
	}
	if page.Slug == nil || *page.Slug != "keeper" {
		t.Error("Unpublish() cleared the slug; it should stay reserved")
	}
}

func TestPageServiceGetVisibility(t *testing.T) {
	pageRepo, _, _, svc := newPageFixture()
	putPage(pageRepo, "p1", "u1", nil)

	// Owner sees the unpublished page.
	if _, err := svc.Get(context.Background(), "p1", "u1"); err != nil {
		t.Errorf("Get() owner error = %v", err)
	}

	// Non-owner and anonymous do not.
	if _, err := svc.Get(context.Background(), "p1", "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(context.Background(), "p1", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() anonymous error = %v, want ErrNotFound", err)
	}

	// Published pages are visible to anyone.
	if _, err := svc.Publish(context.Background(), "p1", "u1", "open"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if _, err := svc.Get(context.Background(), "p1", "u2"); err != nil {
		t.Errorf("Get() published non-owner error = %v", err)
	}
}

func TestPageServiceUpdateReconcilesLinks(t *testing.T) {
	pageRepo, _, linkRepo, svc := newPageFixture()
	putPage(pageRepo, "p1", "u1", nil)
	putPage(pageRepo, "p2", "u1", nil)

	content := models.PageContent{
		"type": "doc",
		"content": []interface{}{
			map[string]interface{}{
				"type":  "pageLink",
				"attrs": map[string]interface{}{"pageId": "p2"},
			},
		},
	}

	if _, err := svc.Update(context.Background(), "p1", "u1", &services.UpdatePageRequest{Content: content}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	outgoing, _ := linkRepo.ListOutgoing(context.Background(), "p1")
	if len(outgoing) != 1 || outgoing[0].ToPageID != "p2" {
		t.Fatalf("Update() outgoing links = %v, want single edge to p2", outgoing)
	}

	// Replacing the content with no references drops the edge.
	empty := models.PageContent{"type": "doc", "content": []interface{}{}}
	if _, err := svc.Update(context.Background(), "p1", "u1", &services.UpdatePageRequest{Content: empty}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	outgoing, _ = linkRepo.ListOutgoing(context.Background(), "p1")
	if len(outgoing) != 0 {
		t.Errorf("Update() left %d stale links", len(outgoing))
	}
}

func TestPageServiceUpdateValidation(t *testing.T) {
	pageRepo, folderRepo, _, svc := newPageFixture()
	putPage(pageRepo, "p1", "u1", nil)
	putFolder(folderRepo, "f-foreign", "u2", nil)

	// Empty request.
	if _, err := svc.Update(context.Background(), "p1", "u1", &services.UpdatePageRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update() empty request error = %v, want ErrValidation", err)
	}

	// Foreign folder reads as not found.
	req := &services.UpdatePageRequest{FolderID: optionalString(strPtr("f-foreign"))}
	if _, err := svc.Update(context.Background(), "p1", "u1", req); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() foreign folder error = %v, want ErrNotFound", err)
	}

	// Foreign page conflates to not found.
	title := "new"
	if _, err := svc.Update(context.Background(), "p1", "u2", &services.UpdatePageRequest{Title: &title}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() foreign page error = %v, want ErrNotFound", err)
	}
}

func TestPageServiceCreateDefaultsContent(t *testing.T) {
	_, _, _, svc := newPageFixture()

	page, err := svc.Create(context.Background(), &services.CreatePageRequest{UserID: "u1", Title: "Blank"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if page.Content == nil {
		t.Error("Create() left content nil, want empty document")
	}
	if page.IsPublished {
		t.Error("Create() produced a published page")
	}
}
