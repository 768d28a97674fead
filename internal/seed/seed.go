package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
)

// Fixture describes a workspace to seed: a folder tree with pages, plus
// explicit links between pages referenced by title.
type Fixture struct {
	UserID  string       `yaml:"user_id"`
	Folders []FolderSpec `yaml:"folders"`
	Pages   []PageSpec   `yaml:"pages"`
}

// FolderSpec is a folder with nested subfolders and pages.
type FolderSpec struct {
	Name    string       `yaml:"name"`
	Folders []FolderSpec `yaml:"folders"`
	Pages   []PageSpec   `yaml:"pages"`
}

// PageSpec is a page with plain-text body, an optional publish slug, and
// titles of pages it should link to.
type PageSpec struct {
	Title   string   `yaml:"title"`
	Text    string   `yaml:"text"`
	Publish string   `yaml:"publish"`
	LinksTo []string `yaml:"links_to"`
}

// Load reads a fixture from a YAML file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if fixture.UserID == "" {
		return nil, fmt.Errorf("fixture missing user_id")
	}

	return &fixture, nil
}

// Seeder replays a fixture through the service layer so every invariant
// (ownership, acyclicity, slug uniqueness, link reconciliation) applies to
// seeded data exactly as it would to API traffic.
type Seeder struct {
	folders services.FolderService
	pages   services.PageService
	links   services.LinkService
	logger  *slog.Logger

	pagesByTitle map[string]string
}

// NewSeeder creates a seeder over the given services.
func NewSeeder(
	folders services.FolderService,
	pages services.PageService,
	links services.LinkService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		folders:      folders,
		pages:        pages,
		links:        links,
		logger:       logger,
		pagesByTitle: make(map[string]string),
	}
}

// Apply creates the fixture's folders and pages, then wires the explicit
// links in a second pass once every target page exists.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) error {
	var linkSpecs []pendingLink

	for _, folder := range fixture.Folders {
		if err := s.applyFolder(ctx, fixture.UserID, &folder, nil, &linkSpecs); err != nil {
			return err
		}
	}
	for _, page := range fixture.Pages {
		if err := s.applyPage(ctx, fixture.UserID, &page, nil, &linkSpecs); err != nil {
			return err
		}
	}

	for _, pending := range linkSpecs {
		targetID, ok := s.pagesByTitle[pending.targetTitle]
		if !ok {
			s.logger.Warn("fixture links to unknown page", "from", pending.fromTitle, "to", pending.targetTitle)
			continue
		}
		if _, err := s.links.CreateLink(ctx, fixture.UserID, s.pagesByTitle[pending.fromTitle], targetID); err != nil {
			return fmt.Errorf("link %q -> %q: %w", pending.fromTitle, pending.targetTitle, err)
		}
	}

	return nil
}

type pendingLink struct {
	fromTitle   string
	targetTitle string
}

func (s *Seeder) applyFolder(ctx context.Context, userID string, spec *FolderSpec, parentID *string, linkSpecs *[]pendingLink) error {
	folder, err := s.folders.Create(ctx, &services.CreateFolderRequest{
		UserID:   userID,
		Name:     spec.Name,
		ParentID: parentID,
	})
	if err != nil {
		return fmt.Errorf("folder %q: %w", spec.Name, err)
	}
	s.logger.Info("seeded folder", "name", spec.Name, "folder_id", folder.ID)

	for _, sub := range spec.Folders {
		if err := s.applyFolder(ctx, userID, &sub, &folder.ID, linkSpecs); err != nil {
			return err
		}
	}
	for _, page := range spec.Pages {
		if err := s.applyPage(ctx, userID, &page, &folder.ID, linkSpecs); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) applyPage(ctx context.Context, userID string, spec *PageSpec, folderID *string, linkSpecs *[]pendingLink) error {
	page, err := s.pages.Create(ctx, &services.CreatePageRequest{
		UserID:   userID,
		Title:    spec.Title,
		FolderID: folderID,
		Content:  textContent(spec.Text),
	})
	if err != nil {
		return fmt.Errorf("page %q: %w", spec.Title, err)
	}
	s.pagesByTitle[spec.Title] = page.ID
	s.logger.Info("seeded page", "title", spec.Title, "page_id", page.ID)

	if spec.Publish != "" {
		if _, err := s.pages.Publish(ctx, page.ID, userID, spec.Publish); err != nil {
			return fmt.Errorf("publish %q: %w", spec.Title, err)
		}
	}

	for _, target := range spec.LinksTo {
		*linkSpecs = append(*linkSpecs, pendingLink{fromTitle: spec.Title, targetTitle: target})
	}

	return nil
}

// textContent wraps plain text in a minimal rich-text document.
func textContent(text string) models.PageContent {
	if text == "" {
		return models.PageContent{}
	}
	return models.PageContent{
		"type": "doc",
		"content": []interface{}{
			map[string]interface{}{
				"type": "paragraph",
				"content": []interface{}{
					map[string]interface{}{"type": "text", "text": text},
				},
			},
		},
	}
}
