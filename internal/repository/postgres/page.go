package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresPageRepository implements the PageRepository interface.
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageRepository creates a new page repository.
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const pageColumns = "id, user_id, folder_id, title, content, is_published, slug, published_at, created_at, updated_at"

// Create inserts a page with the caller-supplied id and timestamps.
func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Pages, pageColumns)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		page.ID,
		page.UserID,
		page.FolderID,
		page.Title,
		page.Content,
		page.IsPublished,
		page.Slug,
		page.PublishedAt,
		page.CreatedAt,
		page.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("page %s already exists: %w", page.ID, err)
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

// GetByID retrieves a page by id regardless of owner or publish state.
func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, pageColumns, r.tables.Pages)

	page, err := r.scanPage(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}

	return page, nil
}

// GetBySlug retrieves a published page by slug.
func (r *PostgresPageRepository) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE slug = $1 AND is_published = TRUE
	`, pageColumns, r.tables.Pages)

	page, err := r.scanPage(GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page with slug %q: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page by slug: %w", err)
	}

	return page, nil
}

// ListByUser lists a user's pages, most recently updated first. The search
// filter matches case-insensitively over title and serialized content.
func (r *PostgresPageRepository) ListByUser(ctx context.Context, userID string, filters repositories.PageFilters) ([]models.Page, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
	`, pageColumns, r.tables.Pages)
	args := []interface{}{userID}

	if filters.FolderID != nil {
		args = append(args, *filters.FolderID)
		query += fmt.Sprintf(" AND folder_id = $%d", len(args))
	} else if filters.RootOnly {
		query += " AND folder_id IS NULL"
	}

	if filters.Published != nil {
		args = append(args, *filters.Published)
		query += fmt.Sprintf(" AND is_published = $%d", len(args))
	}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR content::text ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY updated_at DESC"

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		page, err := r.scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}

	return pages, nil
}

// Update persists all mutable fields.
func (r *PostgresPageRepository) Update(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, title = $2, content = $3, is_published = $4,
		    slug = $5, published_at = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Pages)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		page.FolderID,
		page.Title,
		page.Content,
		page.IsPublished,
		page.Slug,
		page.PublishedAt,
		page.UpdatedAt,
		page.ID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("slug %v: %w", page.Slug, domain.ErrSlugTaken)
		}
		return fmt.Errorf("update page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", page.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a page row.
func (r *PostgresPageRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Pages)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IsSlugTaken reports whether any page other than excludeID holds slug.
// Slugs are globally unique, not per user.
func (r *PostgresPageRepository) IsSlugTaken(ctx context.Context, slug string, excludeID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE slug = $1 AND id != $2
	`, r.tables.Pages)

	var count int
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresPageRepository) scanPage(row rowScanner) (*models.Page, error) {
	var page models.Page
	err := row.Scan(
		&page.ID,
		&page.UserID,
		&page.FolderID,
		&page.Title,
		&page.Content,
		&page.IsPublished,
		&page.Slug,
		&page.PublishedAt,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
