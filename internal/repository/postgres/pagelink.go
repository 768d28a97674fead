package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresPageLinkRepository implements the PageLinkRepository interface.
type PostgresPageLinkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageLinkRepository creates a new page link repository.
func NewPageLinkRepository(config *RepositoryConfig) repositories.PageLinkRepository {
	return &PostgresPageLinkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts an edge; an existing (from, to) pair is left untouched.
func (r *PostgresPageLinkRepository) Create(ctx context.Context, link *models.PageLink) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, from_page_id, to_page_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (from_page_id, to_page_id) DO NOTHING
	`, r.tables.PageLinks)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		link.ID,
		link.FromPageID,
		link.ToPageID,
		link.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("create page link: %w", err)
	}

	return nil
}

// ListOutgoing lists edges originating at the page.
func (r *PostgresPageLinkRepository) ListOutgoing(ctx context.Context, fromPageID string) ([]models.PageLink, error) {
	query := fmt.Sprintf(`
		SELECT id, from_page_id, to_page_id, created_at
		FROM %s
		WHERE from_page_id = $1
		ORDER BY created_at DESC
	`, r.tables.PageLinks)

	return r.queryLinks(ctx, query, fromPageID)
}

// ListIncoming lists edges pointing at the page.
func (r *PostgresPageLinkRepository) ListIncoming(ctx context.Context, toPageID string) ([]models.PageLink, error) {
	query := fmt.Sprintf(`
		SELECT id, from_page_id, to_page_id, created_at
		FROM %s
		WHERE to_page_id = $1
		ORDER BY created_at DESC
	`, r.tables.PageLinks)

	return r.queryLinks(ctx, query, toPageID)
}

// ListByPage lists every edge where the page is source or target.
func (r *PostgresPageLinkRepository) ListByPage(ctx context.Context, pageID string) ([]models.PageLink, error) {
	query := fmt.Sprintf(`
		SELECT id, from_page_id, to_page_id, created_at
		FROM %s
		WHERE from_page_id = $1 OR to_page_id = $1
		ORDER BY created_at DESC
	`, r.tables.PageLinks)

	return r.queryLinks(ctx, query, pageID)
}

// DeleteByPage removes every edge touching the page.
func (r *PostgresPageLinkRepository) DeleteByPage(ctx context.Context, pageID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE from_page_id = $1 OR to_page_id = $1
	`, r.tables.PageLinks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, pageID); err != nil {
		return fmt.Errorf("delete page links: %w", err)
	}

	return nil
}

// DeleteBetween removes the (from, to) edge if present.
func (r *PostgresPageLinkRepository) DeleteBetween(ctx context.Context, fromPageID, toPageID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE from_page_id = $1 AND to_page_id = $2
	`, r.tables.PageLinks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, fromPageID, toPageID); err != nil {
		return fmt.Errorf("delete page link: %w", err)
	}

	return nil
}

func (r *PostgresPageLinkRepository) queryLinks(ctx context.Context, query string, args ...interface{}) ([]models.PageLink, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list page links: %w", err)
	}
	defer rows.Close()

	var links []models.PageLink
	for rows.Next() {
		var link models.PageLink
		err := rows.Scan(
			&link.ID,
			&link.FromPageID,
			&link.ToPageID,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan page link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page links: %w", err)
	}

	return links, nil
}
