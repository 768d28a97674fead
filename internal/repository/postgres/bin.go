package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresBinRepository implements the BinRepository interface.
type PostgresBinRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBinRepository creates a new bin repository.
func NewBinRepository(config *RepositoryConfig) repositories.BinRepository {
	return &PostgresBinRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a bin item.
func (r *PostgresBinRepository) Create(ctx context.Context, item *models.BinItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, item_type, item_id, item_data, deleted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.BinItems)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ID,
		item.UserID,
		item.ItemType,
		item.ItemID,
		item.ItemData,
		item.DeletedAt,
		item.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("create bin item: %w", err)
	}

	return nil
}

// GetByID retrieves a bin item by id.
func (r *PostgresBinRepository) GetByID(ctx context.Context, id string) (*models.BinItem, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, item_type, item_id, item_data, deleted_at, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.BinItems)

	var item models.BinItem
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.ItemType,
		&item.ItemID,
		&item.ItemData,
		&item.DeletedAt,
		&item.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("bin item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get bin item: %w", err)
	}

	return &item, nil
}

// ListByUser lists a user's bin items, most recently deleted first.
func (r *PostgresBinRepository) ListByUser(ctx context.Context, userID string) ([]models.BinItem, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, item_type, item_id, item_data, deleted_at, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY deleted_at DESC
	`, r.tables.BinItems)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bin items: %w", err)
	}
	defer rows.Close()

	var items []models.BinItem
	for rows.Next() {
		var item models.BinItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ItemType,
			&item.ItemID,
			&item.ItemData,
			&item.DeletedAt,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bin item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bin items: %w", err)
	}

	return items, nil
}

// Delete removes a bin item; reports whether a row was removed.
func (r *PostgresBinRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.BinItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete bin item: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteAllByUser empties a user's bin.
func (r *PostgresBinRepository) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1
	`, r.tables.BinItems)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("empty bin: %w", err)
	}

	return result.RowsAffected(), nil
}
