package store

import (
	"context"
	"fmt"

	"github.com/dmarifin/dompet/internal/dbx"
)

// CategoryRepository stores transaction categories.
type CategoryRepository struct {
	db dbx.DBTX
}

func NewCategoryRepository(db dbx.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CreateOrUpdate upserts a category by id.
func (r *CategoryRepository) CreateOrUpdate(ctx context.Context, c *Category) error {
	query := `INSERT INTO categories (id, name, type, icon)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			type = excluded.type,
			icon = excluded.icon`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, string(c.Type), c.Icon)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

// All returns every category ordered by name.
func (r *CategoryRepository) All(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, icon FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var (
			item Category
			typ  string
		)
		if err := rows.Scan(&item.ID, &item.Name, &typ, &item.Icon); err != nil {
			return nil, err
		}
		item.Type = TransactionType(typ)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Purge deletes all categories.
func (r *CategoryRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to purge categories: %w", err)
	}
	return nil
}
