package store

import (
	"context"
	"fmt"

	"github.com/dmarifin/dompet/internal/dbx"
	"github.com/shopspring/decimal"
)

// BudgetRepository stores monthly per-category budgets.
type BudgetRepository struct {
	db dbx.DBTX
}

func NewBudgetRepository(db dbx.DBTX) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// CreateOrUpdate upserts a budget by id.
func (r *BudgetRepository) CreateOrUpdate(ctx context.Context, b *Budget) error {
	query := `INSERT INTO budgets (id, category_id, amount, month)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET category_id = excluded.category_id,
			amount = excluded.amount,
			month = excluded.month`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.CategoryID, b.Amount.String(), b.Month)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

// All returns every budget ordered by month.
func (r *BudgetRepository) All(ctx context.Context) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category_id, amount, month FROM budgets ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("failed to select budgets: %w", err)
	}
	defer rows.Close()

	var result []Budget
	for rows.Next() {
		var (
			item   Budget
			amount string
		)
		if err := rows.Scan(&item.ID, &item.CategoryID, &amount, &item.Month); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for budget %s: %w", item.ID, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Purge deletes all budgets.
func (r *BudgetRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("failed to purge budgets: %w", err)
	}
	return nil
}
