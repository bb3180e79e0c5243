package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarifin/dompet/internal/dbx"
	"github.com/shopspring/decimal"
)

// RecurringRepository stores recurring transaction rules. The due-date
// scheduler that evaluates them lives outside this module; this repository
// only persists the definitions.
type RecurringRepository struct {
	db dbx.DBTX
}

func NewRecurringRepository(db dbx.DBTX) *RecurringRepository {
	return &RecurringRepository{db: db}
}

// CreateOrUpdate upserts a recurring rule by id.
func (r *RecurringRepository) CreateOrUpdate(ctx context.Context, rule *RecurringRule) error {
	query := `INSERT INTO recurring_rules (id, type, amount, description, frequency, next_due)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET type = excluded.type,
			amount = excluded.amount,
			description = excluded.description,
			frequency = excluded.frequency,
			next_due = excluded.next_due`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, string(rule.Type), rule.Amount.String(), rule.Description,
		rule.Frequency, rule.NextDue.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert recurring rule: %w", err)
	}
	return nil
}

// All returns every recurring rule ordered by next due date.
func (r *RecurringRepository) All(ctx context.Context) ([]RecurringRule, error) {
	query := `SELECT id, type, amount, description, frequency, next_due
		FROM recurring_rules ORDER BY next_due`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select recurring rules: %w", err)
	}
	defer rows.Close()

	var result []RecurringRule
	for rows.Next() {
		var (
			item                 RecurringRule
			typ, amount, nextDue string
		)
		if err := rows.Scan(&item.ID, &typ, &amount, &item.Description, &item.Frequency, &nextDue); err != nil {
			return nil, err
		}
		item.Type = TransactionType(typ)
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for recurring rule %s: %w", item.ID, err)
		}
		if item.NextDue, err = time.Parse(time.RFC3339Nano, nextDue); err != nil {
			return nil, fmt.Errorf("bad next_due for recurring rule %s: %w", item.ID, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Purge deletes all recurring rules.
func (r *RecurringRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurring_rules`); err != nil {
		return fmt.Errorf("failed to purge recurring rules: %w", err)
	}
	return nil
}
