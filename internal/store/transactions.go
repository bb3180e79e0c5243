package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarifin/dompet/internal/dbx"
	"github.com/shopspring/decimal"
)

// TransactionRepository stores posted transactions in SQLite.
// Timestamps are persisted as RFC 3339 text and amounts as decimal text,
// keeping the schema portable across drivers.
type TransactionRepository struct {
	db dbx.DBTX
}

// NewTransactionRepository binds a repository to the given DBTX.
func NewTransactionRepository(db dbx.DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateOrUpdate upserts a transaction by id.
func (r *TransactionRepository) CreateOrUpdate(ctx context.Context, t *Transaction) error {
	query := `INSERT INTO transactions (id, type, category_id, amount, note, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET type = excluded.type,
			category_id = excluded.category_id,
			amount = excluded.amount,
			note = excluded.note,
			date = excluded.date`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, string(t.Type), t.CategoryID, t.Amount.String(), t.Note,
		t.Date.Format(time.RFC3339Nano), t.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return nil
}

// All returns every transaction ordered by date.
func (r *TransactionRepository) All(ctx context.Context) ([]Transaction, error) {
	query := `SELECT id, type, category_id, amount, note, date, created_at
		FROM transactions ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		var (
			item                  Transaction
			typ, amount, date, at string
		)
		if err := rows.Scan(&item.ID, &typ, &item.CategoryID, &amount, &item.Note, &date, &at); err != nil {
			return nil, err
		}
		item.Type = TransactionType(typ)
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("bad amount for transaction %s: %w", item.ID, err)
		}
		if item.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("bad date for transaction %s: %w", item.ID, err)
		}
		if item.CreatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("bad created_at for transaction %s: %w", item.ID, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Purge deletes all transactions. Used by the snapshot import full replace.
func (r *TransactionRepository) Purge(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to purge transactions: %w", err)
	}
	return nil
}
