package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmarifin/dompet/internal/dbx"
)

// snapshotSchema tags the snapshot blob shape. Bump when the payload below
// changes incompatibly.
const snapshotSchema = 1

// snapshotPayload is the on-the-wire shape of a full domain snapshot.
// Only this package knows it; the sync engine sees opaque bytes.
type snapshotPayload struct {
	Schema       int             `json:"schema"`
	Transactions []Transaction   `json:"transactions"`
	Categories   []Category      `json:"categories"`
	Budgets      []Budget        `json:"budgets"`
	Goals        []Goal          `json:"goals"`
	Recurring    []RecurringRule `json:"recurring"`
}

// SnapshotStore serializes the whole domain data set into a single blob and
// restores it. Import is a destructive full replace, not a merge.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// ExportSnapshot reads all domain tables and serializes them into one JSON
// blob. The read is not transactional with concurrent writers; callers accept
// a point-in-time-ish copy.
func (s *SnapshotStore) ExportSnapshot(ctx context.Context) ([]byte, error) {
	p := snapshotPayload{Schema: snapshotSchema}

	var err error
	if p.Transactions, err = NewTransactionRepository(s.db).All(ctx); err != nil {
		return nil, fmt.Errorf("exporting transactions: %w", err)
	}
	if p.Categories, err = NewCategoryRepository(s.db).All(ctx); err != nil {
		return nil, fmt.Errorf("exporting categories: %w", err)
	}
	if p.Budgets, err = NewBudgetRepository(s.db).All(ctx); err != nil {
		return nil, fmt.Errorf("exporting budgets: %w", err)
	}
	if p.Goals, err = NewGoalRepository(s.db).All(ctx); err != nil {
		return nil, fmt.Errorf("exporting goals: %w", err)
	}
	if p.Recurring, err = NewRecurringRepository(s.db).All(ctx); err != nil {
		return nil, fmt.Errorf("exporting recurring rules: %w", err)
	}

	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return b, nil
}

// ImportSnapshot replaces all local domain data with the snapshot contents.
// The whole replace runs in one transaction, so a failed import leaves the
// previous data intact.
func (s *SnapshotStore) ImportSnapshot(ctx context.Context, blob []byte) error {
	var p snapshotPayload
	if err := json.Unmarshal(blob, &p); err != nil {
		return fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	if p.Schema != snapshotSchema {
		return fmt.Errorf("unsupported snapshot schema %d (want %d)", p.Schema, snapshotSchema)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		transactions := NewTransactionRepository(tx)
		categories := NewCategoryRepository(tx)
		budgets := NewBudgetRepository(tx)
		goals := NewGoalRepository(tx)
		recurring := NewRecurringRepository(tx)

		for _, purge := range []func(context.Context) error{
			transactions.Purge, categories.Purge, budgets.Purge, goals.Purge, recurring.Purge,
		} {
			if err := purge(ctx); err != nil {
				return err
			}
		}

		for i := range p.Categories {
			if err := categories.CreateOrUpdate(ctx, &p.Categories[i]); err != nil {
				return err
			}
		}
		for i := range p.Transactions {
			if err := transactions.CreateOrUpdate(ctx, &p.Transactions[i]); err != nil {
				return err
			}
		}
		for i := range p.Budgets {
			if err := budgets.CreateOrUpdate(ctx, &p.Budgets[i]); err != nil {
				return err
			}
		}
		for i := range p.Goals {
			if err := goals.CreateOrUpdate(ctx, &p.Goals[i]); err != nil {
				return err
			}
		}
		for i := range p.Recurring {
			if err := recurring.CreateOrUpdate(ctx, &p.Recurring[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
