// Package store is the local structured store for the finance tracker:
// SQLite-backed repositories for domain records, a key-value settings
// surface, persisted notifications, and whole-data-set snapshot
// export/import used by the backup engine.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmarifin/dompet/internal/store/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Store bundles the repositories over one SQLite database.
type Store struct {
	db *sql.DB

	Transactions  *TransactionRepository
	Categories    *CategoryRepository
	Budgets       *BudgetRepository
	Goals         *GoalRepository
	Recurring     *RecurringRepository
	Settings      *SettingsRepository
	Notifications *NotificationRepository
	Snapshots     *SnapshotStore
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite database at dsn, applies
// migrations, and returns the repository bundle.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:            db,
		Transactions:  NewTransactionRepository(db),
		Categories:    NewCategoryRepository(db),
		Budgets:       NewBudgetRepository(db),
		Goals:         NewGoalRepository(db),
		Recurring:     NewRecurringRepository(db),
		Settings:      NewSettingsRepository(db),
		Notifications: NewNotificationRepository(db),
		Snapshots:     NewSnapshotStore(db),
	}, nil
}

// DB exposes the underlying handle for callers that need raw access (tests).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
