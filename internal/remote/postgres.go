package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmarifin/dompet/internal/remote/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps backup documents in a backup_documents table, one row
// per user id. updated_at is assigned by the database on every write, which
// makes it a true server timestamp.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL and applies the embedded
// migrations for the backup_documents table.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Get returns the backup document row for userID.
func (s *PostgresStore) Get(ctx context.Context, userID string) (*Document, error) {
	query := `SELECT backup_data, settings_data, device, email, version, updated_at
		FROM backup_documents WHERE user_id = $1`

	doc := &Document{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&doc.BackupData, &doc.SettingsData, &doc.Device, &doc.Email, &doc.Version, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting backup document: %w", err)
	}
	return doc, nil
}

// Put upserts the row for userID, replacing every field and refreshing
// updated_at with the database clock.
func (s *PostgresStore) Put(ctx context.Context, userID string, doc *Document) (time.Time, error) {
	query := `INSERT INTO backup_documents (user_id, backup_data, settings_data, device, email, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET backup_data = excluded.backup_data,
			settings_data = excluded.settings_data,
			device = excluded.device,
			email = excluded.email,
			version = excluded.version,
			updated_at = now()
		RETURNING updated_at`

	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, query,
		userID, doc.BackupData, doc.SettingsData, doc.Device, doc.Email, doc.Version).Scan(&updatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("upserting backup document: %w", err)
	}
	return updatedAt, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
