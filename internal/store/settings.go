package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmarifin/dompet/internal/dbx"
)

// SettingsRepository is the loose key-value surface for user preferences
// (theme, language, PIN-enabled flag and so on). Values are stored as raw
// strings; interpretation is the caller's concern.
type SettingsRepository struct {
	db dbx.DBTX
}

func NewSettingsRepository(db dbx.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value for key. The second result reports whether the key
// was present; an absent key is not an error.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting[%s]: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a value under key.
func (r *SettingsRepository) Set(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting[%s]: %w", key, err)
	}
	return nil
}
