// Package remote defines the per-user backup document and the storage
// backends that hold it. Exactly one document exists per user id; writes
// always replace the whole document (last-write-wins, no field merge).
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no backup document exists for the user.
var ErrNotFound = errors.New("backup document not found")

// Document is the single mutable backup record kept per user identity.
// BackupData and SettingsData are independently parseable JSON documents
// stored as strings; this package never looks inside them.
type Document struct {
	BackupData   string    `json:"backupData"`
	SettingsData string    `json:"settingsData"`
	Device       string    `json:"device"`
	Email        string    `json:"email"`
	Version      string    `json:"version"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// Store is a remote document store keyed by user id.
//
// Put fully replaces any prior document and returns the server-assigned
// write time. Backends that cannot report the write time immediately return
// the zero time; callers must tolerate that and fall back to their own clock.
type Store interface {
	Get(ctx context.Context, userID string) (*Document, error)
	Put(ctx context.Context, userID string, doc *Document) (time.Time, error)
}
