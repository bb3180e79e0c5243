// Package backup is the offline-first backup/restore engine. It captures
// the whole local data set plus a fixed set of user settings, writes them
// as one document to the remote store keyed by the signed-in user, and
// rehydrates a device from that document. Conflict policy is last-write-wins
// at whole-document granularity.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmarifin/dompet/internal/common"
	"github.com/dmarifin/dompet/internal/identity"
	"github.com/dmarifin/dompet/internal/logging"
	"github.com/dmarifin/dompet/internal/remote"
	"golang.org/x/sync/errgroup"
)

// FormatVersion tags the backup payload shape. Restore refuses documents
// written with a different tag instead of silently mis-parsing them.
const FormatVersion = "1"

// noBackupMessage is part of the result contract; the settings screen shows
// it verbatim.
const noBackupMessage = "No backup found for this account"

// Snapshotter is the capability the engine needs from the local store:
// export the whole domain data set as one opaque blob, and replace it from
// such a blob. The engine never looks inside the bytes.
type Snapshotter interface {
	ExportSnapshot(ctx context.Context) ([]byte, error)
	ImportSnapshot(ctx context.Context, blob []byte) error
}

// SettingsStore is the loose key-value surface settings are captured from
// and restored to.
type SettingsStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
}

// Result is what backup and restore hand back to the UI. Failures never
// escape as errors or panics; they are folded into Error.
type Result struct {
	Success   bool
	Timestamp time.Time
	Error     string
}

func failure(err error) Result {
	return Result{Error: err.Error()}
}

// Engine orchestrates snapshot capture, settings capture, the remote write
// and the reverse path. All collaborators are passed in explicitly so the
// engine is testable in isolation.
type Engine struct {
	snapshots Snapshotter
	settings  SettingsStore
	identity  identity.Provider
	remote    remote.Store
	log       logging.Logger
	device    string
	keys      []string

	now func() time.Time
}

// New builds an Engine. device is a free-text label recorded in the backup
// document (hostname, phone model, ...).
func New(snapshots Snapshotter, settings SettingsStore, idp identity.Provider,
	rs remote.Store, log logging.Logger, device string) *Engine {
	return &Engine{
		snapshots: snapshots,
		settings:  settings,
		identity:  idp,
		remote:    rs,
		log:       log,
		device:    device,
		keys:      SettingKeys(),
		now:       time.Now,
	}
}

func (e *Engine) currentUser(ctx context.Context) (*identity.User, error) {
	user, err := e.identity.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNotAuthenticated, err)
	}
	if user == nil {
		return nil, common.ErrNotAuthenticated
	}
	return user, nil
}

// collectSettings reads the enumerated setting keys concurrently and joins
// the results. Absent keys are omitted. Values that parse as JSON are kept
// as their decoded value; anything else is kept as the raw string. The whole
// phase fails if any single read fails (fail-fast via errgroup).
func (e *Engine) collectSettings(ctx context.Context) (map[string]any, error) {
	var mu sync.Mutex
	payload := make(map[string]any, len(e.keys))

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range e.keys {
		g.Go(func() error {
			value, found, err := e.settings.Get(gctx, key)
			if err != nil {
				return fmt.Errorf("reading setting %q: %w", key, err)
			}
			if !found {
				return nil
			}

			var decoded any
			if err := json.Unmarshal([]byte(value), &decoded); err != nil {
				decoded = value
			}

			mu.Lock()
			payload[key] = decoded
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Backup captures the local data set and settings and fully replaces the
// user's remote backup document. Exactly one remote write happens on the
// happy path, and nothing local is mutated.
//
// Snapshot capture and settings capture are not transactional with respect
// to concurrent local writes; a write landing between the two reads may be
// reflected in only one half. Accepted limitation.
func (e *Engine) Backup(ctx context.Context) Result {
	user, err := e.currentUser(ctx)
	if err != nil {
		return failure(err)
	}

	snapshot, err := e.snapshots.ExportSnapshot(ctx)
	if err != nil {
		return failure(fmt.Errorf("exporting snapshot: %w", err))
	}

	settings, err := e.collectSettings(ctx)
	if err != nil {
		return failure(err)
	}
	settingsData, err := json.Marshal(settings)
	if err != nil {
		return failure(fmt.Errorf("encoding settings: %w", err))
	}

	doc := &remote.Document{
		BackupData:   string(snapshot),
		SettingsData: string(settingsData),
		Device:       e.device,
		Email:        user.Email,
		Version:      FormatVersion,
	}

	writeTime, err := e.remote.Put(ctx, user.ID, doc)
	if err != nil {
		return failure(fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err))
	}
	if writeTime.IsZero() {
		// Some backends cannot report the server timestamp right after the
		// write; fall back to the local clock.
		writeTime = e.now()
	}

	e.log.Info(ctx, "backup completed", "user", user.ID, "bytes", len(snapshot))
	return Result{Success: true, Timestamp: writeTime}
}

// Restore fetches the user's backup document and rehydrates the local store.
// The snapshot import is a destructive full replace. Settings are written
// back concurrently with no cross-key ordering. The two phases are not
// rolled back together: a failure after the snapshot import leaves settings
// untouched but the domain data already replaced. Accepted limitation;
// the failing phase is named in the result error.
func (e *Engine) Restore(ctx context.Context) Result {
	user, err := e.currentUser(ctx)
	if err != nil {
		return failure(err)
	}

	doc, err := e.remote.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return Result{Error: noBackupMessage}
		}
		return failure(fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err))
	}

	if doc.Version != FormatVersion {
		return failure(fmt.Errorf("%w: unsupported backup format version %q (want %q)",
			common.ErrMalformedPayload, doc.Version, FormatVersion))
	}

	if doc.BackupData != "" {
		if err := e.snapshots.ImportSnapshot(ctx, []byte(doc.BackupData)); err != nil {
			return failure(fmt.Errorf("restoring snapshot: %w", err))
		}
	}

	if doc.SettingsData != "" {
		if err := e.restoreSettings(ctx, doc.SettingsData); err != nil {
			return failure(fmt.Errorf("restoring settings: %w", err))
		}
	}

	ts := doc.UpdatedAt
	if ts.IsZero() {
		ts = e.now()
	}

	e.log.Info(ctx, "restore completed", "user", user.ID, "backupTime", ts)
	return Result{Success: true, Timestamp: ts}
}

func (e *Engine) restoreSettings(ctx context.Context, data string) error {
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedPayload, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for key, value := range payload {
		g.Go(func() error {
			var raw string
			if s, ok := value.(string); ok {
				// Raw strings round-trip as-is; re-encoding would add quotes.
				raw = s
			} else {
				b, err := json.Marshal(value)
				if err != nil {
					return fmt.Errorf("encoding setting %q: %w", key, err)
				}
				raw = string(b)
			}
			if err := e.settings.Set(gctx, key, raw); err != nil {
				return fmt.Errorf("%w: writing setting %q: %v", common.ErrLocalPersist, key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// LastBackupInfo returns the remote document's write time for display, or
// nil when nobody is signed in, no backup exists, or the lookup fails.
// It never returns an error; problems degrade to a logged diagnostic.
func (e *Engine) LastBackupInfo(ctx context.Context) *time.Time {
	user, err := e.identity.CurrentUser(ctx)
	if err != nil || user == nil {
		return nil
	}

	doc, err := e.remote.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, remote.ErrNotFound) {
			e.log.Warn(ctx, "last backup lookup failed", "user", user.ID, "error", err)
		}
		return nil
	}
	if doc.UpdatedAt.IsZero() {
		return nil
	}

	ts := doc.UpdatedAt
	return &ts
}
