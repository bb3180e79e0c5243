package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmarifin/dompet/internal/identity"
	"github.com/dmarifin/dompet/internal/logging"
	"github.com/dmarifin/dompet/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotter struct {
	data      []byte
	exportErr error
	importErr error
	imported  []byte
}

func (f *fakeSnapshotter) ExportSnapshot(ctx context.Context) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.data, nil
}

func (f *fakeSnapshotter) ImportSnapshot(ctx context.Context, blob []byte) error {
	if f.importErr != nil {
		return f.importErr
	}
	f.imported = blob
	return nil
}

type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func newFakeSettings(values map[string]string) *fakeSettings {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeSettings{values: values}
}

func (f *fakeSettings) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) Set(ctx context.Context, key string, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

type fakeRemote struct {
	docs     map[string]*remote.Document
	putTime  time.Time
	putErr   error
	getErr   error
	putCalls int
	getCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: map[string]*remote.Document{}}
}

func (f *fakeRemote) Get(ctx context.Context, userID string) (*remote.Document, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[userID]
	if !ok {
		return nil, remote.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeRemote) Put(ctx context.Context, userID string, doc *remote.Document) (time.Time, error) {
	f.putCalls++
	if f.putErr != nil {
		return time.Time{}, f.putErr
	}
	copied := *doc
	copied.UpdatedAt = f.putTime
	f.docs[userID] = &copied
	return f.putTime, nil
}

var testUser = &identity.User{ID: "user-1", Email: "budi@example.com"}

func newTestEngine(snap *fakeSnapshotter, settings *fakeSettings, idp identity.Provider, rs remote.Store) *Engine {
	log := logging.NewJSONLogger(io.Discard)
	return New(snap, settings, idp, rs, log, "test-device")
}

func TestBackup_Unauthenticated(t *testing.T) {
	rs := newFakeRemote()
	e := newTestEngine(&fakeSnapshotter{}, newFakeSettings(nil), &identity.StaticProvider{}, rs)

	res := e.Backup(context.Background())

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Zero(t, rs.putCalls)
	assert.Zero(t, rs.getCalls)
}

func TestRestore_Unauthenticated(t *testing.T) {
	rs := newFakeRemote()
	e := newTestEngine(&fakeSnapshotter{}, newFakeSettings(nil), &identity.StaticProvider{}, rs)

	res := e.Restore(context.Background())

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Zero(t, rs.getCalls)
}

func TestBackup_WritesFullDocument(t *testing.T) {
	snap := &fakeSnapshotter{data: []byte(`{"schema":1,"transactions":[]}`)}
	settings := newFakeSettings(map[string]string{
		"theme":       "dark",
		"pin_enabled": "true",
	})
	rs := newFakeRemote()
	rs.putTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	e := newTestEngine(snap, settings, &identity.StaticProvider{User: testUser}, rs)
	res := e.Backup(context.Background())

	require.True(t, res.Success, res.Error)
	assert.Equal(t, rs.putTime, res.Timestamp)
	require.Equal(t, 1, rs.putCalls)

	doc := rs.docs[testUser.ID]
	require.NotNil(t, doc)
	assert.Equal(t, string(snap.data), doc.BackupData)
	assert.Equal(t, "budi@example.com", doc.Email)
	assert.Equal(t, "test-device", doc.Device)
	assert.Equal(t, FormatVersion, doc.Version)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc.SettingsData), &payload))
	// Raw strings stay raw; JSON values are decoded; absent keys are omitted.
	assert.Equal(t, "dark", payload["theme"])
	assert.Equal(t, true, payload["pin_enabled"])
	_, ok := payload["currency"]
	assert.False(t, ok)
}

func TestBackup_SettingsReadFailureFailsWholeCall(t *testing.T) {
	settings := newFakeSettings(nil)
	settings.getErr = errors.New("disk on fire")
	rs := newFakeRemote()

	e := newTestEngine(&fakeSnapshotter{data: []byte("{}")}, settings,
		&identity.StaticProvider{User: testUser}, rs)
	res := e.Backup(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk on fire")
	assert.Zero(t, rs.putCalls)
}

func TestBackup_TimestampFallsBackToLocalClock(t *testing.T) {
	rs := newFakeRemote() // putTime stays zero
	e := newTestEngine(&fakeSnapshotter{data: []byte("{}")}, newFakeSettings(nil),
		&identity.StaticProvider{User: testUser}, rs)

	fixed := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	res := e.Backup(context.Background())

	require.True(t, res.Success, res.Error)
	assert.Equal(t, fixed, res.Timestamp)
}

func TestRestore_NoBackupFound(t *testing.T) {
	e := newTestEngine(&fakeSnapshotter{}, newFakeSettings(nil),
		&identity.StaticProvider{User: testUser}, newFakeRemote())

	res := e.Restore(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "No backup found for this account", res.Error)
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	snapshotBlob := []byte(`{"schema":1,"transactions":[{"id":"t1"}]}`)
	source := &fakeSnapshotter{data: snapshotBlob}
	sourceSettings := newFakeSettings(map[string]string{
		"theme":                 "dark",
		"language":              "id",
		"currency":              "IDR",
		"pin_enabled":           "true",
		"notifications_enabled": "false",
	})
	rs := newFakeRemote()
	rs.putTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	src := newTestEngine(source, sourceSettings, &identity.StaticProvider{User: testUser}, rs)
	require.True(t, src.Backup(ctx).Success)

	// Fresh device: empty snapshotter and settings, same remote and identity.
	target := &fakeSnapshotter{}
	targetSettings := newFakeSettings(nil)
	dst := newTestEngine(target, targetSettings, &identity.StaticProvider{User: testUser}, rs)

	res := dst.Restore(ctx)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, rs.putTime, res.Timestamp)

	assert.Equal(t, snapshotBlob, target.imported)
	assert.Equal(t, sourceSettings.values, targetSettings.values)
}

func TestBackup_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	rs := newFakeRemote()

	snap := &fakeSnapshotter{data: []byte(`{"gen":"first"}`)}
	e := newTestEngine(snap, newFakeSettings(nil), &identity.StaticProvider{User: testUser}, rs)

	require.True(t, e.Backup(ctx).Success)
	snap.data = []byte(`{"gen":"second"}`)
	require.True(t, e.Backup(ctx).Success)

	require.Len(t, rs.docs, 1)
	assert.Equal(t, `{"gen":"second"}`, rs.docs[testUser.ID].BackupData)
	assert.Equal(t, 2, rs.putCalls)
}

func TestRestore_RejectsUnknownFormatVersion(t *testing.T) {
	rs := newFakeRemote()
	rs.docs[testUser.ID] = &remote.Document{
		BackupData: `{}`,
		Version:    "99",
	}

	target := &fakeSnapshotter{}
	e := newTestEngine(target, newFakeSettings(nil), &identity.StaticProvider{User: testUser}, rs)
	res := e.Restore(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unsupported backup format version")
	assert.Nil(t, target.imported)
}

func TestRestore_SnapshotImportFailureNamesPhase(t *testing.T) {
	rs := newFakeRemote()
	rs.docs[testUser.ID] = &remote.Document{
		BackupData:   `{"schema":1}`,
		SettingsData: `{"theme":"dark"}`,
		Version:      FormatVersion,
	}

	settings := newFakeSettings(nil)
	e := newTestEngine(&fakeSnapshotter{importErr: errors.New("bad blob")}, settings,
		&identity.StaticProvider{User: testUser}, rs)
	res := e.Restore(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "restoring snapshot")
	// Settings phase never ran.
	assert.Empty(t, settings.values)
}

func TestRestore_MalformedSettingsPayload(t *testing.T) {
	rs := newFakeRemote()
	rs.docs[testUser.ID] = &remote.Document{
		SettingsData: `{not json`,
		Version:      FormatVersion,
	}

	e := newTestEngine(&fakeSnapshotter{}, newFakeSettings(nil),
		&identity.StaticProvider{User: testUser}, rs)
	res := e.Restore(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "restoring settings")
}

func TestRestore_TimestampFallsBackWhenServerTimeUnset(t *testing.T) {
	rs := newFakeRemote()
	rs.docs[testUser.ID] = &remote.Document{Version: FormatVersion}

	e := newTestEngine(&fakeSnapshotter{}, newFakeSettings(nil),
		&identity.StaticProvider{User: testUser}, rs)
	fixed := time.Date(2026, 7, 8, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	res := e.Restore(context.Background())

	require.True(t, res.Success, res.Error)
	assert.Equal(t, fixed, res.Timestamp)
}

func TestLastBackupInfo(t *testing.T) {
	ctx := context.Background()
	updated := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		name string
		idp  identity.Provider
		prep func(rs *fakeRemote)
		want *time.Time
	}{
		{
			name: "no identity",
			idp:  &identity.StaticProvider{},
			prep: func(rs *fakeRemote) {},
			want: nil,
		},
		{
			name: "no backup",
			idp:  &identity.StaticProvider{User: testUser},
			prep: func(rs *fakeRemote) {},
			want: nil,
		},
		{
			name: "remote failure degrades to nil",
			idp:  &identity.StaticProvider{User: testUser},
			prep: func(rs *fakeRemote) { rs.getErr = errors.New("network down") },
			want: nil,
		},
		{
			name: "backup present",
			idp:  &identity.StaticProvider{User: testUser},
			prep: func(rs *fakeRemote) {
				rs.docs[testUser.ID] = &remote.Document{Version: FormatVersion, UpdatedAt: updated}
			},
			want: &updated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := newFakeRemote()
			tt.prep(rs)
			e := newTestEngine(&fakeSnapshotter{}, newFakeSettings(nil), tt.idp, rs)
			assert.Equal(t, tt.want, e.LastBackupInfo(ctx))
		})
	}
}
