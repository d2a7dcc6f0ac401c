package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	uploads []string
	fail    bool
}

func (f *fakeRemote) UploadByName(_ context.Context, _ string, payload []byte) error {
	if f.fail {
		return errors.New("auth expired")
	}
	f.uploads = append(f.uploads, string(payload))
	return nil
}

func newTestBackup(t *testing.T, remote RemoteStore, cfg BackupConfig) (*BackupService, *storage.Persistence) {
	t.Helper()
	primary, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	store := storage.NewPersistence("test", primary, nil)
	b := NewBackupService(NewSnapshotService(store), remote, cfg)
	store.SetDirtyObserver(b.MarkDirty)
	return b, store
}

func TestRunOnce_NoOpWhenClean(t *testing.T) {
	remote := &fakeRemote{}
	b, _ := newTestBackup(t, remote, BackupConfig{Interval: time.Millisecond})

	require.NoError(t, b.RunOnce(context.Background()))
	assert.Empty(t, remote.uploads)
}

func TestRunOnce_UploadsAutoSnapshotWhenDirty(t *testing.T) {
	remote := &fakeRemote{}
	b, store := newTestBackup(t, remote, BackupConfig{Interval: time.Millisecond})

	require.NoError(t, store.Save("bought", []models.InventoryItem{{ID: "1", Name: "camera"}}))

	require.NoError(t, b.RunOnce(context.Background()))
	require.Len(t, remote.uploads, 1)

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal([]byte(remote.uploads[0]), &snap))
	assert.True(t, snap.Auto)
	require.NotNil(t, snap.Bought)
	assert.Len(t, *snap.Bought, 1)
}

func TestRunOnce_ClearsDirtyFlagSoNextRunSkips(t *testing.T) {
	remote := &fakeRemote{}
	b, store := newTestBackup(t, remote, BackupConfig{Interval: time.Nanosecond})

	require.NoError(t, store.Save("cash", []models.CashEntry{}))
	require.NoError(t, b.RunOnce(context.Background()))
	require.NoError(t, b.RunOnce(context.Background()))

	assert.Len(t, remote.uploads, 1, "second run had nothing new to back up")
}

func TestRunOnce_FailureKeepsDirtyForRetry(t *testing.T) {
	remote := &fakeRemote{fail: true}
	b, store := newTestBackup(t, remote, BackupConfig{Interval: time.Nanosecond})

	require.NoError(t, store.Save("cash", []models.CashEntry{}))

	err := b.RunOnce(context.Background())
	require.ErrorIs(t, err, ErrExternalService)

	// The next trigger retries instead of considering the state clean.
	remote.fail = false
	require.NoError(t, b.RunOnce(context.Background()))
	assert.Len(t, remote.uploads, 1)
}

func TestRunOnce_RespectsDebounceWindow(t *testing.T) {
	remote := &fakeRemote{}
	b, store := newTestBackup(t, remote, BackupConfig{Interval: time.Nanosecond, Debounce: time.Hour})

	require.NoError(t, store.Save("cash", []models.CashEntry{}))

	require.NoError(t, b.RunOnce(context.Background()))
	assert.Empty(t, remote.uploads, "edits have not settled yet")
}

func TestRunOnce_RespectsInterval(t *testing.T) {
	remote := &fakeRemote{}
	b, store := newTestBackup(t, remote, BackupConfig{Interval: time.Hour})

	require.NoError(t, store.Save("cash", []models.CashEntry{}))
	require.NoError(t, b.RunOnce(context.Background()))
	require.Len(t, remote.uploads, 1)

	// A fresh edit right after a backup must wait out the interval.
	require.NoError(t, store.Save("cash", []models.CashEntry{{ID: "1"}}))
	require.NoError(t, b.RunOnce(context.Background()))
	assert.Len(t, remote.uploads, 1)
}
