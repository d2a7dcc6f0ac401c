package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"resale_tracker_backend/pkg/utils"
)

// RemoteStore is the slice of the file-storage client the auto-backup needs.
type RemoteStore interface {
	UploadByName(ctx context.Context, name string, payload []byte) error
}

// BackupConfig tunes the auto-backup loop.
type BackupConfig struct {
	// Interval is the minimum spacing between two backups.
	Interval time.Duration
	// Debounce is how long the state must be quiet after the last change
	// before a backup may run.
	Debounce time.Duration
	// FileName is the remote file the auto-backup overwrites.
	FileName string
}

// DefaultBackupConfig mirrors the tracker's historical timing: back up at
// most every ten minutes, once edits have settled for thirty seconds.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		Interval: 10 * time.Minute,
		Debounce: 30 * time.Second,
		FileName: "resale-tracker-backup.json",
	}
}

// BackupService runs the periodic auto-backup. It fires only when the dirty
// flag is set by a successful save, at most once per interval, after the
// debounce window, and never with two backups in flight. Failures are logged
// and swallowed; the next tick retries.
type BackupService struct {
	snapshots SnapshotService
	remote    RemoteStore
	cfg       BackupConfig

	dirty    atomic.Bool
	inFlight atomic.Bool

	mu         sync.Mutex
	lastChange time.Time
	lastRun    time.Time
}

// NewBackupService creates a BackupService. Register MarkDirty as the
// persistence dirty observer to drive it.
func NewBackupService(snapshots SnapshotService, remote RemoteStore, cfg BackupConfig) *BackupService {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultBackupConfig().Interval
	}
	if cfg.FileName == "" {
		cfg.FileName = DefaultBackupConfig().FileName
	}
	return &BackupService{snapshots: snapshots, remote: remote, cfg: cfg}
}

// MarkDirty records that state changed since the last successful backup.
func (b *BackupService) MarkDirty() {
	b.dirty.Store(true)
	b.mu.Lock()
	b.lastChange = time.Now()
	b.mu.Unlock()
}

// Start runs the backup loop until ctx is cancelled.
func (b *BackupService) Start(ctx context.Context) {
	tick := b.cfg.Debounce
	if tick <= 0 {
		tick = time.Second
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	utils.LogInfo("Auto-backup loop started", map[string]interface{}{
		"interval": b.cfg.Interval.String(),
		"debounce": b.cfg.Debounce.String(),
		"file":     b.cfg.FileName,
	})
	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Auto-backup loop stopped")
			return
		case <-ticker.C:
			if err := b.RunOnce(ctx); err != nil {
				// Swallowed: the dirty flag stays set and the next
				// tick retries.
				utils.LogWarn("Auto-backup attempt failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

// RunOnce performs a single backup attempt if one is due. It returns nil
// when nothing was due.
func (b *BackupService) RunOnce(ctx context.Context) error {
	if !b.due() {
		return nil
	}
	if !b.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer b.inFlight.Store(false)

	// Claim the dirty flag up front so edits made during the upload
	// re-arm the next run instead of being lost.
	if !b.dirty.CompareAndSwap(true, false) {
		return nil
	}

	snap := b.snapshots.BuildSnapshot(true)
	payload, err := json.Marshal(snap)
	if err != nil {
		b.dirty.Store(true)
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := b.remote.UploadByName(ctx, b.cfg.FileName, payload); err != nil {
		b.dirty.Store(true)
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	b.mu.Lock()
	b.lastRun = time.Now()
	b.mu.Unlock()
	utils.LogInfo("Auto-backup uploaded", map[string]interface{}{"file": b.cfg.FileName})
	return nil
}

// due reports whether the dirty flag is set, the debounce window has passed
// since the last change, and the interval has passed since the last run.
func (b *BackupService) due() bool {
	if !b.dirty.Load() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if time.Since(b.lastChange) < b.cfg.Debounce {
		return false
	}
	return time.Since(b.lastRun) >= b.cfg.Interval
}
