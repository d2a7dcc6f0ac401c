package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resale_tracker_backend/internal/models"
)

// sqliteBackupRepository is the second of the two equivalent backup
// deployments: same contract as the Postgres store, backed by SQLite for
// single-box installs and tests.
type sqliteBackupRepository struct {
	db SQLExecutor
}

// NewSQLiteBackupRepository creates a BackupRepository backed by SQLite.
// The executor may be a *sql.DB or an open *sql.Tx.
func NewSQLiteBackupRepository(db SQLExecutor) BackupRepository {
	return &sqliteBackupRepository{db: db}
}

// EnsureSQLiteSchema creates the backups table if it does not exist.
func EnsureSQLiteSchema(db SQLExecutor) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS backups (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		label      TEXT NOT NULL DEFAULT '',
		payload    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("%w: creating backups table: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *sqliteBackupRepository) Insert(payload json.RawMessage, label string) (*models.Backup, error) {
	backup := &models.Backup{Label: label, Payload: payload, CreatedAt: time.Now().UTC()}
	res, err := r.db.Exec(
		`INSERT INTO backups (label, payload, created_at) VALUES (?, ?, ?)`,
		label, string(payload), backup.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting backup: %v", ErrDatabaseError, err)
	}
	backup.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: reading backup id: %v", ErrDatabaseError, err)
	}
	return backup, nil
}

func (r *sqliteBackupRepository) Latest() (*models.Backup, error) {
	var backup models.Backup
	var payload string
	err := r.db.QueryRow(
		`SELECT id, label, payload, created_at FROM backups
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&backup.ID, &backup.Label, &payload, &backup.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: querying latest backup: %v", ErrDatabaseError, err)
	}
	backup.Payload = json.RawMessage(payload)
	return &backup, nil
}
