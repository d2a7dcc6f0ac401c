package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resale_tracker_backend/internal/models"
)

// BackupRepository defines the interface for snapshot backup rows. The store
// is append-only: every Insert adds a row, Latest returns the newest one.
type BackupRepository interface {
	Insert(payload json.RawMessage, label string) (*models.Backup, error)
	Latest() (*models.Backup, error)
}

type postgresBackupRepository struct {
	db SQLExecutor
}

// NewPostgresBackupRepository creates a BackupRepository backed by Postgres.
// The executor may be a *sql.DB or an open *sql.Tx.
func NewPostgresBackupRepository(db SQLExecutor) BackupRepository {
	return &postgresBackupRepository{db: db}
}

// EnsurePostgresSchema creates the backups table if it does not exist.
func EnsurePostgresSchema(db SQLExecutor) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS backups (
		id         BIGSERIAL PRIMARY KEY,
		label      TEXT NOT NULL DEFAULT '',
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("%w: creating backups table: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *postgresBackupRepository) Insert(payload json.RawMessage, label string) (*models.Backup, error) {
	backup := &models.Backup{Label: label, Payload: payload}
	query := `INSERT INTO backups (label, payload)
	          VALUES ($1, $2)
	          RETURNING id, created_at`
	err := r.db.QueryRow(query, label, string(payload)).Scan(&backup.ID, &backup.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting backup: %v", ErrDatabaseError, err)
	}
	return backup, nil
}

func (r *postgresBackupRepository) Latest() (*models.Backup, error) {
	var backup models.Backup
	var payload string
	query := `SELECT id, label, payload, created_at FROM backups
	          ORDER BY created_at DESC, id DESC LIMIT 1`
	err := r.db.QueryRow(query).Scan(&backup.ID, &backup.Label, &payload, &backup.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: querying latest backup: %v", ErrDatabaseError, err)
	}
	backup.Payload = json.RawMessage(payload)
	return &backup, nil
}
