package models

import (
	"encoding/json"
	"time"
)

// Backup is one stored snapshot row. The payload is kept opaque: the endpoint
// is a thin persistence wrapper and does not validate snapshot contents.
type Backup struct {
	ID        int64           `json:"id"`
	Label     string          `json:"label"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
