package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resale_tracker_backend/internal/middleware"
	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/repositories"
)

type memoryBackupRepo struct {
	rows []*models.Backup
}

func (m *memoryBackupRepo) Insert(payload json.RawMessage, label string) (*models.Backup, error) {
	row := &models.Backup{
		ID:        int64(len(m.rows) + 1),
		Label:     label,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memoryBackupRepo) Latest() (*models.Backup, error) {
	if len(m.rows) == 0 {
		return nil, repositories.ErrNotFound
	}
	return m.rows[len(m.rows)-1], nil
}

func newBackupTestEngine(repo repositories.BackupRepository, keyHash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(MethodNotAllowed)

	h := NewBackupHandler(repo)
	guard := middleware.APIKeyMiddleware(keyHash)
	group := engine.Group("/api/backup")
	group.GET("", h.GetLatestBackup)
	group.POST("", guard, h.CreateBackup)
	return engine
}

func doJSON(engine *gin.Engine, method, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGetLatestBackup_EmptyStore(t *testing.T) {
	engine := newBackupTestEngine(&memoryBackupRepo{}, "")

	w := doJSON(engine, http.MethodGet, "/api/backup", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool            `json:"success"`
		Backup  json.RawMessage `json:"backup"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "null", string(body.Backup))
}

func TestCreateThenGetBackup_RoundTrip(t *testing.T) {
	engine := newBackupTestEngine(&memoryBackupRepo{}, "")

	w := doJSON(engine, http.MethodPost, "/api/backup",
		[]byte(`{"payload":{"bought":[],"version":3},"label":"manual"}`), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool           `json:"success"`
		Backup  *models.Backup `json:"backup"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	require.NotNil(t, created.Backup)
	assert.Equal(t, "manual", created.Backup.Label)

	w = doJSON(engine, http.MethodGet, "/api/backup", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched struct {
		Success bool           `json:"success"`
		Backup  *models.Backup `json:"backup"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.True(t, fetched.Success)
	require.NotNil(t, fetched.Backup)
	assert.Equal(t, created.Backup.ID, fetched.Backup.ID)
	assert.JSONEq(t, `{"bought":[],"version":3}`, string(fetched.Backup.Payload))
}

func TestCreateBackup_RejectsMissingPayload(t *testing.T) {
	engine := newBackupTestEngine(&memoryBackupRepo{}, "")

	w := doJSON(engine, http.MethodPost, "/api/backup", []byte(`{"label":"manual"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestBackupRoute_RejectsUnknownVerb(t *testing.T) {
	engine := newBackupTestEngine(&memoryBackupRepo{}, "")

	w := doJSON(engine, http.MethodDelete, "/api/backup", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "METHOD_NOT_ALLOWED")
}

func TestCreateBackup_APIKeyGuard(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekret"), bcrypt.MinCost)
	require.NoError(t, err)
	engine := newBackupTestEngine(&memoryBackupRepo{}, string(hash))

	body := []byte(`{"payload":{},"label":"auto"}`)

	w := doJSON(engine, http.MethodPost, "/api/backup", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/backup", body,
		http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/backup", body,
		http.Header{"Authorization": {"Bearer sekret"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetLatestBackup_OpenWithoutKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memoryBackupRepo{}
	_, err = repo.Insert(json.RawMessage(`{}`), "auto")
	require.NoError(t, err)

	engine := newBackupTestEngine(repo, string(hash))
	w := doJSON(engine, http.MethodGet, "/api/backup", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}
