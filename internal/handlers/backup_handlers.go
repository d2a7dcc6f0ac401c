package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"resale_tracker_backend/internal/repositories"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BackupHandler serves the snapshot backup rows. The endpoint is a thin
// persistence wrapper: payloads are stored and returned verbatim.
type BackupHandler struct {
	repo repositories.BackupRepository
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(repo repositories.BackupRepository) *BackupHandler {
	return &BackupHandler{repo: repo}
}

// CreateBackup inserts a new backup row.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	var req struct {
		Payload json.RawMessage `json:"payload" binding:"required"`
		Label   string          `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	backup, err := h.repo.Insert(req.Payload, req.Label)
	if err != nil {
		utils.LogError(err, "Failed to insert backup row")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to store backup", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "backup": backup})
}

// GetLatestBackup returns the most recent backup row, or success=false when
// none exist yet.
func (h *BackupHandler) GetLatestBackup(c *gin.Context) {
	backup, err := h.repo.Latest()
	if errors.Is(err, repositories.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"success": false, "backup": nil})
		return
	}
	if err != nil {
		utils.LogError(err, "Failed to query latest backup")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to read backup", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "backup": backup})
}

// MethodNotAllowed answers any verb other than the registered ones.
func MethodNotAllowed(c *gin.Context) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusMethodNotAllowed, utils.ErrCodeMethodNotAllowed, "Method not allowed", c.Request.Method+" is not supported here"))
}
