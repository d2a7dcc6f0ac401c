package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SnapshotHandler serves snapshot export and restore.
type SnapshotHandler struct {
	snapshots services.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshots services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// GetSnapshot exports the full current state.
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshots.BuildSnapshot(false))
}

// RestoreSnapshot overwrites the live collections with the fields present in
// the submitted snapshot. Absent fields are left untouched.
func (h *SnapshotHandler) RestoreSnapshot(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		utils.RespondValidationFailed(c, "Invalid snapshot payload: "+err.Error())
		return
	}
	if err := h.snapshots.Restore(snap); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Snapshot restored"})
}
