package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler serves the two scalar preferences.
type PreferenceHandler struct {
	ledger services.LedgerService
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(ledger services.LedgerService) *PreferenceHandler {
	return &PreferenceHandler{ledger: ledger}
}

// GetPreferences returns the greeting choice and paid-last sort flag.
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Preferences())
}

// SetPreferences stores both preferences.
func (h *PreferenceHandler) SetPreferences(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.ledger.SetPreferences(prefs); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
