package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CashHandler serves the cash-ledger routes.
type CashHandler struct {
	ledger services.LedgerService
}

// NewCashHandler creates a new CashHandler.
func NewCashHandler(ledger services.LedgerService) *CashHandler {
	return &CashHandler{ledger: ledger}
}

// GetCashEntries returns the cash ledger.
func (h *CashHandler) GetCashEntries(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.CashEntries())
}

// CreateCashEntry records a manual add or deduct. Deductions are submitted
// with a negative amount.
func (h *CashHandler) CreateCashEntry(c *gin.Context) {
	var req services.AddCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	entry, err := h.ledger.AddCashEntry(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteCashEntry removes a cash entry. Entries are never edited in place.
func (h *CashHandler) DeleteCashEntry(c *gin.Context) {
	if err := h.ledger.DeleteCashEntry(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cash entry deleted successfully"})
}
