package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SoldHandler serves the sold-record routes.
type SoldHandler struct {
	ledger services.LedgerService
}

// NewSoldHandler creates a new SoldHandler.
func NewSoldHandler(ledger services.LedgerService) *SoldHandler {
	return &SoldHandler{ledger: ledger}
}

// GetSoldRecords returns the sold collection.
func (h *SoldHandler) GetSoldRecords(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.SoldRecords())
}

// DeleteSold removes a sold record.
func (h *SoldHandler) DeleteSold(c *gin.Context) {
	if err := h.ledger.DeleteSold(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sold record deleted successfully"})
}

// MarkPaid flips one sold record to paid.
func (h *SoldHandler) MarkPaid(c *gin.Context) {
	if err := h.ledger.MarkPaid(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record marked paid"})
}

// MarkAllPaidForBuyer flips all of one buyer's pending records to paid.
func (h *SoldHandler) MarkAllPaidForBuyer(c *gin.Context) {
	changed, err := h.ledger.MarkAllPaidForBuyer(c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if changed == 0 {
		c.JSON(http.StatusOK, gin.H{"changed": 0, "message": "Nothing to do"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// AddBuyerTotalToCash records the buyer's paid total as a cash entry.
func (h *SoldHandler) AddBuyerTotalToCash(c *gin.Context) {
	var req struct {
		Source models.CashSource `json:"source" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	entry, err := h.ledger.AddBuyerTotalToCash(c.Param("name"), req.Source)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
