package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/models"
	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PartyHandler serves the seller/buyer registry and shipping-fee routes.
type PartyHandler struct {
	ledger services.LedgerService
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(ledger services.LedgerService) *PartyHandler {
	return &PartyHandler{ledger: ledger}
}

// GetParties returns both registries and the last-used pointers.
func (h *PartyHandler) GetParties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sellers":  h.ledger.Sellers(),
		"buyers":   h.ledger.Buyers(),
		"pointers": h.ledger.Pointers(),
	})
}

// RenameParty renames a seller or buyer everywhere it is referenced.
func (h *PartyHandler) RenameParty(c *gin.Context) {
	var req struct {
		Kind    models.PartyKind `json:"kind" binding:"required"`
		OldName string           `json:"old_name" binding:"required"`
		NewName string           `json:"new_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	touched, err := h.ledger.RenameParty(req.Kind, req.OldName, req.NewName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"touched": touched})
}

// DeleteParty removes a name from its registry, reassigning or clearing the
// records that referenced it.
func (h *PartyHandler) DeleteParty(c *gin.Context) {
	var req struct {
		Kind       models.PartyKind `json:"kind" binding:"required"`
		Name       string           `json:"name" binding:"required"`
		ReassignTo string           `json:"reassign_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.ledger.DeleteParty(req.Kind, req.Name, req.ReassignTo); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Party deleted successfully"})
}

// SetShippingFee upserts the seller-paid outbound shipping fee for a buyer.
func (h *PartyHandler) SetShippingFee(c *gin.Context) {
	var req struct {
		Buyer  string   `json:"buyer" binding:"required"`
		Amount *float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	if err := h.ledger.SetShippingFee(req.Buyer, *req.Amount); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buyer": req.Buyer, "amount": *req.Amount})
}

// GetShippingFees returns the whole shipping-fee map.
func (h *PartyHandler) GetShippingFees(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.ShippingFees())
}
