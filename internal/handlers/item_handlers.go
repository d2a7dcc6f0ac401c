package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ItemHandler serves the bought-inventory routes.
type ItemHandler struct {
	ledger services.LedgerService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(ledger services.LedgerService) *ItemHandler {
	return &ItemHandler{ledger: ledger}
}

// CreateItem records a newly bought item.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req services.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	item, err := h.ledger.AddItem(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems returns the bought collection.
func (h *ItemHandler) GetItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Items())
}

// DeleteItem removes a bought item.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	if err := h.ledger.DeleteItem(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// MoveToListing moves one bought item to the for-sale collection.
func (h *ItemHandler) MoveToListing(c *gin.Context) {
	listing, err := h.ledger.MoveToListing(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// BulkMoveToListing moves every bought item of one seller to the for-sale
// collection.
func (h *ItemHandler) BulkMoveToListing(c *gin.Context) {
	var req struct {
		Seller string `json:"seller"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	moved, err := h.ledger.BulkMoveSellerToListing(req.Seller)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}
