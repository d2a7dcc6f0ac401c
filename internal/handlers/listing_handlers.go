package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ListingHandler serves the for-sale routes.
type ListingHandler struct {
	ledger services.LedgerService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(ledger services.LedgerService) *ListingHandler {
	return &ListingHandler{ledger: ledger}
}

// CreateListing records a standalone listing with no acquisition cost.
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req services.AddListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	listing, err := h.ledger.AddListing(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// GetListings returns the for-sale collection.
func (h *ListingHandler) GetListings(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Listings())
}

// DeleteListing removes a listing.
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.ledger.DeleteListing(c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
}

// MarkSold assigns a buyer to a listing, moving it to the sold collection.
// A listing id that no longer exists is reported as sold=false rather than
// an error: a stale click is not a failure.
func (h *ListingHandler) MarkSold(c *gin.Context) {
	var req struct {
		Buyer string `json:"buyer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, "Invalid request payload: "+err.Error())
		return
	}
	record, err := h.ledger.MarkSold(c.Param("id"), req.Buyer)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, gin.H{"sold": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sold": true, "record": record})
}
