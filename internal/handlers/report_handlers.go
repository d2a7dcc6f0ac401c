package handlers

import (
	"net/http"

	"resale_tracker_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the derived report routes.
type ReportHandler struct {
	reports services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetSellerReport returns inventory grouped by seller with spend/worth/profit totals.
func (h *ReportHandler) GetSellerReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.SellerReport())
}

// GetBuyerReport returns sold records grouped by buyer with gross/net totals.
func (h *ReportHandler) GetBuyerReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.BuyerReport())
}

// GetCashReport returns per-source cash totals and the grand total.
func (h *ReportHandler) GetCashReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.CashReport())
}
