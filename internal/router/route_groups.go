package router

import (
	"resale_tracker_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupItemRoutes sets up the bought-inventory routes.
func SetupItemRoutes(apiGroup *gin.RouterGroup, itemHandler *handlers.ItemHandler) {
	itemRoutes := apiGroup.Group("/items")
	{
		itemRoutes.POST("", itemHandler.CreateItem)
		itemRoutes.GET("", itemHandler.GetItems)
		itemRoutes.DELETE("/:id", itemHandler.DeleteItem)
		itemRoutes.POST("/:id/list", itemHandler.MoveToListing)
		itemRoutes.POST("/bulk-list", itemHandler.BulkMoveToListing)
	}
}

// SetupListingRoutes sets up the for-sale routes.
func SetupListingRoutes(apiGroup *gin.RouterGroup, listingHandler *handlers.ListingHandler) {
	listingRoutes := apiGroup.Group("/listings")
	{
		listingRoutes.POST("", listingHandler.CreateListing)
		listingRoutes.GET("", listingHandler.GetListings)
		listingRoutes.DELETE("/:id", listingHandler.DeleteListing)
		listingRoutes.POST("/:id/sell", listingHandler.MarkSold)
	}
}

// SetupSoldRoutes sets up the sold-record routes.
func SetupSoldRoutes(apiGroup *gin.RouterGroup, soldHandler *handlers.SoldHandler) {
	soldRoutes := apiGroup.Group("/sold")
	{
		soldRoutes.GET("", soldHandler.GetSoldRecords)
		soldRoutes.DELETE("/:id", soldHandler.DeleteSold)
		soldRoutes.POST("/:id/pay", soldHandler.MarkPaid)
		soldRoutes.POST("/buyers/:name/pay-all", soldHandler.MarkAllPaidForBuyer)
		soldRoutes.POST("/buyers/:name/to-cash", soldHandler.AddBuyerTotalToCash)
	}
}

// SetupCashRoutes sets up the cash-ledger routes.
func SetupCashRoutes(apiGroup *gin.RouterGroup, cashHandler *handlers.CashHandler) {
	cashRoutes := apiGroup.Group("/cash")
	{
		cashRoutes.GET("", cashHandler.GetCashEntries)
		cashRoutes.POST("", cashHandler.CreateCashEntry)
		cashRoutes.DELETE("/:id", cashHandler.DeleteCashEntry)
	}
}

// SetupPartyRoutes sets up the registry and shipping-fee routes.
func SetupPartyRoutes(apiGroup *gin.RouterGroup, partyHandler *handlers.PartyHandler) {
	partyRoutes := apiGroup.Group("/parties")
	{
		partyRoutes.GET("", partyHandler.GetParties)
		partyRoutes.POST("/rename", partyHandler.RenameParty)
		partyRoutes.POST("/delete", partyHandler.DeleteParty)
	}
	apiGroup.GET("/shipping-fees", partyHandler.GetShippingFees)
	apiGroup.PUT("/shipping-fees", partyHandler.SetShippingFee)
}

// SetupReportRoutes sets up the derived report routes.
func SetupReportRoutes(apiGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := apiGroup.Group("/reports")
	{
		reportRoutes.GET("/sellers", reportHandler.GetSellerReport)
		reportRoutes.GET("/buyers", reportHandler.GetBuyerReport)
		reportRoutes.GET("/cash", reportHandler.GetCashReport)
	}
}

// SetupSnapshotRoutes sets up snapshot export and restore.
func SetupSnapshotRoutes(apiGroup *gin.RouterGroup, snapshotHandler *handlers.SnapshotHandler) {
	snapshotRoutes := apiGroup.Group("/snapshot")
	{
		snapshotRoutes.GET("", snapshotHandler.GetSnapshot)
		snapshotRoutes.POST("/restore", snapshotHandler.RestoreSnapshot)
	}
}

// SetupPreferenceRoutes sets up the preference routes.
func SetupPreferenceRoutes(apiGroup *gin.RouterGroup, preferenceHandler *handlers.PreferenceHandler) {
	preferenceRoutes := apiGroup.Group("/preferences")
	{
		preferenceRoutes.GET("", preferenceHandler.GetPreferences)
		preferenceRoutes.PUT("", preferenceHandler.SetPreferences)
	}
}

// SetupBackupRoutes sets up the snapshot backup rows endpoint. Reads are
// open; writes go through the API-key guard when one is configured.
func SetupBackupRoutes(apiGroup *gin.RouterGroup, backupHandler *handlers.BackupHandler, keyGuard gin.HandlerFunc) {
	backupRoutes := apiGroup.Group("/backup")
	{
		backupRoutes.GET("", backupHandler.GetLatestBackup)
		backupRoutes.POST("", keyGuard, backupHandler.CreateBackup)
	}
}
