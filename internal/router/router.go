package router

import (
	"resale_tracker_backend/internal/handlers"
	"resale_tracker_backend/internal/middleware"
	"resale_tracker_backend/internal/repositories"
	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Options carries the optional pieces of the route setup.
type Options struct {
	// BackupKeyHash is the bcrypt hash guarding POST /api/backup.
	// Empty leaves the endpoint open.
	BackupKeyHash string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, store *storage.Persistence, backupRepo repositories.BackupRepository, opts Options) {
	// Initialize Services
	ledgerService := services.NewLedgerService(store)
	reportService := services.NewReportService(ledgerService)
	snapshotService := services.NewSnapshotService(store)

	// Initialize Handlers
	itemHandler := handlers.NewItemHandler(ledgerService)
	listingHandler := handlers.NewListingHandler(ledgerService)
	soldHandler := handlers.NewSoldHandler(ledgerService)
	cashHandler := handlers.NewCashHandler(ledgerService)
	partyHandler := handlers.NewPartyHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)
	preferenceHandler := handlers.NewPreferenceHandler(ledgerService)
	backupHandler := handlers.NewBackupHandler(backupRepo)

	// Any verb outside the registered set gets an explicit 405.
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(handlers.MethodNotAllowed)

	apiV1 := engine.Group("/api/v1")
	{
		SetupItemRoutes(apiV1, itemHandler)
		SetupListingRoutes(apiV1, listingHandler)
		SetupSoldRoutes(apiV1, soldHandler)
		SetupCashRoutes(apiV1, cashHandler)
		SetupPartyRoutes(apiV1, partyHandler)
		SetupReportRoutes(apiV1, reportHandler)
		SetupSnapshotRoutes(apiV1, snapshotHandler)
		SetupPreferenceRoutes(apiV1, preferenceHandler)
	}

	SetupBackupRoutes(engine.Group("/api"), backupHandler, middleware.APIKeyMiddleware(opts.BackupKeyHash))
}
