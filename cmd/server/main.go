package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"resale_tracker_backend/internal/database"
	"resale_tracker_backend/internal/remotefile"
	"resale_tracker_backend/internal/repositories"
	"resale_tracker_backend/internal/router"
	"resale_tracker_backend/internal/services"
	"resale_tracker_backend/internal/storage"
	"resale_tracker_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	utils.InitLogger()

	// Two-tier key-value persistence: file store first, SQLite fallback.
	dataDir := utils.Getenv("DATA_DIR", "data")
	primary, err := storage.NewFileStore(dataDir)
	if err != nil {
		log.Fatalf("Failed to open file store: %v", err)
	}
	secondary, err := storage.OpenSQLiteStore(utils.Getenv("KV_SQLITE_PATH", dataDir+"/fallback.db"))
	if err != nil {
		log.Fatalf("Failed to open fallback store: %v", err)
	}
	store := storage.NewPersistence(utils.Getenv("STORE_NAMESPACE", "resale"), primary, secondary)
	utils.LogInfo("Persistence initialized", map[string]interface{}{"data_dir": dataDir})

	// Backup row store: Postgres and SQLite are equivalent deployments.
	backupRepo := openBackupRepository(dataDir)

	// Auto-backup to the remote file store, when configured.
	snapshotService := services.NewSnapshotService(store)
	startAutoBackup(snapshotService, store)

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	// The backup endpoint must accept requests from any origin; the rest
	// of the API can be restricted to a configured origin list.
	var allowedOrigins []string
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
	}
	engine.Use(router.CORSPolicy(allowedOrigins))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, store, backupRepo, router.Options{
		BackupKeyHash: os.Getenv("BACKUP_API_KEY_HASH"),
	})

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})
	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openBackupRepository picks the backup row store from the environment.
func openBackupRepository(dataDir string) repositories.BackupRepository {
	driver := utils.Getenv("BACKUP_DB_DRIVER", "sqlite")
	var dsn string
	if driver == "postgres" {
		dsn = database.PostgresDSN(
			utils.Getenv("DB_HOST", "localhost"),
			utils.Getenv("DB_PORT", "5432"),
			utils.Getenv("DB_USER", "resale_user"),
			utils.Getenv("DB_PASSWORD", "resale_password"),
			utils.Getenv("DB_NAME", "resale_tracker_db"),
			utils.Getenv("DB_SSLMODE", "disable"),
		)
	} else {
		dsn = utils.Getenv("BACKUP_SQLITE_PATH", dataDir+"/backups.db")
	}

	db, err := database.Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to open backup database: %v", err)
	}

	if driver == "postgres" {
		if err := repositories.EnsurePostgresSchema(db); err != nil {
			log.Fatalf("Failed to prepare backup schema: %v", err)
		}
		utils.LogInfo("Backup store ready", map[string]interface{}{"driver": driver})
		return repositories.NewPostgresBackupRepository(db)
	}
	if err := repositories.EnsureSQLiteSchema(db); err != nil {
		log.Fatalf("Failed to prepare backup schema: %v", err)
	}
	utils.LogInfo("Backup store ready", map[string]interface{}{"driver": driver})
	return repositories.NewSQLiteBackupRepository(db)
}

// startAutoBackup wires the remote file-storage client and launches the
// backup loop. A missing service account leaves the loop off.
func startAutoBackup(snapshots services.SnapshotService, store *storage.Persistence) {
	email := os.Getenv("REMOTE_BACKUP_EMAIL")
	keyPath := os.Getenv("REMOTE_BACKUP_KEY_FILE")
	if email == "" || keyPath == "" {
		utils.LogInfo("Remote auto-backup disabled: no service account configured")
		return
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		log.Fatalf("Failed to read service account key: %v", err)
	}
	tokens, err := remotefile.NewTokenSource(
		email,
		keyPEM,
		utils.Getenv("REMOTE_BACKUP_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		utils.Getenv("REMOTE_BACKUP_SCOPE", "https://www.googleapis.com/auth/drive.file"),
	)
	if err != nil {
		log.Fatalf("Failed to build token source: %v", err)
	}
	client := remotefile.NewClient(
		utils.Getenv("REMOTE_BACKUP_BASE_URL", "https://www.googleapis.com/drive/v3"),
		utils.Getenv("REMOTE_BACKUP_UPLOAD_URL", "https://www.googleapis.com/upload/drive/v3"),
		tokens,
	)

	cfg := services.DefaultBackupConfig()
	if v := os.Getenv("BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Interval = d
		}
	}
	if v := os.Getenv("BACKUP_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Debounce = d
		}
	}
	cfg.FileName = utils.Getenv("BACKUP_FILE_NAME", cfg.FileName)

	backupService := services.NewBackupService(snapshots, client, cfg)
	store.SetDirtyObserver(backupService.MarkDirty)

	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go backupService.Start(ctx)
}
