package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"ninescapeland/internal/auth"
	"ninescapeland/internal/config"
	"ninescapeland/internal/handler"
	"ninescapeland/internal/imaging"
	"ninescapeland/internal/middleware"
	"ninescapeland/internal/repository/postgres"
	"ninescapeland/internal/service"
	"ninescapeland/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		f, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		logOutput = f
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for admin authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create object store client
	blobs, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
		PublicURL: cfg.StoragePublicURL,
	})
	if err != nil {
		log.Fatalf("Failed to create object store client: %v", err)
	}

	logger.Info("object store connected",
		"endpoint", cfg.StorageEndpoint,
		"bucket", cfg.StorageBucket,
	)

	// Load imaging presets
	presets, err := imaging.NewPresets()
	if err != nil {
		log.Fatalf("Failed to load imaging presets: %v", err)
	}

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	assetRepo := postgres.NewAssetRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	pathResolver := service.NewPathResolver(folderRepo, txManager)
	folderService := service.NewFolderService(folderRepo, logger)
	assetService := service.NewAssetService(assetRepo, blobs, logger)
	galleryService := service.NewGalleryService(folderRepo, assetRepo, blobs, logger)
	uploadService := service.NewUploadService(assetRepo, pathResolver, blobs, presets, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	assetHandler := handler.NewAssetHandler(assetService, logger)
	galleryHandler := handler.NewGalleryHandler(galleryService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", galleryHandler.HealthCheck)

	// Gallery browsing (management view and embedded picker share this)
	mux.HandleFunc("GET /api/gallery", galleryHandler.Browse)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Asset routes
	mux.HandleFunc("GET /api/assets/{id}", assetHandler.GetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", assetHandler.DeleteAsset)

	// Upload batch routes
	mux.HandleFunc("POST /api/uploads", uploadHandler.StartBatch)
	mux.HandleFunc("GET /api/uploads/{id}", uploadHandler.GetBatch)
	mux.HandleFunc("POST /api/uploads/{id}/cancel", uploadHandler.CancelBatch)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Minute, // Batch uploads can carry dozens of files
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
