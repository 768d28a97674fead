package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// With LOG_DIR set, logs also go to a timestamped file with rotation.
	logOutput := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

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

	tables := postgres.NewTableNames(cfg.TablePrefix)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	pageRepo := postgres.NewPageRepository(repoConfig)
	linkRepo := postgres.NewPageLinkRepository(repoConfig)
	binRepo := postgres.NewBinRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Services
	folderService := service.NewFolderService(folderRepo, logger)
	linkService := service.NewLinkService(linkRepo, pageRepo, logger)
	pageService := service.NewPageService(pageRepo, folderRepo, linkService, logger)
	binService := service.NewBinService(binRepo, pageRepo, folderRepo, linkRepo, folderService, txManager, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, binService, logger)
	pageHandler := handler.NewPageHandler(pageService, linkService, binService, logger)
	binHandler := handler.NewBinHandler(binService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Folder routes
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/folders/{id}/move", folderHandler.MoveFolder)

	// Page routes
	mux.HandleFunc("GET /api/pages", pageHandler.ListPages)
	mux.HandleFunc("POST /api/pages", pageHandler.CreatePage)
	mux.HandleFunc("GET /api/pages/{id}", pageHandler.GetPage)
	mux.HandleFunc("PATCH /api/pages/{id}", pageHandler.UpdatePage)
	mux.HandleFunc("DELETE /api/pages/{id}", pageHandler.DeletePage)
	mux.HandleFunc("POST /api/pages/{id}/move", pageHandler.MovePage)
	mux.HandleFunc("POST /api/pages/{id}/publish", pageHandler.PublishPage)
	mux.HandleFunc("POST /api/pages/{id}/unpublish", pageHandler.UnpublishPage)

	// Page link routes
	mux.HandleFunc("GET /api/pages/{id}/links", pageHandler.GetPageLinks)
	mux.HandleFunc("POST /api/pages/{id}/links", pageHandler.CreatePageLink)
	mux.HandleFunc("DELETE /api/pages/{id}/links/{target}", pageHandler.DeletePageLink)
	mux.HandleFunc("GET /api/pages/{id}/backlinks", pageHandler.GetPageBacklinks)

	// Bin routes
	mux.HandleFunc("GET /api/bin", binHandler.ListBin)
	mux.HandleFunc("POST /api/bin/{id}/restore", binHandler.RestoreItem)
	mux.HandleFunc("DELETE /api/bin/{id}", binHandler.DeleteItem)
	mux.HandleFunc("DELETE /api/bin", binHandler.EmptyBin)

	// Public routes (no auth)
	mux.HandleFunc("GET /api/public/pages/{slug}", pageHandler.GetPublicPage)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
