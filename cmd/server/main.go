package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"telepost/internal/config"
	"telepost/internal/handler"
	"telepost/internal/media"
	"telepost/internal/middleware"
	"telepost/internal/repository/postgres"
	"telepost/internal/service"

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
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"host", cfg.Host,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	// Create table names and bootstrap schema
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	logger.Info("database connected")

	// Create repositories
	postRepo := postgres.NewPostRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})

	// Create upload store and media processor
	uploadStore, err := media.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to create upload store: %v", err)
	}
	mediaProcessor := media.NewProcessor(uploadStore, logger)

	// Create services
	postService := service.NewPostService(postRepo, logger)

	// Create handlers
	postHandler := handler.NewPostHandler(postService, logger)
	uploadHandler := handler.NewUploadHandler(mediaProcessor, uploadStore, cfg.MaxUploadMB<<20, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", postHandler.Home)
	mux.HandleFunc("POST /save", postHandler.Save)
	mux.HandleFunc("POST /upload", uploadHandler.Upload)
	mux.HandleFunc("GET /static/uploads/{filename}", uploadHandler.ServeUpload)
	mux.HandleFunc("GET /edit/{slug}", postHandler.EditForm)
	mux.HandleFunc("POST /edit/{slug}", postHandler.Edit)
	mux.HandleFunc("POST /delete/{slug}", postHandler.Delete)
	mux.HandleFunc("GET /{slug}", postHandler.View)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Routes
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // uploads can take a while
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
