package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/soccer-web/config"
	"github.com/Dosada05/soccer-web/converter"
	"github.com/Dosada05/soccer-web/db"
	"github.com/Dosada05/soccer-web/handlers"
	"github.com/Dosada05/soccer-web/live"
	"github.com/Dosada05/soccer-web/repositories"
	api "github.com/Dosada05/soccer-web/routes"
	"github.com/Dosada05/soccer-web/services"
	"github.com/Dosada05/soccer-web/storage"
)

func main() {
	// Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("driver", cfg.DatabaseDriver),
		slog.Bool("auth_enabled", cfg.AuthEnabled()),
	)

	// Database
	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	if err := db.Migrate(appCtx, dbConn, cfg.DatabaseDriver); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// File uploader: Cloudflare R2 when configured, local disk otherwise
	var uploader storage.FileUploader
	uploadDir := ""
	if cfg.UseR2() {
		uploader, err = storage.NewCloudflareR2Uploader(appCtx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader, err = storage.NewLocalUploader(cfg.UploadDir, cfg.UploadURLPrefix)
		if err != nil {
			logger.Error("failed to initialize local uploader", slog.Any("error", err))
			os.Exit(1)
		}
		uploadDir = cfg.UploadDir
		logger.Info("local uploader initialized", slog.String("dir", cfg.UploadDir))
	}
	images := storage.NewImageStore(uploader, cfg.MaxUploadSize, storage.DefaultMaxLogoDimension)

	// WebSocket hub
	wsHub := live.NewHub()
	go wsHub.Run(appCtx)
	logger.Info("WebSocket Hub started")

	// Repositories
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	detailRepo := repositories.NewPostgresGroupDetailRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	logger.Info("Repositories initialized")

	// Services
	conv := converter.NewConverter(tournamentRepo)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, groupRepo, matchRepo, detailRepo, conv, images, wsHub)
	groupService := services.NewGroupService(dbConn, tournamentRepo, groupRepo, matchRepo, detailRepo, conv, wsHub)
	teamService := services.NewTeamService(teamRepo, conv, images)
	logger.Info("Services initialized")

	// HTTP handlers
	views, err := handlers.NewRenderer(cfg.AuthEnabled())
	if err != nil {
		logger.Error("failed to parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, views, cfg.MaxUploadSize)
	groupHandler := handlers.NewGroupHandler(groupService, views)
	teamHandler := handlers.NewTeamHandler(teamService, views, cfg.MaxUploadSize)
	apiHandler := handlers.NewAPIHandler(tournamentService, groupService, teamService)
	authHandler := handlers.NewAuthHandler(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecretKey, cfg.TokenTTL, views)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins)
	logger.Info("HTTP handlers initialized")

	// Router
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:          cfg.JWTSecretKey,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			UploadDir:          uploadDir,
			UploadURLPrefix:    cfg.UploadURLPrefix,
		},
		tournamentHandler,
		groupHandler,
		teamHandler,
		apiHandler,
		authHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stopApp()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	// Stops the hub, which closes every websocket connection
	stopApp()
	logger.Info("application exited")
}
