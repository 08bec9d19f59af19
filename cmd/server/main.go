package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/ikkim/gamecatalog-backend/internal/app/controller"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	"github.com/ikkim/gamecatalog-backend/internal/db"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
	"github.com/ikkim/gamecatalog-backend/internal/router"
	"github.com/ikkim/gamecatalog-backend/internal/scheduler"
	"github.com/ikkim/gamecatalog-backend/internal/storage"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/ikkim/gamecatalog-backend/pkg/mailer"
	"github.com/ikkim/gamecatalog-backend/pkg/redis"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting game catalog server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Reset codes are single-use only while Redis is reachable.
	var resetCodes repository.ResetCodeStore
	if cfg.Redis.Enabled {
		client, err := redis.Init(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, reset codes stay valid until they expire", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			resetCodes = repository.NewResetCodeStore(client)
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	tokens, err := util.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Algorithm, util.TokenTTLs{
		Access:       cfg.JWT.AccessTokenExpiry,
		ResetCode:    cfg.JWT.ResetCodeExpiry,
		ResetSession: cfg.JWT.ResetSessionExpiry,
	})
	if err != nil {
		logger.Fatal("Failed to create token issuer", err)
	}

	var covers storage.Storage
	if cfg.S3.Bucket != "" {
		covers = storage.NewS3Storage(context.Background(), cfg.S3)
	} else {
		logger.Warn("AWS_S3_BUCKET is empty, cover uploads are disabled", nil)
	}

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	catalogRepos := service.CatalogRepositories{
		Games:      repository.NewGameRepository(conn),
		Genres:     repository.NewGenreRepository(conn),
		Developers: repository.NewDeveloperRepository(conn),
		Publishers: repository.NewPublisherRepository(conn),
		Platforms:  repository.NewPlatformRepository(conn),
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	passwordResetService := service.NewPasswordResetService(
		userRepo,
		resetCodes,
		tokens,
		mailer.New(cfg.SMTP),
		cfg.Server.FrontendURL,
	)
	userService := service.NewUserService(userRepo)
	genreService := service.NewGenreService(catalogRepos.Genres)
	publisherService := service.NewPublisherService(catalogRepos.Publishers)
	developerService := service.NewDeveloperService(catalogRepos.Developers)
	platformService := service.NewPlatformService(catalogRepos.Platforms)
	gameService := service.NewGameService(conn, catalogRepos, covers, cfg.Catalog.UnresolvedNames)

	// Initialize controllers
	pages := controller.Pagination{
		DefaultLimit: cfg.Catalog.DefaultPageLimit,
		MaxLimit:     cfg.Catalog.MaxPageLimit,
	}
	r := router.NewRouter(
		controller.NewAuthController(authService, passwordResetService),
		controller.NewUserController(userService, pages),
		controller.NewGenreController(genreService, pages),
		controller.NewPublisherController(publisherService, pages),
		controller.NewDeveloperController(developerService, pages),
		controller.NewPlatformController(platformService, pages),
		controller.NewGameController(gameService, pages),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	sweeper := scheduler.NewResetTokenSweeper(passwordResetService, cfg.Scheduler.ResetTokenSweepSpec)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start reset token sweeper", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return
	}
	logger.Info("Server stopped successfully")
}
