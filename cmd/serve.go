package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalhub/internal/caching"
	"rentalhub/internal/config"
	"rentalhub/internal/events"
	"rentalhub/internal/handlers"
	"rentalhub/internal/jobs/background"
	"rentalhub/internal/middleware"
	"rentalhub/internal/repositories"
	"rentalhub/internal/services"
	"rentalhub/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.ClosePool(pool)

	if _, err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	repositories.QueryTimeout = cfg.StoreTimeout
	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	imageStore, err := services.NewImageStore(services.ImageStoreConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}
	if err := imageStore.EnsureBucket(ctx); err != nil {
		log.Printf("WARN: image bucket %q unavailable: %v", cfg.MinioBucket, err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbit, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("WARN: event publishing disabled: %v", err)
		} else {
			publisher = rabbit
		}
	}
	defer publisher.Close()

	authSvc := services.NewAuthService(userRepo, services.AuthConfig{
		AccessSecret:  []byte(cfg.JWTSecret),
		AccessTTL:     cfg.JWTExpire,
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		RefreshTTL:    cfg.JWTRefreshExpire,
	})
	userSvc := services.NewUserService(userRepo, publisher)
	propertySvc := services.NewPropertyService(propertyRepo, imageStore, cacheSvc, publisher)
	bookingSvc := services.NewBookingService(bookingRepo, propertyRepo, cacheSvc, publisher)
	reviewSvc := services.NewReviewService(reviewRepo, bookingRepo, publisher)

	scheduler, err := background.NewJobScheduler(bookingSvc, cfg.SweepInterval)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("WARN: scheduler shutdown: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
	}))
	e.Use(middleware.NewAuditMiddleware().AuditAccess())

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Auth: handlers.NewAuthHandlers(authSvc, cacheSvc, handlers.LoginLimit{
			Attempts: cfg.LoginRateLimit,
			Window:   cfg.LoginRateWindow,
		}),
		Users:      handlers.NewUserHandlers(userSvc),
		Properties: handlers.NewPropertyHandlers(propertySvc),
		Bookings:   handlers.NewBookingHandlers(bookingSvc),
		Reviews:    handlers.NewReviewHandlers(reviewSvc),
		Health:     handlers.NewHealthHandlers(pool, cacheSvc),
	}, middleware.NewAuthMiddleware(authSvc))

	errCh := make(chan error, 1)
	go func() {
		log.Printf("rentalhub server v%s starting on port %d", handlers.APIVersion, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
