package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain/account"
	"github.com/clinicdesk/clinicdesk/internal/domain/history"
	"github.com/clinicdesk/clinicdesk/internal/domain/home"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/platform/docstore"
	"github.com/clinicdesk/clinicdesk/internal/platform/identity"
	"github.com/clinicdesk/clinicdesk/internal/platform/middleware"
	"github.com/clinicdesk/clinicdesk/internal/platform/notify"
	"github.com/clinicdesk/clinicdesk/internal/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(docstoreCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func docstoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docstore",
		Short: "Manage the document store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the postgres documents schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DocstoreDriver != "postgres" {
				return fmt.Errorf("docstore init only applies to the postgres driver, got %q", cfg.DocstoreDriver)
			}

			ctx := context.Background()
			store, err := docstore.NewPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.InitSchema(ctx); err != nil {
				return fmt.Errorf("schema init failed: %w", err)
			}
			fmt.Println("Documents schema initialized.")
			return nil
		},
	})

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	// Document store
	var store docstore.Store
	switch cfg.DocstoreDriver {
	case "postgres":
		pg, err := docstore.NewPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pg.Close()
		if err := pg.InitSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize documents schema")
		}
		store = pg
		logger.Info().Msg("connected to postgres document store")
	case "firestore":
		var opts []option.ClientOption
		if cfg.FirebaseCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
		}
		fs, err := docstore.NewFirestore(ctx, cfg.FirebaseProjectID, opts...)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to firestore")
		}
		defer fs.Close()
		store = fs
		logger.Info().Str("project", cfg.FirebaseProjectID).Msg("connected to firestore document store")
	default:
		store = docstore.NewMemory()
		logger.Info().Msg("using in-memory document store")
	}

	// Firebase admin app, shared by identity and notifications
	var fbApp *firebase.App
	if cfg.FirebaseProjectID != "" {
		var opts []option.ClientOption
		if cfg.FirebaseCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
		}
		fbApp, err = firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize firebase app")
		}
	}

	// Identity provider
	var ids identity.Provider
	if cfg.FirebaseAPIKey != "" && fbApp != nil {
		adminClient, err := fbApp.Auth(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize firebase auth client")
		}
		ids = identity.NewFirebaseProvider(cfg.FirebaseAPIKey, adminClient, logger)
		logger.Info().Msg("using firebase identity provider")
	} else {
		ids = identity.NewDevProvider()
		logger.Warn().Msg("using in-memory identity provider; accounts do not survive restarts")
	}

	// Gateways
	accounts := account.NewGateway(ids, store, logger)
	patients := patient.NewGateway(store, logger)

	// Session store tracks the signed-in identity and its resolved role
	sessions := session.NewStore(ids, accounts, logger)
	defer sessions.Close()

	// Booking notifications
	var notifier patient.Notifier
	if cfg.NotifyEnabled && fbApp != nil {
		sender, err := notify.NewSender(ctx, fbApp, cfg.NotifyTopic, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize notifications")
		}
		notifier = sender
		logger.Info().Str("topic", cfg.NotifyTopic).Msg("booking notifications enabled")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Public routes: auth and the home screen content
	apiV1 := e.Group("/api/v1")
	home.NewHandler().RegisterRoutes(apiV1)
	account.NewHandler(accounts, sessions).RegisterRoutes(apiV1)

	// Authenticated routes
	authed := e.Group("/api/v1")
	if cfg.IsDev() && cfg.FirebaseAPIKey == "" {
		authed.Use(identity.DevAuthMiddleware())
	} else {
		authed.Use(identity.TokenMiddleware(identity.TokenConfig{
			ProjectID: cfg.FirebaseProjectID,
			Cache:     identity.NewCertCache(identity.GoogleCertURL, time.Hour),
		}))
	}
	patient.NewHandler(patients, notifier).RegisterRoutes(authed)
	history.NewHandler(history.NewService(patients, logger)).RegisterRoutes(authed)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
