package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack/tracker/internal/command"
	"github.com/fintrack/tracker/internal/config"
	"github.com/fintrack/tracker/internal/handler"
	"github.com/fintrack/tracker/internal/identity"
	"github.com/fintrack/tracker/internal/migrations"
	"github.com/fintrack/tracker/internal/query"
	"github.com/fintrack/tracker/internal/repository"
	"github.com/fintrack/tracker/shared/auth"
	"github.com/fintrack/tracker/shared/events"
	"github.com/fintrack/tracker/shared/middleware"
	"github.com/fintrack/tracker/shared/models"
	sharedredis "github.com/fintrack/tracker/shared/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsesInsecureSecret() {
		logger.Error("JWT_SECRET is not set; tokens are signed with the insecure fallback secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis connection
	redis, err := sharedredis.NewClient(ctx, sharedredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// CQRS: write repos against Postgres, read repos behind the Redis view cache
	userWriteRepo := repository.NewUserWriteRepository(db)
	userReadRepo := repository.NewUserReadRepository(db,
		sharedredis.NewViewCache[models.UserView](redis.Client, repository.UserViewKeyPrefix, cfg.CacheTTL, logger))
	txWriteRepo := repository.NewTransactionWriteRepository(db)
	txReadRepo := repository.NewTransactionReadRepository(db,
		sharedredis.NewViewCache[models.TransactionView](redis.Client, repository.TransactionViewKeyPrefix, cfg.CacheTTL, logger))

	// Command + Query services
	userCommands := command.NewUserCommandService(userWriteRepo, userReadRepo, publisher, logger)
	authQueries := query.NewAuthQueryService(userWriteRepo, tokens, logger)
	if cfg.OAuthEnabled() {
		authQueries.RegisterProvider(cfg.OAuthProvider,
			identity.NewGoogleVerifier(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL))
	}
	userQueries := query.NewUserQueryService(userReadRepo)
	txCommands := command.NewTransactionCommandService(txWriteRepo, txReadRepo, publisher, logger)
	txQueries := query.NewTransactionQueryService(txReadRepo)

	// Setup router
	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
		gin.Recovery(),
	)
	handler.RegisterRoutes(router, handler.Routes{
		Auth:          handler.NewAuthHandler(userCommands, authQueries, userQueries),
		Transactions:  handler.NewTransactionHandler(txCommands, txQueries),
		Tokens:        tokens,
		ProviderLogin: cfg.OAuthEnabled(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("tracker server starting", "port", cfg.Port, "oauth", cfg.OAuthEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
