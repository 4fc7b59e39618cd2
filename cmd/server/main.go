package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mytheresa/catalog-web/app/accounts"
	"github.com/mytheresa/catalog-web/app/categories"
	"github.com/mytheresa/catalog-web/app/database"
	"github.com/mytheresa/catalog-web/app/metrics"
	"github.com/mytheresa/catalog-web/app/products"
	"github.com/mytheresa/catalog-web/app/router"
	"github.com/mytheresa/catalog-web/app/session"
	"github.com/mytheresa/catalog-web/app/web"
	"github.com/mytheresa/catalog-web/config"
	"github.com/mytheresa/catalog-web/models"
	"github.com/mytheresa/catalog-web/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(logger.Options{Production: cfg.Environment().IsProduction()})
	csrfKey, err := cfg.CSRFSecret()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid csrf configuration")
	}
	if cfg.CSRFKey == "" {
		logger.Warn().Msg("CSRF_KEY not set, using a random key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer sqlDB.Close()

	var store session.Store
	if cfg.Redis.URL != "" {
		client, err := cfg.Redis.NewClient(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		store = session.NewRedisStore(client)
		logger.Info().Msg("sessions stored in redis")
	} else {
		if cfg.Environment().IsProduction() {
			logger.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
		}
		store = session.NewMemoryStore()
	}

	view, err := web.NewTemplates()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	categoriesRepo := models.NewCategoriesRepository(db)
	productsRepo := models.NewProductsRepository(db)
	usersRepo := models.NewUsersRepository(db)
	sessions := session.NewManager(store, cfg.Session, usersRepo)

	handler := router.New(router.Dependencies{
		Categories: categories.NewCategoryHandler(categoriesRepo, view),
		Products:   products.NewProductHandler(productsRepo, categoriesRepo, view),
		Accounts:   accounts.NewAccountHandler(usersRepo, categoriesRepo, sessions, view),
		Sessions:   sessions,
		View:       view,
		Metrics:    metrics.New(),
		Ping:       sqlDB.PingContext,

		CSRFKey:       csrfKey,
		SecureCookies: cfg.Session.Secure,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("env", string(cfg.Environment())).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
