package letterspackages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/magabrotheeeer/letters-packages/internal/cache"
	"github.com/magabrotheeeer/letters-packages/internal/config"
	"github.com/magabrotheeeer/letters-packages/internal/http/middlewarectx"
	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/migrations"
	"github.com/magabrotheeeer/letters-packages/internal/services/directory"
	"github.com/magabrotheeeer/letters-packages/internal/services/shipments"
	"github.com/magabrotheeeer/letters-packages/internal/shipment"
	"github.com/magabrotheeeer/letters-packages/internal/storage/repository"
	"github.com/magabrotheeeer/letters-packages/internal/telemetry"
)

// App HTTP-приложение с его ресурсами.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	telemetry *telemetry.Providers
}

// New подключается к хранилищу и кешу, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString, logger)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	providers, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Env)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Letters:   shipments.New(shipment.Letter, db, cacheRedis, cfg.TTL, logger),
		Packages:  shipments.New(shipment.Package, db, cacheRedis, cfg.TTL, logger),
		Directory: directory.New(db, cacheRedis, logger),
		Health:    db,
		Metrics:   middlewarectx.NewMetrics(prometheus.DefaultRegisterer),
		RateLimit: cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      otelhttp.NewHandler(router, cfg.ServiceName),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		telemetry: providers,
	}, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close(context.Background())
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close(timeoutCtx)
		return err
	}
}

func (a *App) close(ctx context.Context) {
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to shutdown telemetry", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
