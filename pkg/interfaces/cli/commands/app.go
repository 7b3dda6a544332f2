package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/services"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/config"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/events"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/metrics"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/repositories/csv"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/repositories/memory"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/repositories/sqlite"
)

// App wires the store and services used by the commands
type App struct {
	Store     repositories.Store
	Engine    *services.TransactionEngine
	Protocols *services.ProtocolService
	Catalog   *services.CatalogService
	Imports   *services.ImportService
	Dashboard *services.DashboardService
	Registry  *prometheus.Registry
	Logger    *slog.Logger
}

// AppFactory builds the App for one command invocation
type AppFactory func(cfg *config.Config, logger *slog.Logger) (*App, error)

// OpenStore opens the store selected by configuration
func OpenStore(cfg *config.Config, logger *slog.Logger) (repositories.Store, error) {
	feed := events.NewFeed(logger)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.NewStore(memory.WithFeed(feed), memory.WithLogger(logger)), nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.Store.Path, sqlite.WithFeed(feed), sqlite.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.Store.Path, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// DefaultAppFactory opens the configured store with the real clock and UUIDv7 ids
func DefaultAppFactory(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(store, cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}

// NewApp builds the services over store. Extra options are applied after the configured ones.
func NewApp(store repositories.Store, cfg *config.Config, logger *slog.Logger, extra ...services.Option) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	minStock, err := cfg.DefaultMinStock()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return nil, err
	}

	opts := append([]services.Option{
		services.WithClock(time.Now),
		services.WithLogger(logger),
		services.WithMetrics(recorder),
		services.WithLocation(loc),
	}, extra...)

	loader := csv.NewLoader(csv.WithDefaultUnit(cfg.Import.DefaultUnit), csv.WithDefaultMinStock(minStock))
	return &App{
		Store:     store,
		Engine:    services.NewTransactionEngine(store, opts...),
		Protocols: services.NewProtocolService(store, opts...),
		Catalog:   services.NewCatalogService(store, opts...),
		Imports:   services.NewImportService(store, loader, opts...),
		Dashboard: services.NewDashboardService(store, opts...),
		Registry:  registry,
		Logger:    logger,
	}, nil
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
