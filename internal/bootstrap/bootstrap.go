// Package bootstrap wires the order engine from configuration for the binaries.
package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/live-orders/internal/adapter"
	"github.com/joseph-ayodele/live-orders/internal/catalog"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
	"github.com/joseph-ayodele/live-orders/internal/order"
	"github.com/joseph-ayodele/live-orders/internal/repository"
	"github.com/joseph-ayodele/live-orders/internal/stock"
)

// LoadEnv reads .env files when present. Missing files are not an error.
func LoadEnv(logger *slog.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logger.Warn("failed to load env file", "file", f, "error", err)
		}
	}
}

// Engine is everything a binary needs to build and emit orders.
type Engine struct {
	Builder *order.Builder
	Adapter *adapter.Adapter
	Catalog *catalog.Catalog
	DB      *repository.DB
}

// Close releases the database handle, if one was opened.
func (e *Engine) Close(logger *slog.Logger) {
	if e != nil && e.DB != nil {
		e.DB.Close(logger)
	}
}

// NewEngine opens the database when DB_URL is set, loads the product catalog
// from it, and picks the stock checker: the HTTP service when STOCK_SERVICE_URL
// is set, else the stock table, else none.
func NewEngine(ctx context.Context, cfg *common.Config, m *metrics.Registry, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{}
	var checker stock.Checker

	if cfg.Database.DSN != "" {
		db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Database), logger)
		if err != nil {
			return nil, common.WrapError(err, "open database")
		}
		e.DB = db
		if err := db.HealthCheck(ctx, 5*time.Second, logger); err != nil {
			e.Close(logger)
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			e.Close(logger)
			return nil, err
		}
		cat, err := catalog.Load(ctx, repository.NewProductRepository(db, logger),
			catalog.WithCacheSize(cfg.Engine.CatalogCacheSize),
			catalog.WithThreshold(int(cfg.Engine.CatalogMatchThreshold)),
			catalog.WithLogger(logger),
		)
		if err != nil {
			e.Close(logger)
			return nil, err
		}
		e.Catalog = cat
		checker = repository.NewStockRepository(db, logger)
		logger.Info("catalog loaded", "products", cat.Len())
	}
	if cfg.Stock.URL != "" {
		checker = stock.NewHTTPChecker(cfg.Stock.URL, cfg.Stock.Timeout, logger)
	}

	opts := []order.Option{order.WithLogger(logger), order.WithMetrics(m)}
	if checker != nil {
		opts = append(opts, order.WithStockChecker(checker))
	}
	if e.Catalog != nil {
		opts = append(opts, order.WithCatalog(e.Catalog))
	}
	e.Builder = order.NewBuilderFromConfig(cfg.Engine, opts...)
	if e.Catalog != nil {
		e.Adapter = adapter.New(e.Catalog)
	} else {
		e.Adapter = adapter.New(nil)
	}
	return e, nil
}
