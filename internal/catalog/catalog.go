// Package catalog resolves product codes and external ids from product names.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/fuzzy"
)

const (
	DefaultCacheSize = 100
	DefaultThreshold = 70
)

// Source lists the products known to the shop.
type Source interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// Catalog is safe for concurrent use. Name lookups are memoized in a bounded
// LRU keyed by the processed product name; misses are cached too.
type Catalog struct {
	products  []entity.Product
	names     []string
	byCode    map[string]entity.Product
	cache     *lru.Cache[string, string]
	threshold int
	logger    *slog.Logger
}

type Option func(*config)

type config struct {
	cacheSize int
	threshold int
	logger    *slog.Logger
}

// WithCacheSize bounds the name lookup cache.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithThreshold sets the minimum similarity (exclusive) for a name match.
func WithThreshold(t int) Option {
	return func(c *config) {
		if t >= 0 && t <= 100 {
			c.threshold = t
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a catalog over products.
func New(products []entity.Product, opts ...Option) (*Catalog, error) {
	cfg := config{cacheSize: DefaultCacheSize, threshold: DefaultThreshold, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cache, err := lru.New[string, string](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}
	c := &Catalog{
		products:  products,
		names:     make([]string, len(products)),
		byCode:    make(map[string]entity.Product, len(products)),
		cache:     cache,
		threshold: cfg.threshold,
		logger:    cfg.logger,
	}
	for i, p := range products {
		c.names[i] = p.Name
		if p.Code != "" {
			c.byCode[p.Code] = p
		}
	}
	return c, nil
}

// Load reads every product from src and builds a catalog.
func Load(ctx context.Context, src Source, opts ...Option) (*Catalog, error) {
	products, err := src.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return New(products, opts...)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// CodeForName returns the code of the product whose name best matches name.
func (c *Catalog) CodeForName(name string) (string, bool) {
	if c == nil || len(c.products) == 0 {
		return "", false
	}
	key := fuzzy.Process(name)
	if key == "" {
		return "", false
	}
	if code, ok := c.cache.Get(key); ok {
		return code, code != ""
	}

	code := ""
	idx, score := fuzzy.ExtractOne(key, c.names)
	if idx >= 0 && score > c.threshold {
		code = c.products[idx].Code
	}
	c.cache.Add(key, code)
	c.logger.Debug("catalog.lookup", "name", name, "code", code, "score", score)
	return code, code != ""
}

// ExternalID returns the storefront id of the product with code, 0 when unknown.
func (c *Catalog) ExternalID(code string) int64 {
	if c == nil || code == "" {
		return 0
	}
	return c.byCode[code].ExternalID
}
