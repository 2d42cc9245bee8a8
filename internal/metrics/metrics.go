// Package metrics exposes Prometheus instruments for order construction.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersBuilt       *prometheus.CounterVec
	OrdersFallback    prometheus.Counter
	BuildLatencySec   prometheus.Histogram
	Confidence        prometheus.Histogram
	PricesMatched     prometheus.Counter
	ItemsUnpriced     prometheus.Counter
	StockIssues       prometheus.Counter
	MessagesConsumed  prometheus.Counter
	MessagesPublished prometheus.Counter
	QueueDepth        prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	built := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_built_total",
		Help: "Orders built, by intent.",
	}, []string{"intent"})
	fallback := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_fallback_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orders_build_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	confidence := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orders_extraction_confidence",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})
	matched := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_prices_matched_total"})
	unpriced := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_items_unpriced_total"})
	stockIssues := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_stock_issues_total"})
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_messages_consumed_total"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "orders_messages_published_total"})
	depth := prometheus.NewGauge(prometheus.GaugeOpts{Name: "orders_queue_depth"})

	r.MustRegister(built, fallback, latency, confidence, matched, unpriced, stockIssues, consumed, published, depth)
	return &Registry{
		reg:               r,
		OrdersBuilt:       built,
		OrdersFallback:    fallback,
		BuildLatencySec:   latency,
		Confidence:        confidence,
		PricesMatched:     matched,
		ItemsUnpriced:     unpriced,
		StockIssues:       stockIssues,
		MessagesConsumed:  consumed,
		MessagesPublished: published,
		QueueDepth:        depth,
	}
}

// Gatherer exposes the underlying registry, mostly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
