// Package order assembles the canonical OrderStructure from an NLP extraction.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/catalog"
	"github.com/joseph-ayodele/live-orders/internal/classify"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/contact"
	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/extraction"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
	"github.com/joseph-ayodele/live-orders/internal/pricing"
	"github.com/joseph-ayodele/live-orders/internal/scoring"
	"github.com/joseph-ayodele/live-orders/internal/stock"
)

const tracerName = "github.com/joseph-ayodele/live-orders/internal/order"

// Builder turns extraction results into orders. It is safe for concurrent use.
type Builder struct {
	clients  *ClientBuilder
	matcher  *pricing.Matcher
	stock    *stock.Validator
	catalog  *catalog.Catalog
	decoder  *extraction.Decoder
	metrics  *metrics.Registry
	currency string
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*options)

type options struct {
	logger      *slog.Logger
	checker     stock.Checker
	catalog     *catalog.Catalog
	metrics     *metrics.Registry
	now         func() time.Time
	region      string
	countryCode string
	currency    string
	threshold   float64
	radius      int
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStockChecker enables stock validation against c.
func WithStockChecker(c stock.Checker) Option {
	return func(o *options) { o.checker = c }
}

// WithCatalog enables product code lookups by name.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock overrides time.Now for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRegion sets the phone region and calling code used for national numbers.
func WithRegion(region, countryCode string) Option {
	return func(o *options) { o.region, o.countryCode = region, countryCode }
}

func WithCurrency(currency string) Option {
	return func(o *options) { o.currency = currency }
}

// WithPriceMatching tunes the price matcher threshold and context window.
func WithPriceMatching(threshold float64, contextRadius int) Option {
	return func(o *options) { o.threshold, o.radius = threshold, contextRadius }
}

// NewBuilder returns a builder with Madagascar defaults.
func NewBuilder(opts ...Option) *Builder {
	o := options{
		now:       time.Now,
		currency:  constants.DefaultCurrency,
		threshold: pricing.DefaultThreshold,
		radius:    pricing.DefaultContextRadius,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.currency == "" {
		o.currency = constants.DefaultCurrency
	}

	var resolver stock.CodeResolver
	if o.catalog != nil {
		resolver = o.catalog
	}
	return &Builder{
		clients:  NewClientBuilder(contact.NewPhoneNormalizer(o.region, o.countryCode), contact.NewEmailValidator()),
		matcher:  &pricing.Matcher{Threshold: o.threshold, ContextRadius: o.radius, DefaultCurrency: o.currency},
		stock:    stock.NewValidator(o.checker, resolver, o.logger),
		catalog:  o.catalog,
		decoder:  extraction.NewDecoder(o.logger),
		metrics:  o.metrics,
		currency: o.currency,
		now:      o.now,
		logger:   o.logger,
	}
}

// NewBuilderFromConfig applies the engine settings before opts.
func NewBuilderFromConfig(cfg common.EngineConfig, opts ...Option) *Builder {
	base := []Option{
		WithRegion(cfg.DefaultRegion, ""),
		WithCurrency(cfg.DefaultCurrency),
		WithPriceMatching(cfg.PriceMatchThreshold, cfg.PriceContextRadius),
	}
	return NewBuilder(append(base, opts...)...)
}

// Catalog returns the product catalog the builder resolves codes with, if any.
func (b *Builder) Catalog() *catalog.Catalog {
	return b.catalog
}

// Build always returns an order. When construction fails the order is a
// fallback with Intent "ERROR" and Metadata.Error set.
func (b *Builder) Build(ctx context.Context, in entity.NLPExtractionResult, formFields []entity.FormField) (out *entity.OrderStructure) {
	began := time.Now()
	start := b.now()
	id := NewOrderID(start)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "order.Build",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("order.id", id)),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			out = b.fail(span, id, err)
		}
	}()

	order, err := b.build(ctx, id, start, in, formFields)
	if err != nil {
		return b.fail(span, id, err)
	}

	span.SetAttributes(
		attribute.String("order.intent", order.Intent),
		attribute.Int("order.items", len(order.Items)),
		attribute.Float64("order.confidence", order.Metadata.ExtractionConfidence),
	)
	b.observe(order, began)
	b.logger.Info("order.build.ok",
		"order_id", order.OrderID,
		"req_id", common.RequestIDFromContext(ctx),
		"intent", order.Intent,
		"items", len(order.Items),
		"confidence", order.Metadata.ExtractionConfidence,
		"elapsed_ms", time.Since(began).Milliseconds(),
	)
	return order
}

// BuildFromJSON decodes raw extraction and form JSON and builds the order.
// Undecodable input yields the fallback order.
func (b *Builder) BuildFromJSON(ctx context.Context, raw, rawFormFields []byte) *entity.OrderStructure {
	in, err := b.decoder.Decode(raw)
	if err != nil {
		return b.fail(trace.SpanFromContext(ctx), NewOrderID(b.now()), err)
	}
	fields, err := b.decoder.DecodeFormFields(rawFormFields)
	if err != nil {
		return b.fail(trace.SpanFromContext(ctx), NewOrderID(b.now()), err)
	}
	return b.Build(ctx, in, fields)
}

func (b *Builder) build(ctx context.Context, id string, now time.Time, in entity.NLPExtractionResult, formFields []entity.FormField) (*entity.OrderStructure, error) {
	client := b.clients.Build(in, formFields)

	items := buildItems(in.OrderItems, b.currency)
	b.matcher.Assign(items, in.Prices, in.Text)

	stockInfo := b.stock.Validate(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, common.WrapError(err, "build order")
	}

	delivery := classify.Delivery(in.Text, in.Address)
	upstream := in.TotalAmount
	if upstream != nil && upstream.IsNegative() {
		upstream = nil
	}
	payment := classify.Payment(in.Text, upstream, b.currency)
	promotions := classify.Promotions(in.Text)

	total := pricing.Total(items, upstream)
	score := scoring.Score(in, formFields, items)

	intent := strings.TrimSpace(in.Intent)
	if intent == "" {
		intent = constants.IntentUnprocessable
	}
	lang := in.Language
	if lang == "" {
		lang = "unknown"
	}

	order := &entity.OrderStructure{
		OrderID:           id,
		Timestamp:         now,
		Intent:            intent,
		IntentConfidence:  scoring.Clamp(in.IntentConfidence),
		Source:            constants.OrderSource,
		Client:            client,
		Items:             items,
		Delivery:          delivery,
		Payment:           payment,
		Promotions:        promotions,
		StockInfo:         stockInfo,
		TotalAmount:       total,
		TotalWithDiscount: pricing.ApplyPromotions(total, promotions),
		Metadata: entity.Metadata{
			Language:               lang,
			ProcessingTime:         in.ProcessingTime,
			ExtractionConfidence:   score.Overall,
			HasFormData:            len(formFields) > 0,
			StockAvailable:         stockInfo.Available,
			ItemsCount:             len(items),
			ClientInfoCompleteness: scoring.Completeness(client),
		},
	}
	if len(formFields) > 0 {
		order.FormFields = formFields
	}
	return order, nil
}

func (b *Builder) fail(span trace.Span, id string, err error) *entity.OrderStructure {
	now := b.now()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if b.metrics != nil {
		b.metrics.OrdersFallback.Inc()
	}
	b.logger.Error("order.build.fallback", "order_id", id, "code", common.CodeOf(err), "error", err)
	return Fallback(id, now, err)
}

func (b *Builder) observe(o *entity.OrderStructure, began time.Time) {
	if b.metrics == nil {
		return
	}
	b.metrics.OrdersBuilt.WithLabelValues(o.Intent).Inc()
	b.metrics.BuildLatencySec.Observe(time.Since(began).Seconds())
	b.metrics.Confidence.Observe(o.Metadata.ExtractionConfidence)
	for _, it := range o.Items {
		if it.Priced() {
			b.metrics.PricesMatched.Inc()
		} else {
			b.metrics.ItemsUnpriced.Inc()
		}
	}
	b.metrics.StockIssues.Add(float64(len(o.StockInfo.Issues)))
}
