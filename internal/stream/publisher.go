package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/joseph-ayodele/live-orders/internal/adapter"
	"github.com/joseph-ayodele/live-orders/internal/async"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter returns a synchronous writer keyed by order id.
func NewWriter(cfg common.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OutputTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
}

// Output is the value written for each built order.
type Output struct {
	Order       *entity.OrderStructure `json:"order"`
	ServiceType adapter.ServiceType    `json:"service_type"`
	Payload     any                    `json:"payload"`
}

type Publisher struct {
	writer      MessageWriter
	adapter     *adapter.Adapter
	serviceType string
	metrics     *metrics.Registry
	logger      *slog.Logger
}

func NewPublisher(w MessageWriter, a *adapter.Adapter, serviceType string, m *metrics.Registry, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if a == nil {
		a = adapter.New(nil)
	}
	return &Publisher{writer: w, adapter: a, serviceType: serviceType, metrics: m, logger: logger}
}

// Publish satisfies async.Sink.
func (p *Publisher) Publish(ctx context.Context, job async.Job, o *entity.OrderStructure) error {
	value, err := json.Marshal(Output{
		Order:       o,
		ServiceType: adapter.ParseServiceType(p.serviceType),
		Payload:     p.adapter.Prepare(o, p.serviceType),
	})
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", o.OrderID, err)
	}
	msg := kafka.Message{Key: []byte(o.OrderID), Value: value}
	if job.RequestID != "" {
		msg.Headers = []kafka.Header{{Key: requestIDHeader, Value: []byte(job.RequestID)}}
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", o.OrderID, err)
	}
	if p.metrics != nil {
		p.metrics.MessagesPublished.Inc()
	}
	p.logger.Info("stream.order.published", "order_id", o.OrderID, "job_id", job.ID, "req_id", job.RequestID, "failed", o.Failed())
	return nil
}
