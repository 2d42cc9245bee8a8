// Package stream moves extraction events from Kafka into the build queue and
// publishes built orders back to Kafka.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/joseph-ayodele/live-orders/internal/async"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/ingest"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
)

const requestIDHeader = "request_id"

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewReader returns a consumer-group reader for the extraction topic.
func NewReader(cfg common.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.InputTopic,
		GroupID:  cfg.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

type Consumer struct {
	reader  MessageReader
	queue   async.Queue
	metrics *metrics.Registry
	logger  *slog.Logger
}

func NewConsumer(reader MessageReader, queue async.Queue, m *metrics.Registry, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{reader: reader, queue: queue, metrics: m, logger: logger}
}

// Run fetches messages until ctx is done. Each message is committed once it
// has been queued. Payloads that are not envelopes are still queued as raw
// extraction so they surface as fallback orders downstream.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("stream.consumer.stopped")
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}
		if c.metrics != nil {
			c.metrics.MessagesConsumed.Inc()
		}

		job := jobFromMessage(msg)
		if err := c.queue.Enqueue(ctx, job); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("enqueue %s: %w", job.ID, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("stream.commit.error", "job_id", job.ID, "error", err)
		}
	}
}

func jobFromMessage(msg kafka.Message) async.Job {
	job := async.Job{
		ID:          fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset),
		SubmittedAt: time.Now(),
	}
	for _, h := range msg.Headers {
		if h.Key == requestIDHeader {
			job.RequestID = string(h.Value)
		}
	}
	env, err := ingest.ParseEnvelope(msg.Value)
	if err != nil {
		job.Extraction = msg.Value
		return job
	}
	job.Extraction = env.Extraction
	job.FormFields = env.FormFields
	if job.RequestID == "" {
		job.RequestID = env.RequestID
	}
	return job
}
