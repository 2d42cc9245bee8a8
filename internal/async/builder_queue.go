package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
)

// ErrClosed is returned by Enqueue after Shutdown.
var ErrClosed = errors.New("queue is shutting down")

// BuilderQueue runs a fixed pool of workers that build orders and hand them to
// a Sink.
type BuilderQueue struct {
	builder Builder
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.Registry
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

type Option func(*BuilderQueue)

func WithWorkers(n int) Option {
	return func(q *BuilderQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *BuilderQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithBuildTimeout(d time.Duration) Option {
	return func(q *BuilderQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithMetrics(m *metrics.Registry) Option {
	return func(q *BuilderQueue) { q.metrics = m }
}

func NewBuilderQueue(builder Builder, sink Sink, logger *slog.Logger, opts ...Option) *BuilderQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &BuilderQueue{
		builder: builder,
		sink:    sink,
		logger:  logger,
		workers: 4,
		timeout: 30 * time.Second,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *BuilderQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)
				for job := range q.ch {
					q.gauge(-1)
					q.process(workerID, job)
				}
				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *BuilderQueue) process(workerID int, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	if job.RequestID != "" {
		ctx = common.WithRequestID(ctx, job.RequestID)
	}

	o := q.builder.BuildFromJSON(ctx, job.Extraction, job.FormFields)
	if q.sink == nil {
		return
	}
	if err := q.sink(ctx, job, o); err != nil {
		q.logger.Error("queue.sink.error", "worker_id", workerID, "job_id", job.ID, "order_id", o.OrderID, "error", err)
		return
	}
	q.logger.Debug("queue.job.done",
		"worker_id", workerID,
		"job_id", job.ID,
		"order_id", o.OrderID,
		"queued_ms", time.Since(job.SubmittedAt).Milliseconds(),
	)
}

// Enqueue blocks while the queue is full, until ctx is done.
func (q *BuilderQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.ID)
		return ErrClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, applying backpressure", "job_id", job.ID)
		select {
		case q.ch <- job:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	q.gauge(1)
	return nil
}

// Shutdown stops intake and waits for queued jobs to drain or ctx to end.
func (q *BuilderQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

func (q *BuilderQueue) gauge(delta float64) {
	if q.metrics != nil {
		q.metrics.QueueDepth.Add(delta)
	}
}
