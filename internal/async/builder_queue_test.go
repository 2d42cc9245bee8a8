package async

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/metrics"
	"github.com/joseph-ayodele/live-orders/internal/order"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeBuilder struct {
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeBuilder) BuildFromJSON(ctx context.Context, raw, _ []byte) *entity.OrderStructure {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return &entity.OrderStructure{OrderID: string(raw), Intent: common.RequestIDFromContext(ctx)}
}

type collector struct {
	mu     sync.Mutex
	orders map[string]*entity.OrderStructure
}

func newCollector() *collector {
	return &collector{orders: make(map[string]*entity.OrderStructure)}
}

func (c *collector) sink(_ context.Context, job Job, o *entity.OrderStructure) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[job.ID] = o
	return nil
}

func TestBuilderQueueDrainsOnShutdown(t *testing.T) {
	fb := &fakeBuilder{delay: 2 * time.Millisecond}
	c := newCollector()
	m := metrics.NewRegistry()
	q := NewBuilderQueue(fb, c.sink, quietLogger(), WithWorkers(3), WithQueueSize(4), WithMetrics(m))

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("job-%d", i)
		require.NoError(t, q.Enqueue(context.Background(), Job{ID: id, Extraction: []byte(id), RequestID: "req-" + id}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, int32(20), fb.calls.Load())
	require.Len(t, c.orders, 20)
	assert.Equal(t, "job-7", c.orders["job-7"].OrderID)
	assert.Equal(t, "req-job-7", c.orders["job-7"].Intent)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.QueueDepth))
}

func TestBuilderQueueRejectsAfterShutdown(t *testing.T) {
	q := NewBuilderQueue(&fakeBuilder{}, nil, quietLogger(), WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{ID: "late"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBuilderQueueSinkErrorDoesNotStopWorkers(t *testing.T) {
	var seen atomic.Int32
	sink := func(context.Context, Job, *entity.OrderStructure) error {
		seen.Add(1)
		return errors.New("publish failed")
	}
	q := NewBuilderQueue(&fakeBuilder{}, sink, quietLogger(), WithWorkers(1))
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{ID: fmt.Sprint(i)}))
	}
	q.Shutdown(context.Background())
	assert.Equal(t, int32(3), seen.Load())
}

func TestBuilderQueueWithOrderBuilder(t *testing.T) {
	b := order.NewBuilder(order.WithLogger(quietLogger()))
	c := newCollector()
	q := NewBuilderQueue(b, c.sink, quietLogger(), WithWorkers(2))

	require.NoError(t, q.Enqueue(context.Background(), Job{
		ID:         "good",
		Extraction: []byte(`{"text":"2 robes à 25000 Ar","intent":"ORDER","order_items":[{"product":"robes","quantity":2}]}`),
	}))
	require.NoError(t, q.Enqueue(context.Background(), Job{ID: "bad", Extraction: []byte(`{{`)}))
	q.Shutdown(context.Background())

	require.Len(t, c.orders, 2)
	assert.Equal(t, constants.IntentOrder, c.orders["good"].Intent)
	assert.Equal(t, constants.IntentError, c.orders["bad"].Intent)
}
