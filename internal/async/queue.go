package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/live-orders/internal/entity"
)

// Job is one extraction event waiting for an order.
type Job struct {
	ID          string // file path or topic/partition/offset
	RequestID   string
	Extraction  []byte
	FormFields  []byte
	SubmittedAt time.Time
}

// Builder is the order construction step. order.Builder satisfies it.
type Builder interface {
	BuildFromJSON(ctx context.Context, raw, rawFormFields []byte) *entity.OrderStructure
}

// Sink receives every built order, fallbacks included.
type Sink func(ctx context.Context, job Job, o *entity.OrderStructure) error

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
