package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/live-orders/internal/common"
)

// Envelope is one extraction event as stored on disk or carried on a topic.
// A bare extraction object is accepted too; it becomes Extraction with no form.
type Envelope struct {
	RequestID  string          `json:"request_id,omitempty"`
	Extraction json.RawMessage `json:"extraction"`
	FormFields json.RawMessage `json:"form_fields,omitempty"`
}

// ParseEnvelope accepts either {"extraction": {...}, "form_fields": [...]} or
// the extraction object itself.
func ParseEnvelope(raw []byte) (Envelope, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Envelope{}, common.NewAppError(common.CodeInvalidEvent, "empty payload", common.ErrInvalidInput)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Envelope{}, common.NewAppError(common.CodeInvalidEvent, fmt.Sprintf("not a JSON object: %v", err), common.ErrInvalidInput)
	}
	ext, ok := probe["extraction"]
	if !ok {
		return Envelope{Extraction: json.RawMessage(raw)}, nil
	}
	env := Envelope{Extraction: ext, FormFields: probe["form_fields"]}
	if id, ok := probe["request_id"]; ok {
		_ = json.Unmarshal(id, &env.RequestID)
	}
	return env, nil
}

// Handler receives each parsed file.
type Handler func(ctx context.Context, path string, env Envelope) error

// IngestionResult is the per-file ingest outcome.
type IngestionResult struct {
	SourcePath   string
	Deduplicated bool
	HashHex      string
	Err          string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}
