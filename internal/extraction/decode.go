// Package extraction is the single entry point for upstream NLP payloads: it
// normalizes, validates and decodes them into typed records.
package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

// Decoder turns raw JSON into extraction records.
type Decoder struct {
	logger *slog.Logger
}

func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// Decode normalizes raw, checks it against the extraction schema and decodes it.
func (d *Decoder) Decode(raw []byte) (entity.NLPExtractionResult, error) {
	var out entity.NLPExtractionResult

	normalized, _, err := Normalize(raw, d.logger)
	if err != nil {
		return out, common.NewAppError(common.CodeInvalidExtraction, "payload is not a JSON object", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	if err := ValidateJSON(normalized); err != nil {
		return out, common.NewAppError(common.CodeInvalidExtraction, "payload does not match the extraction contract", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}

	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, common.NewAppError(common.CodeInvalidExtraction, "decode extraction", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return out, nil
}

// DecodeFormFields decodes the optional form-fields array. Empty input and
// JSON null yield no fields. Non-object entries are skipped.
func (d *Decoder) DecodeFormFields(raw []byte) ([]entity.FormField, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var list []any
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, common.NewAppError(common.CodeInvalidFormFields, "form fields must be a JSON array", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	out := make([]entity.FormField, 0, len(list))
	for _, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			d.logger.Warn("extraction.form_field.skipped", "reason", "not an object")
			continue
		}
		typ, _ := asString(obj["type"])
		label, _ := asString(obj["label"])
		value, _ := asString(obj["value"])
		out = append(out, entity.FormField{
			Type:  strings.ToLower(typ),
			Label: label,
			Value: value,
		})
	}
	return out, nil
}
