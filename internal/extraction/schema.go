package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildExtractionJSONSchema returns the JSON-Schema (draft 2020-12 subset) of
// an NLP extraction payload after normalization.
func BuildExtractionJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	unit := map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}

	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"product"},
		"properties": map[string]any{
			"product":    str,
			"quantity":   map[string]any{"type": "integer"},
			"confidence": unit,
		},
	}
	price := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"value"},
		"properties": map[string]any{
			"value":    map[string]any{"type": "number", "minimum": 0.0},
			"currency": str,
			"text":     str,
		},
	}
	address := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"street":      str,
			"city":        str,
			"postal_code": str,
			"country":     str,
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"text":              str,
			"language":          str,
			"intent":            str,
			"intent_confidence": unit,
			"phone_numbers":     map[string]any{"type": "array", "items": str},
			"emails":            map[string]any{"type": "array", "items": str},
			"first_name":        str,
			"last_name":         str,
			"address":           address,
			"order_items":       map[string]any{"type": "array", "items": item},
			"prices":            map[string]any{"type": "array", "items": price},
			"total_amount":      map[string]any{"type": "number", "minimum": 0.0},
			"processing_time":   map[string]any{"type": "number", "minimum": 0.0},
		},
	}
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildExtractionJSONSchema())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("extraction.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateJSON validates data against the extraction schema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
