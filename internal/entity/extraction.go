package entity

import "github.com/shopspring/decimal"

// NLPExtractionResult is the payload produced by the upstream NLP extractor.
type NLPExtractionResult struct {
	Text             string           `json:"text"`
	Language         string           `json:"language"`
	Intent           string           `json:"intent"`
	IntentConfidence float64          `json:"intent_confidence"`
	PhoneNumbers     []string         `json:"phone_numbers"`
	Emails           []string         `json:"emails"`
	FirstName        string           `json:"first_name,omitempty"`
	LastName         string           `json:"last_name,omitempty"`
	Address          Address          `json:"address"`
	OrderItems       []DetectedItem   `json:"order_items"`
	Prices           []DetectedPrice  `json:"prices"`
	TotalAmount      *decimal.Decimal `json:"total_amount,omitempty"`
	ProcessingTime   float64          `json:"processing_time"`
}

// DetectedItem is a free-text product mention.
type DetectedItem struct {
	Product    string   `json:"product"`
	Quantity   int      `json:"quantity"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// DetectedPrice is a price mention found in the source text.
type DetectedPrice struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency,omitempty"`
	Text     string          `json:"text"`
}

// FormField is one parsed field of a filled-in order form.
type FormField struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Value string `json:"value"`
}
