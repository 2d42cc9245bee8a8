// Package scoring rates how much an extracted order can be trusted.
package scoring

import (
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

// Weights of the five sub-scores; they sum to 1.
const (
	WeightIntent        = 0.15
	WeightClient        = 0.25
	WeightItems         = 0.30
	WeightPriceMatching = 0.20
	WeightFormFields    = 0.10
)

var criticalFormTypes = map[string]bool{"phone": true, "email": true, "name": true}

// Breakdown keeps every sub-score next to the final confidence.
type Breakdown struct {
	Intent        float64 `json:"intent"`
	Client        float64 `json:"client"`
	Items         float64 `json:"items"`
	PriceMatching float64 `json:"price_matching"`
	FormFields    float64 `json:"form_fields"`
	Multiplier    float64 `json:"multiplier"`
	Overall       float64 `json:"overall"`
}

// Score computes the overall extraction confidence of an order built from in.
func Score(in entity.NLPExtractionResult, formFields []entity.FormField, items []entity.OrderItem) Breakdown {
	b := Breakdown{
		Intent:        Clamp(in.IntentConfidence),
		Client:        ClientScore(in),
		Items:         ItemsScore(items),
		PriceMatching: PriceMatchingScore(items),
		FormFields:    FormScore(formFields),
		Multiplier:    QualityMultiplier(in, items),
	}
	sum := b.Intent*WeightIntent +
		b.Client*WeightClient +
		b.Items*WeightItems +
		b.PriceMatching*WeightPriceMatching +
		b.FormFields*WeightFormFields
	b.Overall = Clamp(sum * b.Multiplier)
	return b
}

// ClientScore rates the raw contact details of the extraction.
func ClientScore(in entity.NLPExtractionResult) float64 {
	score := 0.0
	if len(in.PhoneNumbers) > 0 {
		score += 0.4
	}
	switch {
	case in.FirstName != "" && in.LastName != "":
		score += 0.3
	case in.FirstName != "" || in.LastName != "":
		score += 0.15
	}
	if in.Address.Street != "" {
		score += 0.2
	}
	if in.Address.City != "" {
		score += 0.1
	}
	return min(score, 1)
}

// ItemsScore rewards more items, confident extraction and priced lines.
func ItemsScore(items []entity.OrderItem) float64 {
	if len(items) == 0 {
		return 0
	}
	n := float64(len(items))
	count := min(n/5, 1) * 0.3

	conf := 0.0
	for _, it := range items {
		conf += it.ExtractionConfidence
	}
	avg := conf / n * 0.4

	priced := float64(pricedCount(items)) / n * 0.3
	return Clamp(count + avg + priced)
}

// PriceMatchingScore averages match confidence over priced items, weighted by coverage.
func PriceMatchingScore(items []entity.OrderItem) float64 {
	priced := pricedCount(items)
	if priced == 0 {
		return 0
	}
	sum, n := 0.0, 0
	for _, it := range items {
		if it.Priced() && it.PriceMatchConfidence != nil && *it.PriceMatchConfidence > 0 {
			sum += *it.PriceMatchConfidence
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	coverage := float64(priced) / float64(len(items))
	return Clamp(sum / float64(n) * coverage)
}

// FormScore rates supplied form fields; a small base applies when there are none.
func FormScore(fields []entity.FormField) float64 {
	if len(fields) == 0 {
		return 0.1
	}
	score := min(float64(len(fields))/10, 1) * 0.6
	for _, f := range fields {
		if criticalFormTypes[f.Type] && f.Value != "" {
			score += 0.1
		}
	}
	return min(score, 1)
}

// QualityMultiplier applies the post-hoc penalties and bonus in sequence.
func QualityMultiplier(in entity.NLPExtractionResult, items []entity.OrderItem) float64 {
	m := 1.0
	if Clamp(in.IntentConfidence) < 0.5 {
		m *= 0.8
	}
	if in.Address.Street != "" && in.Address.City != "" {
		m *= 1.1
	}
	if len(items) > 0 && pricedCount(items) == 0 {
		m *= 0.7
	}
	return m
}

// Completeness is the share of {first name, last name, phone, email, street} present.
func Completeness(c entity.ClientInfo) float64 {
	present := 0
	for _, ok := range []bool{
		c.FirstName != "",
		c.LastName != "",
		len(c.PhoneNumbers) > 0,
		len(c.Emails) > 0,
		c.Address.Street != "",
	} {
		if ok {
			present++
		}
	}
	return float64(present) / 5
}

func pricedCount(items []entity.OrderItem) int {
	n := 0
	for _, it := range items {
		if it.Priced() {
			n++
		}
	}
	return n
}

// Clamp bounds v to [0,1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case !(v >= 0):
		return 0
	case v > 1:
		return 1
	}
	return v
}
