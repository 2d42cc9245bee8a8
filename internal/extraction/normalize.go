package extraction

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

var (
	topLevelSynonyms = [][2]string{
		{"items", "order_items"},
		{"products", "order_items"},
		{"phones", "phone_numbers"},
		{"phone", "phone_numbers"},
		{"email", "emails"},
		{"total", "total_amount"},
		{"firstname", "first_name"},
		{"lastname", "last_name"},
	}
	itemSynonyms    = [][2]string{{"name", "product"}, {"qty", "quantity"}}
	addressSynonyms = [][2]string{{"zip", "postal_code"}, {"postcode", "postal_code"}, {"address", "street"}}

	stringKeys  = []string{"text", "language", "intent", "first_name", "last_name"}
	allowedKeys = map[string]struct{}{
		"text": {}, "language": {}, "intent": {}, "intent_confidence": {},
		"phone_numbers": {}, "emails": {}, "first_name": {}, "last_name": {},
		"address": {}, "order_items": {}, "prices": {}, "total_amount": {},
		"processing_time": {},
	}
	addressKeys = []string{"street", "city", "postal_code", "country"}
)

// normalizer accumulates what it had to drop or rewrite.
type normalizer struct {
	dropped []string
}

func (n *normalizer) drop(what string) {
	n.dropped = append(n.dropped, what)
}

func (n *normalizer) rename(m map[string]any, from, to, scope string) {
	v, ok := m[from]
	if !ok {
		return
	}
	if _, exists := m[to]; !exists {
		m[to] = v
	}
	delete(m, from)
	n.drop(scope + from + "->" + to)
}

// Normalize makes an upstream extraction payload fit the schema:
//   - renames known synonyms (items -> order_items, phones -> phone_numbers, total -> total_amount)
//   - drops nulls, empty strings and values of the wrong shape
//   - coerces numeric strings to numbers and scalars to one-element lists
//   - removes unknown keys
func Normalize(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}

	n := &normalizer{}
	for _, s := range topLevelSynonyms {
		n.rename(m, s[0], s[1], "")
	}
	for k, v := range m {
		if v == nil {
			delete(m, k)
			n.drop(k + "(null)")
		}
	}

	for _, k := range stringKeys {
		n.stringField(m, k, k)
	}
	if v, ok := m["intent"].(string); ok {
		m["intent"] = strings.ToUpper(v)
	}

	n.unitField(m, "intent_confidence", "intent_confidence")
	n.numberField(m, "processing_time", "processing_time")
	n.numberField(m, "total_amount", "total_amount")

	n.stringList(m, "phone_numbers")
	n.stringList(m, "emails")
	n.address(m)
	n.items(m)
	n.prices(m)

	for k := range m {
		if _, ok := allowedKeys[k]; !ok {
			delete(m, k)
			n.drop(k + "(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, n.dropped, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(n.dropped) > 0 {
		logger.Warn("extraction.normalize", "dropped", n.dropped)
	}
	return out, n.dropped, nil
}

func (n *normalizer) stringField(m map[string]any, k, label string) {
	v, ok := m[k]
	if !ok {
		return
	}
	s, ok := asString(v)
	if !ok || s == "" {
		delete(m, k)
		n.drop(label + "(empty)")
		return
	}
	m[k] = s
}

func (n *normalizer) numberField(m map[string]any, k, label string) {
	v, ok := m[k]
	if !ok {
		return
	}
	f, ok := asNumber(v)
	if !ok || f < 0 {
		delete(m, k)
		n.drop(label + "(number)")
		return
	}
	m[k] = f
}

func (n *normalizer) unitField(m map[string]any, k, label string) {
	n.numberField(m, k, label)
	if f, ok := m[k].(float64); ok {
		m[k] = math.Min(f, 1)
	}
}

func (n *normalizer) stringList(m map[string]any, k string) {
	v, ok := m[k]
	if !ok {
		return
	}
	var in []any
	switch t := v.(type) {
	case []any:
		in = t
	default:
		in = []any{t}
	}
	out := make([]any, 0, len(in))
	for _, e := range in {
		if s, ok := asString(e); ok && s != "" {
			out = append(out, s)
		} else {
			n.drop(k + "[](type)")
		}
	}
	m[k] = out
}

func (n *normalizer) address(m map[string]any) {
	v, ok := m["address"]
	if !ok {
		return
	}
	var a map[string]any
	switch t := v.(type) {
	case map[string]any:
		a = t
	case string:
		a = map[string]any{"street": t}
	default:
		delete(m, "address")
		n.drop("address(type)")
		return
	}
	for _, s := range addressSynonyms {
		n.rename(a, s[0], s[1], "address.")
	}
	clean := make(map[string]any, len(addressKeys))
	for _, k := range addressKeys {
		if s, ok := asString(a[k]); ok && s != "" {
			clean[k] = s
		}
	}
	for k := range a {
		if _, ok := clean[k]; !ok && a[k] != nil {
			n.drop("address." + k)
		}
	}
	m["address"] = clean
}

func (n *normalizer) items(m map[string]any) {
	list, ok := n.objectList(m, "order_items")
	if !ok {
		return
	}
	out := make([]any, 0, len(list))
	for _, it := range list {
		for _, s := range itemSynonyms {
			n.rename(it, s[0], s[1], "order_items[].")
		}
		product, ok := asString(it["product"])
		if !ok || product == "" {
			n.drop("order_items[](product)")
			continue
		}
		clean := map[string]any{"product": product}
		if q, ok := asNumber(it["quantity"]); ok {
			if q = math.Trunc(q); q >= 1 && q <= math.MaxInt32 {
				clean["quantity"] = q
			} else {
				n.drop("order_items[](quantity)")
			}
		}
		if c, ok := asNumber(it["confidence"]); ok && c >= 0 {
			clean["confidence"] = math.Min(c, 1)
		}
		out = append(out, clean)
	}
	m["order_items"] = out
}

func (n *normalizer) prices(m map[string]any) {
	list, ok := n.objectList(m, "prices")
	if !ok {
		return
	}
	out := make([]any, 0, len(list))
	for _, p := range list {
		value, ok := asNumber(p["value"])
		if !ok || value < 0 {
			n.drop("prices[](value)")
			continue
		}
		clean := map[string]any{"value": value}
		if s, ok := asString(p["currency"]); ok && s != "" {
			clean["currency"] = strings.ToUpper(s)
		}
		if s, ok := asString(p["text"]); ok && s != "" {
			clean["text"] = s
		}
		out = append(out, clean)
	}
	m["prices"] = out
}

// objectList returns the object entries of list-valued key k, dropping the rest.
func (n *normalizer) objectList(m map[string]any, k string) ([]map[string]any, bool) {
	v, ok := m[k]
	if !ok {
		return nil, false
	}
	var in []any
	switch t := v.(type) {
	case []any:
		in = t
	case map[string]any:
		in = []any{t}
	default:
		delete(m, k)
		n.drop(k + "(type)")
		return nil, false
	}
	out := make([]map[string]any, 0, len(in))
	for _, e := range in {
		if obj, ok := e.(map[string]any); ok {
			out = append(out, obj)
		} else {
			n.drop(k + "[](type)")
		}
	}
	return out, true
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// asNumber accepts JSON numbers and strings such as "5 000", "5000 Ar" or "12,5".
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.Map(func(r rune) rune {
			switch {
			case r >= '0' && r <= '9', r == '.', r == '-':
				return r
			case r == ',':
				return '.'
			}
			return -1
		}, t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
