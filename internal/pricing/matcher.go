// Package pricing attaches detected prices to order items and computes order
// totals.
package pricing

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/catalog"
	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/fuzzy"
)

const (
	DefaultThreshold     = 60
	DefaultContextRadius = 30

	proximityRange = 100
	proximityBonus = 20
)

// Matcher assigns price mentions to order items by fuzzy similarity between
// the product name and the text around each mention.
type Matcher struct {
	Threshold       float64
	ContextRadius   int
	DefaultCurrency string
}

// NewMatcher returns a matcher with the default threshold and context window.
func NewMatcher() *Matcher {
	return &Matcher{
		Threshold:       DefaultThreshold,
		ContextRadius:   DefaultContextRadius,
		DefaultCurrency: constants.DefaultCurrency,
	}
}

// mention is a price located in the source text.
type mention struct {
	price   entity.DetectedPrice
	pos     int // rune offset, -1 when not found
	context string
	used    bool
}

// Assign prices items in place and returns how many received a price. Items
// are visited in order and each mention goes to at most one item. Negative
// mentions are never assigned.
func (m *Matcher) Assign(items []entity.OrderItem, prices []entity.DetectedPrice, text string) int {
	if len(items) == 0 || len(prices) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	mentions := m.locate(prices, lower)

	assigned := 0
	for i := range items {
		item := &items[i]
		productPos := runeIndex(lower, strings.ToLower(item.Product), 0)

		best := -1
		bestScore := 0.0
		for j := range mentions {
			if mentions[j].used || mentions[j].price.Value.IsNegative() {
				continue
			}
			score := m.score(item.Product, productPos, mentions[j])
			if score > m.Threshold && score > bestScore {
				best, bestScore = j, score
			}
		}
		if best < 0 {
			continue
		}
		mentions[best].used = true
		m.apply(item, mentions[best].price, bestScore)
		assigned++
	}
	return assigned
}

func (m *Matcher) score(product string, productPos int, mn mention) float64 {
	score := float64(fuzzy.BestRatio(product, mn.context))
	if productPos >= 0 && mn.pos >= 0 {
		score += Proximity(productPos - mn.pos)
	}
	return score
}

func (m *Matcher) apply(item *entity.OrderItem, price entity.DetectedPrice, score float64) {
	unit := price.Value
	total := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
	item.UnitPrice = &unit
	item.TotalPrice = &total

	item.Currency = price.Currency
	if item.Currency == "" {
		item.Currency = m.currency()
	}
	conf := min(score/100, 1)
	item.PriceMatchConfidence = &conf

	if item.ProductCode == "" && price.Text != "" {
		if code, ok := catalog.ExtractCode(price.Text); ok {
			item.ProductCode = code
		}
	}
}

func (m *Matcher) currency() string {
	if m.DefaultCurrency == "" {
		return constants.DefaultCurrency
	}
	return m.DefaultCurrency
}

// locate finds every mention in the lower-cased text. Identical mention texts
// resolve to successive occurrences.
func (m *Matcher) locate(prices []entity.DetectedPrice, lower string) []mention {
	runes := []rune(lower)
	next := make(map[string]int)
	out := make([]mention, len(prices))
	for i, p := range prices {
		needle := strings.ToLower(strings.TrimSpace(p.Text))
		mn := mention{price: p, pos: -1, context: p.Text}
		if needle != "" {
			pos := runeIndex(lower, needle, next[needle])
			if pos < 0 {
				pos = runeIndex(lower, needle, 0)
			}
			if pos >= 0 {
				n := utf8.RuneCountInString(needle)
				next[needle] = pos + n
				mn.pos = pos
				mn.context = window(runes, pos, pos+n, m.ContextRadius)
			}
		}
		out[i] = mn
	}
	return out
}

// Proximity is the bonus for two occurrences distance runes apart.
func Proximity(distance int) float64 {
	if distance < 0 {
		distance = -distance
	}
	return float64(proximityRange-min(distance, proximityRange)) / proximityRange * proximityBonus
}

// runeIndex returns the rune offset of needle in s at or after rune offset from.
func runeIndex(s, needle string, from int) int {
	if needle == "" {
		return -1
	}
	start := 0
	for i := 0; i < from && start < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[start:])
		start += size
	}
	idx := strings.Index(s[start:], needle)
	if idx < 0 {
		return -1
	}
	return from + utf8.RuneCountInString(s[start:start+idx])
}

func window(runes []rune, start, end, radius int) string {
	lo := max(start-radius, 0)
	hi := min(end+radius, len(runes))
	return string(runes[lo:hi])
}
