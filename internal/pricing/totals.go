package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// Total returns the upstream total when one was supplied, otherwise the sum
// of priced items. It is nil when nothing is priced.
func Total(items []entity.OrderItem, upstream *decimal.Decimal) *decimal.Decimal {
	if upstream != nil && !upstream.IsZero() {
		t := *upstream
		return &t
	}
	sum := decimal.Zero
	priced := false
	for _, it := range items {
		if it.TotalPrice == nil {
			continue
		}
		sum = sum.Add(*it.TotalPrice)
		priced = true
	}
	if !priced {
		return nil
	}
	return &sum
}

// ApplyPromotions discounts total by every promotion in order. Percentages
// are taken from the undiscounted total and the result never drops below 0.
func ApplyPromotions(total *decimal.Decimal, promotions []entity.Promotion) *decimal.Decimal {
	if total == nil {
		return nil
	}
	discounted := *total
	for _, p := range promotions {
		switch p.Type {
		case constants.PercentageDiscount:
			discounted = discounted.Sub(total.Mul(p.Value).Div(hundred))
		case constants.FixedDiscount:
			discounted = discounted.Sub(p.Value)
		}
	}
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return &discounted
}
