package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

type promotionRule struct {
	pattern *regexp.Regexp
	parse   func(m []string) (entity.Promotion, bool)
}

var promotionRules = []promotionRule{
	{
		pattern: regexp.MustCompile(`(?i)(réduction|promo|offre|rabais)\s+de\s+(\d+)\s*%`),
		parse:   func(m []string) (entity.Promotion, bool) { return percentage(m[2]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)(\d+)%\s+(de\s+)?(réduction|rabais|promo)`),
		parse:   func(m []string) (entity.Promotion, bool) { return percentage(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)(gratuit|offerts?|cadeau)\s+(avec|pour)`),
		parse: func(m []string) (entity.Promotion, bool) {
			return entity.Promotion{
				Type:        constants.FreeItem,
				Value:       decimal.Zero,
				Description: strings.ToLower(m[0]),
			}, true
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)(code\s+promo|bon\s+de\s+réduction):?\s*([A-Z0-9]+)`),
		parse: func(m []string) (entity.Promotion, bool) {
			code := strings.ToUpper(m[2])
			return entity.Promotion{
				Type:        constants.PromoCode,
				Value:       decimal.Zero,
				Code:        code,
				Description: "Code promo: " + code,
			}, true
		},
	},
}

func percentage(raw string) (entity.Promotion, bool) {
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsZero() {
		return entity.Promotion{}, false
	}
	return entity.Promotion{
		Type:        constants.PercentageDiscount,
		Value:       v,
		Description: fmt.Sprintf("%s%% de réduction", v.String()),
	}, true
}

// Promotions extracts every promotion mentioned in text. Matches are kept in
// pattern order, then position order, without de-duplication.
func Promotions(text string) []entity.Promotion {
	out := make([]entity.Promotion, 0)
	for _, r := range promotionRules {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			if p, ok := r.parse(m); ok {
				out = append(out, p)
			}
		}
	}
	return out
}
