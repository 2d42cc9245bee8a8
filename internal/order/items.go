package order

import (
	"strings"

	"github.com/joseph-ayodele/live-orders/internal/catalog"
	"github.com/joseph-ayodele/live-orders/internal/entity"
	"github.com/joseph-ayodele/live-orders/internal/scoring"
)

const defaultItemConfidence = 0.5

// buildItems turns detected product mentions into unpriced order lines.
func buildItems(detected []entity.DetectedItem, currency string) []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(detected))
	for _, d := range detected {
		product := strings.TrimSpace(d.Product)
		conf := defaultItemConfidence
		if d.Confidence != nil {
			conf = scoring.Clamp(*d.Confidence)
		}
		code, _ := catalog.ExtractCode(product)
		items = append(items, entity.OrderItem{
			Product:              product,
			Quantity:             max(d.Quantity, 1),
			Currency:             currency,
			ProductCode:          code,
			ExtractionConfidence: conf,
		})
	}
	return items
}
