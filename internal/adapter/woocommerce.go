package adapter

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

type WooCommercePayload struct {
	PaymentMethod      string                `json:"payment_method"`
	PaymentMethodTitle string                `json:"payment_method_title"`
	Billing            WooCommerceBilling    `json:"billing"`
	LineItems          []WooCommerceLineItem `json:"line_items"`
	ShippingLines      []WooCommerceShipping `json:"shipping_lines"`
}

type WooCommerceBilling struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address1  *string `json:"address_1"`
	City      *string `json:"city"`
	Postcode  *string `json:"postcode"`
	Country   string  `json:"country"`
}

type WooCommerceLineItem struct {
	ProductID int64            `json:"product_id"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

type WooCommerceShipping struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}

// WooCommerce maps the order to the WooCommerce REST order payload. Unknown
// product codes map to product id 0.
func (a *Adapter) WooCommerce(o *entity.OrderStructure) WooCommercePayload {
	lines := make([]WooCommerceLineItem, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, WooCommerceLineItem{
			ProductID: a.productID(it.ProductCode),
			Name:      it.Product,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}
	addr := o.Client.Address
	return WooCommercePayload{
		PaymentMethod:      string(o.Payment.Mode),
		PaymentMethodTitle: o.Payment.Mode.Label(),
		Billing: WooCommerceBilling{
			FirstName: optional(o.Client.FirstName),
			LastName:  optional(o.Client.LastName),
			Phone:     first(o.Client.PhoneNumbers),
			Email:     first(o.Client.Emails),
			Address1:  optional(addr.Street),
			City:      optional(addr.City),
			Postcode:  optional(addr.PostalCode),
			Country:   constants.DefaultRegion,
		},
		LineItems: lines,
		ShippingLines: []WooCommerceShipping{{
			MethodID:    "flat_rate",
			MethodTitle: o.Delivery.Mode.Label(),
			Total:       "0",
		}},
	}
}
