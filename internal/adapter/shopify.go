package adapter

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

type ShopifyPayload struct {
	Order ShopifyOrder `json:"order"`
}

type ShopifyOrder struct {
	Email           *string           `json:"email"`
	Phone           *string           `json:"phone"`
	FirstName       *string           `json:"first_name"`
	LastName        *string           `json:"last_name"`
	BillingAddress  ShopifyAddress    `json:"billing_address"`
	ShippingAddress ShopifyAddress    `json:"shipping_address"`
	LineItems       []ShopifyLineItem `json:"line_items"`
	TotalPrice      *decimal.Decimal  `json:"total_price"`
	Currency        string            `json:"currency"`
	SourceName      string            `json:"source_name"`
}

type ShopifyAddress struct {
	Address1 *string `json:"address1"`
	City     *string `json:"city"`
	Zip      *string `json:"zip"`
	Country  string  `json:"country"`
}

type ShopifyLineItem struct {
	Title    string           `json:"title"`
	SKU      *string          `json:"sku"`
	Quantity int              `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// Shopify maps the order to the Shopify Admin order payload.
func (a *Adapter) Shopify(o *entity.OrderStructure) ShopifyPayload {
	addr := shopifyAddress(o.Client.Address)
	lines := make([]ShopifyLineItem, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, ShopifyLineItem{
			Title:    it.Product,
			SKU:      optional(it.ProductCode),
			Quantity: it.Quantity,
			Price:    it.UnitPrice,
		})
	}
	return ShopifyPayload{Order: ShopifyOrder{
		Email:           first(o.Client.Emails),
		Phone:           first(o.Client.PhoneNumbers),
		FirstName:       optional(o.Client.FirstName),
		LastName:        optional(o.Client.LastName),
		BillingAddress:  addr,
		ShippingAddress: addr,
		LineItems:       lines,
		TotalPrice:      o.TotalAmount,
		Currency:        constants.DefaultCurrency,
		SourceName:      "facebook_ocr",
	}}
}

func shopifyAddress(a entity.Address) ShopifyAddress {
	country := a.Country
	if country == "" {
		country = constants.DefaultCountryName
	}
	return ShopifyAddress{
		Address1: optional(a.Street),
		City:     optional(a.City),
		Zip:      optional(a.PostalCode),
		Country:  country,
	}
}
