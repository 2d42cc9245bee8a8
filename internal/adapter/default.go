package adapter

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

const defaultSource = "ocr_automated_extraction"

type DefaultPayload struct {
	ExternalReference string             `json:"external_reference"`
	Customer          DefaultCustomer    `json:"customer"`
	OrderDetails      []DefaultLine      `json:"order_details"`
	DeliveryMethod    string             `json:"delivery_method"`
	PaymentMethod     string             `json:"payment_method"`
	TotalAmount       *decimal.Decimal   `json:"total_amount"`
	TotalWithDiscount *decimal.Decimal   `json:"total_with_discount"`
	Promotions        []entity.Promotion `json:"promotions"`
	StockInfo         entity.StockInfo   `json:"stock_info"`
	Metadata          entity.Metadata    `json:"metadata"`
	Source            string             `json:"source"`
}

type DefaultCustomer struct {
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Phone     *string        `json:"phone"`
	Email     *string        `json:"email"`
	Address   entity.Address `json:"address"`
}

type DefaultLine struct {
	ProductName string           `json:"product_name"`
	ProductCode *string          `json:"product_code"`
	Quantity    int              `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TotalPrice  *decimal.Decimal `json:"total_price"`
	Currency    string           `json:"currency"`
}

// Default is the service-neutral payload.
func (a *Adapter) Default(o *entity.OrderStructure) DefaultPayload {
	lines := make([]DefaultLine, 0, len(o.Items))
	for _, it := range o.Items {
		currency := it.Currency
		if currency == "" {
			currency = constants.DefaultCurrency
		}
		lines = append(lines, DefaultLine{
			ProductName: it.Product,
			ProductCode: optional(it.ProductCode),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			Currency:    currency,
		})
	}
	promotions := o.Promotions
	if promotions == nil {
		promotions = []entity.Promotion{}
	}
	return DefaultPayload{
		ExternalReference: o.OrderID,
		Customer: DefaultCustomer{
			FirstName: optional(o.Client.FirstName),
			LastName:  optional(o.Client.LastName),
			Phone:     first(o.Client.PhoneNumbers),
			Email:     first(o.Client.Emails),
			Address:   o.Client.Address,
		},
		OrderDetails:      lines,
		DeliveryMethod:    string(o.Delivery.Mode),
		PaymentMethod:     string(o.Payment.Mode),
		TotalAmount:       o.TotalAmount,
		TotalWithDiscount: o.TotalWithDiscount,
		Promotions:        promotions,
		StockInfo:         o.StockInfo,
		Metadata:          o.Metadata,
		Source:            defaultSource,
	}
}
