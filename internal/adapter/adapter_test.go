package adapter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

type idMap map[string]int64

func (m idMap) ExternalID(code string) int64 { return m[code] }

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sampleOrder() *entity.OrderStructure {
	return &entity.OrderStructure{
		OrderID:   "ORD-20250314-ABC123",
		Timestamp: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		Intent:    constants.IntentOrder,
		Client: entity.ClientInfo{
			FirstName:    "Jean",
			LastName:     "Rakoto",
			PhoneNumbers: []string{"+261341234567", "+261321234567"},
			Emails:       []string{"jean@example.mg"},
			Address:      entity.Address{Street: "Lot II", City: "Antananarivo"},
		},
		Items: []entity.OrderItem{
			{Product: "Robe rouge", Quantity: 2, UnitPrice: price(25000), TotalPrice: price(50000), Currency: "MGA", ProductCode: "RB-01"},
			{Product: "Sac", Quantity: 1},
		},
		Delivery:    entity.DeliveryInfo{Mode: constants.HomeDelivery},
		Payment:     entity.PaymentInfo{Mode: constants.MobileMoney},
		TotalAmount: price(50000),
		StockInfo:   entity.StockInfo{Available: true, Issues: []entity.StockIssue{}},
	}
}

func TestParseServiceType(t *testing.T) {
	tests := []struct {
		in   string
		want ServiceType
	}{
		{"shopify", ServiceShopify},
		{" WooCommerce ", ServiceWooCommerce},
		{"", ServiceDefault},
		{"magento", ServiceDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseServiceType(tt.in), tt.in)
	}
}

func TestPrepareDispatch(t *testing.T) {
	a := New(nil)
	o := sampleOrder()

	assert.IsType(t, ShopifyPayload{}, a.Prepare(o, "shopify"))
	assert.IsType(t, WooCommercePayload{}, a.Prepare(o, "woocommerce"))
	assert.IsType(t, DefaultPayload{}, a.Prepare(o, "unknown-service"))
}

func TestDefault(t *testing.T) {
	p := New(nil).Default(sampleOrder())

	assert.Equal(t, "ORD-20250314-ABC123", p.ExternalReference)
	assert.Equal(t, defaultSource, p.Source)
	require.NotNil(t, p.Customer.Phone)
	assert.Equal(t, "+261341234567", *p.Customer.Phone)
	require.NotNil(t, p.Customer.Email)
	assert.Equal(t, "jean@example.mg", *p.Customer.Email)
	assert.Equal(t, "home_delivery", p.DeliveryMethod)
	assert.Equal(t, "mobile_money", p.PaymentMethod)
	assert.NotNil(t, p.Promotions)

	require.Len(t, p.OrderDetails, 2)
	assert.Equal(t, "RB-01", *p.OrderDetails[0].ProductCode)
	assert.Nil(t, p.OrderDetails[1].ProductCode)
	assert.Nil(t, p.OrderDetails[1].UnitPrice)
	assert.Equal(t, "MGA", p.OrderDetails[1].Currency)
}

func TestDefaultEmptyClient(t *testing.T) {
	o := sampleOrder()
	o.Client = entity.ClientInfo{PhoneNumbers: []string{}, Emails: []string{}}

	raw, err := json.Marshal(New(nil).Default(o))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	customer := decoded["customer"].(map[string]any)
	assert.Nil(t, customer["phone"])
	assert.Nil(t, customer["email"])
	assert.Nil(t, customer["first_name"])
}

func TestShopify(t *testing.T) {
	p := New(nil).Shopify(sampleOrder())

	assert.Equal(t, "facebook_ocr", p.Order.SourceName)
	assert.Equal(t, "MGA", p.Order.Currency)
	assert.Equal(t, constants.DefaultCountryName, p.Order.BillingAddress.Country)
	assert.Equal(t, p.Order.BillingAddress, p.Order.ShippingAddress)
	require.NotNil(t, p.Order.BillingAddress.City)
	assert.Equal(t, "Antananarivo", *p.Order.BillingAddress.City)
	assert.Nil(t, p.Order.BillingAddress.Zip)
	require.Len(t, p.Order.LineItems, 2)
	assert.Equal(t, "Robe rouge", p.Order.LineItems[0].Title)
	assert.True(t, p.Order.LineItems[0].Price.Equal(decimal.NewFromInt(25000)))
	assert.True(t, p.Order.TotalPrice.Equal(decimal.NewFromInt(50000)))

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"order":{`)
}

func TestWooCommerce(t *testing.T) {
	p := New(idMap{"RB-01": 42}).WooCommerce(sampleOrder())

	assert.Equal(t, "mobile_money", p.PaymentMethod)
	assert.Equal(t, "Mobile Money", p.PaymentMethodTitle)
	assert.Equal(t, constants.DefaultRegion, p.Billing.Country)
	require.Len(t, p.LineItems, 2)
	assert.Equal(t, int64(42), p.LineItems[0].ProductID)
	assert.Equal(t, int64(0), p.LineItems[1].ProductID)
	require.Len(t, p.ShippingLines, 1)
	assert.Equal(t, "flat_rate", p.ShippingLines[0].MethodID)
	assert.Equal(t, "Livraison à domicile", p.ShippingLines[0].MethodTitle)
	assert.Equal(t, "0", p.ShippingLines[0].Total)
}

func TestWooCommerceWithoutIDs(t *testing.T) {
	p := New(nil).WooCommerce(sampleOrder())
	for _, line := range p.LineItems {
		assert.Zero(t, line.ProductID)
	}
}
