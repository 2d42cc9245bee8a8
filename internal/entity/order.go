package entity

import (
	"time"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/shopspring/decimal"
)

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// ClientInfo holds the normalized contact details of the buyer.
type ClientInfo struct {
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	PhoneNumbers []string `json:"phone_numbers"`
	Emails       []string `json:"emails"`
	Address      Address  `json:"address"`
}

// OrderItem is one order line. Price fields are set only by the price matcher.
type OrderItem struct {
	Product              string           `json:"product"`
	Quantity             int              `json:"quantity"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	TotalPrice           *decimal.Decimal `json:"total_price"`
	Currency             string           `json:"currency"`
	ProductCode          string           `json:"product_code,omitempty"`
	ExtractionConfidence float64          `json:"extraction_confidence"`
	PriceMatchConfidence *float64         `json:"price_match_confidence,omitempty"`
}

// Priced reports whether a price mention was assigned to the item.
func (i OrderItem) Priced() bool {
	return i.UnitPrice != nil
}

type DeliveryInfo struct {
	Mode          constants.DeliveryMode   `json:"mode"`
	DetectedModes []constants.DeliveryMode `json:"detected_modes"`
	Address       Address                  `json:"address"`
	Notes         string                   `json:"notes"`
	Urgency       constants.Urgency        `json:"urgency"`
}

type PaymentInfo struct {
	Mode          constants.PaymentMode   `json:"mode"`
	DetectedModes []constants.PaymentMode `json:"detected_modes"`
	Amount        *decimal.Decimal        `json:"amount"`
	Currency      string                  `json:"currency"`
	Prepaid       bool                    `json:"prepaid"`
}

type Promotion struct {
	Type        constants.PromotionType `json:"type"`
	Value       decimal.Decimal         `json:"value"`
	Code        string                  `json:"code,omitempty"`
	Description string                  `json:"description"`
}

// StockIssue describes an item the stock service cannot fully serve.
type StockIssue struct {
	Product     string `json:"product"`
	ProductCode string `json:"product_code"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Suggestion  string `json:"suggestion,omitempty"`
}

type StockInfo struct {
	Available           bool         `json:"available"`
	Issues              []StockIssue `json:"issues"`
	CanPartiallyFulfill bool         `json:"can_partially_fulfill"`
}

type Metadata struct {
	Language               string     `json:"language"`
	ProcessingTime         float64    `json:"processing_time"`
	ExtractionConfidence   float64    `json:"extraction_confidence"`
	HasFormData            bool       `json:"has_form_data"`
	StockAvailable         bool       `json:"stock_available"`
	ItemsCount             int        `json:"items_count"`
	ClientInfoCompleteness float64    `json:"client_info_completeness"`
	Error                  string     `json:"error,omitempty"`
	ErrorTimestamp         *time.Time `json:"error_timestamp,omitempty"`
}

// OrderStructure is the canonical order built from one extraction event.
type OrderStructure struct {
	OrderID           string           `json:"order_id"`
	Timestamp         time.Time        `json:"timestamp"`
	Intent            string           `json:"intent"`
	IntentConfidence  float64          `json:"intent_confidence"`
	Source            string           `json:"source"`
	Client            ClientInfo       `json:"client"`
	Items             []OrderItem      `json:"items"`
	Delivery          DeliveryInfo     `json:"delivery"`
	Payment           PaymentInfo      `json:"payment"`
	Promotions        []Promotion      `json:"promotions"`
	StockInfo         StockInfo        `json:"stock_info"`
	TotalAmount       *decimal.Decimal `json:"total_amount"`
	TotalWithDiscount *decimal.Decimal `json:"total_with_discount"`
	FormFields        []FormField      `json:"form_fields,omitempty"`
	Metadata          Metadata         `json:"metadata"`
}

// Failed reports whether the order is a fallback produced after an internal failure.
func (o *OrderStructure) Failed() bool {
	return o.Intent == constants.IntentError
}
