package constants

// Intent values produced by the upstream intent detector, plus ERROR for fallback orders.
const (
	IntentOrder         = "ORDER"
	IntentInquiry       = "INQUIRY"
	IntentComplaint     = "COMPLAINT"
	IntentUnprocessable = "UNPROCESSABLE"
	IntentError         = "ERROR"
)

type PromotionType string

const (
	PercentageDiscount PromotionType = "percentage_discount"
	FixedDiscount      PromotionType = "fixed_discount"
	PromoCode          PromotionType = "promo_code"
	FreeItem           PromotionType = "free_item"
)

// Locale defaults (Madagascar).
const (
	DefaultRegion      = "MG"
	DefaultCountryCode = "261"
	DefaultCurrency    = "MGA"
	DefaultCountryName = "Madagascar"
)

const (
	OrderSource    = "ocr_nlp_extraction"
	OrderIDPrefix  = "ORD"
	OrderIDPattern = `^ORD-\d{8}-[0-9A-F]{6}$`
)
