package classify

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

var paymentRules = []rule[constants.PaymentMode]{
	{tag: constants.Cash, patterns: ci(`espèces|cash|liquide`)},
	{tag: constants.MobileMoney, patterns: ci(`mobile money|orange money|mvola|airtel money`)},
	{tag: constants.Card, patterns: ci(`carte|card|visa|mastercard`)},
	{tag: constants.BankTransfer, patterns: ci(`virement|transfert|bank`)},
}

var prepaidTokens = []string{"avance", "acompte"}

// PaymentModes returns every payment mode mentioned in text, in table order.
func PaymentModes(text string) []constants.PaymentMode {
	return detect(paymentRules, text)
}

// ResolvePaymentMode prefers mobile money, then the first detected mode.
func ResolvePaymentMode(detected []constants.PaymentMode) constants.PaymentMode {
	if len(detected) == 0 {
		return constants.PaymentUnknown
	}
	if slices.Contains(detected, constants.MobileMoney) {
		return constants.MobileMoney
	}
	return detected[0]
}

// Payment classifies the payment method found in text. amount is the
// upstream total, passed through untouched.
func Payment(text string, amount *decimal.Decimal, currency string) entity.PaymentInfo {
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	detected := PaymentModes(text)
	return entity.PaymentInfo{
		Mode:          ResolvePaymentMode(detected),
		DetectedModes: detected,
		Amount:        amount,
		Currency:      currency,
		Prepaid:       Prepaid(text),
	}
}

// Prepaid reports whether the buyer mentions an advance payment.
func Prepaid(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range prepaidTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
