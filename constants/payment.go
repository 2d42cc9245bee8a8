package constants

type PaymentMode string

const (
	Cash           PaymentMode = "cash"
	MobileMoney    PaymentMode = "mobile_money"
	Card           PaymentMode = "card"
	BankTransfer   PaymentMode = "bank_transfer"
	PaymentUnknown PaymentMode = "unknown"
)

var paymentLabels = map[PaymentMode]string{
	Cash:           "Espèces",
	MobileMoney:    "Mobile Money",
	Card:           "Carte Bancaire",
	BankTransfer:   "Virement Bancaire",
	PaymentUnknown: "Non spécifié",
}

// Label returns the customer-facing (French) title of the payment mode.
func (m PaymentMode) Label() string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}
