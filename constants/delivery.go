package constants

type DeliveryMode string

const (
	HomeDelivery    DeliveryMode = "home_delivery"
	ExpressDelivery DeliveryMode = "express_delivery"
	Pickup          DeliveryMode = "pickup"
	StoreDelivery   DeliveryMode = "store_delivery"
	DeliveryUnknown DeliveryMode = "unknown"
)

// DeliveryPriority is the order in which detected modes win.
var DeliveryPriority = []DeliveryMode{
	ExpressDelivery,
	HomeDelivery,
	StoreDelivery,
	Pickup,
}

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyNormal Urgency = "normal"
)

var deliveryLabels = map[DeliveryMode]string{
	HomeDelivery:    "Livraison à domicile",
	ExpressDelivery: "Livraison express",
	Pickup:          "Retrait en magasin",
	StoreDelivery:   "Point relais",
	DeliveryUnknown: "Non spécifié",
}

// Label returns the customer-facing (French) title of the delivery mode.
func (m DeliveryMode) Label() string {
	if l, ok := deliveryLabels[m]; ok {
		return l
	}
	return string(m)
}
