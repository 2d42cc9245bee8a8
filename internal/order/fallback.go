package order

import (
	"time"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

// Fallback is the minimal order returned when construction fails.
func Fallback(id string, now time.Time, err error) *entity.OrderStructure {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	ts := now
	return &entity.OrderStructure{
		OrderID:    id,
		Timestamp:  now,
		Intent:     constants.IntentError,
		Source:     constants.OrderSource,
		Client:     entity.ClientInfo{PhoneNumbers: []string{}, Emails: []string{}},
		Items:      []entity.OrderItem{},
		Promotions: []entity.Promotion{},
		Delivery: entity.DeliveryInfo{
			Mode:          constants.DeliveryUnknown,
			DetectedModes: []constants.DeliveryMode{},
			Urgency:       constants.UrgencyNormal,
		},
		Payment: entity.PaymentInfo{
			Mode:          constants.PaymentUnknown,
			DetectedModes: []constants.PaymentMode{},
			Currency:      constants.DefaultCurrency,
		},
		StockInfo: entity.StockInfo{Issues: []entity.StockIssue{}},
		Metadata: entity.Metadata{
			Language:       "unknown",
			Error:          msg,
			ErrorTimestamp: &ts,
		},
	}
}
