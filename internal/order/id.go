package order

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/live-orders/constants"
)

// NewOrderID returns ORD-YYYYMMDD-XXXXXX with six upper-case hex digits.
func NewOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return constants.OrderIDPrefix + "-" + now.Format("20060102") + "-" + suffix
}
