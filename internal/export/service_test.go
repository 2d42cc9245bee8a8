package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

func testOrders() []*entity.OrderStructure {
	unit := decimal.NewFromInt(25000)
	total := decimal.NewFromInt(50000)
	conf := 0.9
	return []*entity.OrderStructure{
		{
			OrderID:   "ORD-20250314-ABC123",
			Timestamp: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
			Intent:    constants.IntentOrder,
			Client: entity.ClientInfo{
				FirstName:    "Jean",
				LastName:     "Rakoto",
				PhoneNumbers: []string{"+261341234567"},
				Emails:       []string{},
			},
			Items: []entity.OrderItem{
				{Product: "Robe rouge", Quantity: 2, UnitPrice: &unit, TotalPrice: &total, Currency: "MGA", PriceMatchConfidence: &conf},
				{Product: "Sac", Quantity: 1, Currency: "MGA"},
			},
			Delivery:    entity.DeliveryInfo{Mode: constants.HomeDelivery},
			Payment:     entity.PaymentInfo{Mode: constants.Cash},
			TotalAmount: &total,
		},
		nil,
		{
			OrderID:  "ORD-20250314-FFFFFF",
			Intent:   constants.IntentError,
			Items:    []entity.OrderItem{},
			Delivery: entity.DeliveryInfo{Mode: constants.DeliveryUnknown},
			Payment:  entity.PaymentInfo{Mode: constants.PaymentUnknown},
			Metadata: entity.Metadata{Error: "boom"},
		},
	}
}

func TestExportOrdersXLSX(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := svc.ExportOrdersXLSX(context.Background(), testOrders())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	orders, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "Order ID", orders[0][0])
	assert.Equal(t, "ORD-20250314-ABC123", orders[1][0])
	assert.Equal(t, "2025-03-14T09:30:00Z", orders[1][1])
	assert.Equal(t, "Jean Rakoto", orders[1][3])
	assert.Equal(t, "Livraison à domicile", orders[1][6])
	assert.Equal(t, "Espèces", orders[1][7])
	assert.Equal(t, "50000", orders[1][9])
	assert.Equal(t, "ERROR", orders[2][2])
	assert.Equal(t, "boom", orders[2][13])

	items, err := f.GetRows(itemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Robe rouge", items[1][1])
	assert.Equal(t, "25000", items[1][4])
	assert.Equal(t, "0.90", items[1][7])
	assert.Equal(t, "Sac", items[2][1])
}

func TestExportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(nil).ExportOrdersXLSX(ctx, testOrders())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "é", truncate("éé", 1))
}
