package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/live-orders/internal/entity"
)

const (
	ordersSheet = "Orders"
	itemsSheet  = "Items"
)

var orderHeaders = []string{
	"Order ID",
	"Timestamp",
	"Intent",
	"Client",
	"Phone",
	"Email",
	"Delivery",
	"Payment",
	"Items",
	"Total",
	"Total With Discount",
	"Stock Available",
	"Confidence",
	"Error",
}

var itemHeaders = []string{
	"Order ID",
	"Product",
	"Product Code",
	"Quantity",
	"Unit Price",
	"Total Price",
	"Currency",
	"Match Confidence",
}

// Service turns built orders into XLSX workbooks for review.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportOrdersXLSX returns a workbook (as bytes) with one row per order on the
// Orders sheet and one row per line on the Items sheet.
func (s *Service) ExportOrdersXLSX(ctx context.Context, orders []*entity.OrderStructure) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(ordersSheet)
	f.SetActiveSheet(activeIndex)

	writeRow(f, ordersSheet, 1, toAny(orderHeaders)...)
	writeRow(f, itemsSheet, 1, toAny(itemHeaders)...)

	orderRow, itemRow := 2, 2
	for _, o := range orders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if o == nil {
			continue
		}
		writeRow(f, ordersSheet, orderRow,
			o.OrderID,
			o.Timestamp.UTC().Format(time.RFC3339),
			o.Intent,
			clientName(o.Client),
			strings.Join(o.Client.PhoneNumbers, ", "),
			strings.Join(o.Client.Emails, ", "),
			o.Delivery.Mode.Label(),
			o.Payment.Mode.Label(),
			len(o.Items),
			amount(o.TotalAmount),
			amount(o.TotalWithDiscount),
			o.StockInfo.Available,
			o.Metadata.ExtractionConfidence,
			truncate(o.Metadata.Error, 140),
		)
		orderRow++

		for _, it := range o.Items {
			matchConf := ""
			if it.PriceMatchConfidence != nil {
				matchConf = fmt.Sprintf("%.2f", *it.PriceMatchConfidence)
			}
			writeRow(f, itemsSheet, itemRow,
				o.OrderID,
				it.Product,
				it.ProductCode,
				it.Quantity,
				amount(it.UnitPrice),
				amount(it.TotalPrice),
				it.Currency,
				matchConf,
			)
			itemRow++
		}
	}

	_ = f.SetColWidth(ordersSheet, "A", "A", 24) // id
	_ = f.SetColWidth(ordersSheet, "B", "B", 22) // timestamp
	_ = f.SetColWidth(ordersSheet, "D", "F", 28) // client
	_ = f.SetColWidth(ordersSheet, "G", "H", 22)
	_ = f.SetColWidth(ordersSheet, "N", "N", 48) // error
	_ = f.SetColWidth(itemsSheet, "A", "A", 24)
	_ = f.SetColWidth(itemsSheet, "B", "B", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"orders", orderRow-2,
		"items", itemRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

func clientName(c entity.ClientInfo) string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func amount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
