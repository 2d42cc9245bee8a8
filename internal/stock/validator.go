// Package stock checks requested quantities against the stock service.
package stock

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

// Availability is the stock service answer for one product.
type Availability struct {
	InStock     bool   `json:"in_stock"`
	Quantity    int    `json:"quantity"`
	Alternative string `json:"alternative,omitempty"`
}

// Checker is implemented by stock collaborators.
type Checker interface {
	CheckAvailability(ctx context.Context, productCode string, quantity int) (Availability, error)
}

// CodeResolver maps a product name to its catalog code.
type CodeResolver interface {
	CodeForName(name string) (string, bool)
}

// Validator collects stock issues for an order. Collaborator errors never
// block an order: the affected item is simply not reported.
type Validator struct {
	checker  Checker
	resolver CodeResolver
	logger   *slog.Logger
}

// NewValidator returns a validator. A nil checker turns Validate into a no-op
// reporting everything available; a nil resolver disables name lookups.
func NewValidator(checker Checker, resolver CodeResolver, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{checker: checker, resolver: resolver, logger: logger}
}

// Validate checks every item that has a resolvable product code.
func (v *Validator) Validate(ctx context.Context, items []entity.OrderItem) entity.StockInfo {
	info := entity.StockInfo{Available: true, Issues: []entity.StockIssue{}}
	if v == nil || v.checker == nil {
		return info
	}

	for _, item := range items {
		code := v.resolveCode(item)
		if code == "" {
			continue
		}
		avail, err := v.checker.CheckAvailability(ctx, code, item.Quantity)
		if err != nil {
			v.logger.Warn("stock.check.error", "product_code", code, "quantity", item.Quantity, "retryable", common.Retryable(err), "error", err)
			continue
		}
		if avail.InStock {
			continue
		}
		info.Issues = append(info.Issues, entity.StockIssue{
			Product:     item.Product,
			ProductCode: code,
			Requested:   item.Quantity,
			Available:   avail.Quantity,
			Suggestion:  avail.Alternative,
		})
	}

	info.Available = len(info.Issues) == 0
	info.CanPartiallyFulfill = len(info.Issues) > 0 && len(info.Issues) < len(items)
	if !info.Available {
		v.logger.Info("stock.check.issues", "issues", len(info.Issues), "items", len(items))
	}
	return info
}

func (v *Validator) resolveCode(item entity.OrderItem) string {
	if item.ProductCode != "" {
		return item.ProductCode
	}
	if v.resolver == nil {
		return ""
	}
	code, _ := v.resolver.CodeForName(item.Product)
	return code
}
