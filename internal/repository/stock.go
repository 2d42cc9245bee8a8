package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/stock"
)

// StockRepository answers availability questions from the stock table. It
// satisfies stock.Checker.
type StockRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewStockRepository(db *DB, logger *slog.Logger) *StockRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockRepository{db: db, logger: logger}
}

// CheckAvailability reports whether quantity units of productCode are on hand.
// Unknown codes return an error wrapping common.ErrNotFound.
func (r *StockRepository) CheckAvailability(ctx context.Context, productCode string, quantity int) (stock.Availability, error) {
	var (
		onHand      int
		alternative string
	)
	q := r.db.rebind("SELECT quantity, alternative FROM stock WHERE product_code = ?")
	err := r.db.SQL.QueryRowContext(ctx, q, productCode).Scan(&onHand, &alternative)
	if errors.Is(err, sql.ErrNoRows) {
		return stock.Availability{}, fmt.Errorf("stock for %q: %w", productCode, common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to read stock", "product_code", productCode, "error", err)
		return stock.Availability{}, fmt.Errorf("%w: read stock: %v", common.ErrDatabase, err)
	}
	return stock.Availability{
		InStock:     onHand >= quantity,
		Quantity:    onHand,
		Alternative: alternative,
	}, nil
}

// SetStock records the quantity on hand for productCode.
func (r *StockRepository) SetStock(ctx context.Context, productCode string, quantity int, alternative string) error {
	if quantity < 0 {
		return common.NewAppError(common.CodeInvalidStock, "quantity must not be negative", common.ErrValidation)
	}
	q := r.db.rebind(`INSERT INTO stock (product_code, quantity, alternative) VALUES (?, ?, ?)
ON CONFLICT (product_code) DO UPDATE SET quantity = excluded.quantity, alternative = excluded.alternative`)
	if _, err := r.db.SQL.ExecContext(ctx, q, productCode, quantity, alternative); err != nil {
		r.logger.Error("failed to set stock", "product_code", productCode, "error", err)
		return fmt.Errorf("%w: set stock: %v", common.ErrDatabase, err)
	}
	return nil
}
