package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	UpsertProduct(ctx context.Context, p entity.Product) error
}

type productRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewProductRepository(db *DB, logger *slog.Logger) ProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.SQL.QueryContext(ctx, "SELECT code, name, external_id FROM products ORDER BY code")
	if err != nil {
		r.logger.Error("failed to list products", "error", err)
		return nil, fmt.Errorf("%w: list products: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.Code, &p.Name, &p.ExternalID); err != nil {
			return nil, fmt.Errorf("%w: scan product: %v", common.ErrDatabase, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list products: %v", common.ErrDatabase, err)
	}
	return out, nil
}

func (r *productRepository) UpsertProduct(ctx context.Context, p entity.Product) error {
	v := common.NewValidator().
		Field("code", p.Code, common.Required).
		Field("name", p.Name, common.Required)
	if v.HasErrors() {
		return common.NewAppError(common.CodeInvalidProduct, v.ErrorMessage(), common.ErrValidation)
	}
	q := r.db.rebind(`INSERT INTO products (code, name, external_id) VALUES (?, ?, ?)
ON CONFLICT (code) DO UPDATE SET name = excluded.name, external_id = excluded.external_id`)
	if _, err := r.db.SQL.ExecContext(ctx, q, p.Code, p.Name, p.ExternalID); err != nil {
		r.logger.Error("failed to upsert product", "code", p.Code, "error", err)
		return fmt.Errorf("%w: upsert product: %v", common.ErrDatabase, err)
	}
	return nil
}
