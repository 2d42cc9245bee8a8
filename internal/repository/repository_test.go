package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/internal/catalog"
	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openMemory(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: ":memory:"}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(quietLogger()) })
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, Postgres, DialectFor("postgres://u:p@localhost:5432/orders"))
	assert.Equal(t, Postgres, DialectFor("postgresql://localhost/orders"))
	assert.Equal(t, SQLite, DialectFor(":memory:"))
	assert.Equal(t, SQLite, DialectFor("/var/lib/orders.db"))
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{}, quietLogger())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	lite := &DB{Dialect: SQLite}
	q := "SELECT * FROM stock WHERE product_code = ? AND quantity > ?"

	assert.Equal(t, "SELECT * FROM stock WHERE product_code = $1 AND quantity > $2", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestHealthCheck(t *testing.T) {
	db := openMemory(t)
	assert.NoError(t, db.HealthCheck(context.Background(), time.Second, quietLogger()))
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	repo := NewProductRepository(db, quietLogger())

	require.NoError(t, repo.UpsertProduct(ctx, entity.Product{Code: "RB-01", Name: "Robe rouge", ExternalID: 11}))
	require.NoError(t, repo.UpsertProduct(ctx, entity.Product{Code: "SC-02", Name: "Sac en cuir", ExternalID: 12}))
	require.NoError(t, repo.UpsertProduct(ctx, entity.Product{Code: "RB-01", Name: "Robe rouge longue", ExternalID: 21}))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, entity.Product{Code: "RB-01", Name: "Robe rouge longue", ExternalID: 21}, products[0])

	err = repo.UpsertProduct(ctx, entity.Product{Name: "no code"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCatalogLoadsFromProducts(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	repo := NewProductRepository(db, quietLogger())
	require.NoError(t, repo.UpsertProduct(ctx, entity.Product{Code: "SC-02", Name: "Sac en cuir", ExternalID: 12}))

	cat, err := catalog.Load(ctx, repo, catalog.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	code, ok := cat.CodeForName("sac en cuir")
	require.True(t, ok)
	assert.Equal(t, "SC-02", code)
	assert.Equal(t, int64(12), cat.ExternalID("SC-02"))
}

func TestStockRepository(t *testing.T) {
	ctx := context.Background()
	db := openMemory(t)
	products := NewProductRepository(db, quietLogger())
	repo := NewStockRepository(db, quietLogger())

	require.NoError(t, products.UpsertProduct(ctx, entity.Product{Code: "RB-01", Name: "Robe rouge"}))
	require.NoError(t, repo.SetStock(ctx, "RB-01", 3, "RB-02"))

	avail, err := repo.CheckAvailability(ctx, "RB-01", 2)
	require.NoError(t, err)
	assert.True(t, avail.InStock)
	assert.Equal(t, 3, avail.Quantity)

	avail, err = repo.CheckAvailability(ctx, "RB-01", 5)
	require.NoError(t, err)
	assert.False(t, avail.InStock)
	assert.Equal(t, "RB-02", avail.Alternative)

	_, err = repo.CheckAvailability(ctx, "ZZ-99", 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.SetStock(ctx, "RB-01", -1, ""), common.ErrValidation)
}
