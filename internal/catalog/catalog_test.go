package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/internal/entity"
)

var testProducts = []entity.Product{
	{Code: "RB-101", Name: "Robe rouge", ExternalID: 501},
	{Code: "SAC200", Name: "Sac à main noir", ExternalID: 502},
	{Code: "CH-300", Name: "Chaussures cuir"},
}

func TestExtractCode(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{text: "robe code: rb-101", want: "RB-101", ok: true},
		{text: "Réf XL200 taille M", want: "XL200", ok: true},
		{text: "article 42", want: "42", ok: true},
		{text: "sac AB-123 noir", want: "AB-123", ok: true},
		{text: "chemise CHM45", want: "CHM45", ok: true},
		{text: "sacs noirs", ok: false},
	}
	for _, tt := range tests {
		got, ok := ExtractCode(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestCatalog_CodeForName(t *testing.T) {
	c, err := New(testProducts, WithCacheSize(2))
	require.NoError(t, err)

	code, ok := c.CodeForName("sac a main noir")
	require.True(t, ok)
	assert.Equal(t, "SAC200", code)

	// served from the cache the second time
	code, ok = c.CodeForName("Sac à main  noir")
	require.True(t, ok)
	assert.Equal(t, "SAC200", code)

	_, ok = c.CodeForName("téléphone portable")
	assert.False(t, ok)
	_, ok = c.CodeForName("   ")
	assert.False(t, ok)
}

func TestCatalog_ExternalID(t *testing.T) {
	c, err := New(testProducts)
	require.NoError(t, err)

	assert.Equal(t, int64(501), c.ExternalID("RB-101"))
	assert.Equal(t, int64(0), c.ExternalID("CH-300"))
	assert.Equal(t, int64(0), c.ExternalID("NOPE"))
	assert.Equal(t, int64(0), c.ExternalID(""))
	assert.Equal(t, 3, c.Len())
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	_, ok := c.CodeForName("robe")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.ExternalID("RB-101"))
	assert.Equal(t, 0, c.Len())
}

type stubSource struct {
	products []entity.Product
	err      error
}

func (s stubSource) ListProducts(context.Context) ([]entity.Product, error) {
	return s.products, s.err
}

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), stubSource{products: testProducts})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(context.Background(), stubSource{err: errors.New("boom")})
	require.Error(t, err)
}
