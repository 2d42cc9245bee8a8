package extraction

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/internal/common"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

func newTestDecoder() *Decoder {
	return NewDecoder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDecode_Contract(t *testing.T) {
	raw := []byte(`{
		"text": "Je veux 2 sacs noirs, prix 5000 Ar",
		"language": "fr",
		"intent": "ORDER",
		"intent_confidence": 0.9,
		"phone_numbers": ["0341234567"],
		"emails": [],
		"first_name": "Rija",
		"address": {"street": "Lot II", "city": "Antananarivo"},
		"order_items": [{"product": "sacs noirs", "quantity": 2, "confidence": 0.7}],
		"prices": [{"value": 5000, "currency": "MGA", "text": "5000 Ar"}],
		"total_amount": 10000,
		"processing_time": 0.42
	}`)

	got, err := newTestDecoder().Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "ORDER", got.Intent)
	assert.Equal(t, []string{"0341234567"}, got.PhoneNumbers)
	assert.Equal(t, entity.Address{Street: "Lot II", City: "Antananarivo"}, got.Address)
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, 2, got.OrderItems[0].Quantity)
	require.NotNil(t, got.OrderItems[0].Confidence)
	assert.Equal(t, 0.7, *got.OrderItems[0].Confidence)
	require.Len(t, got.Prices, 1)
	assert.True(t, got.Prices[0].Value.Equal(decimal.NewFromInt(5000)))
	require.NotNil(t, got.TotalAmount)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(10000)))
}

func TestDecode_Lenient(t *testing.T) {
	raw := []byte(`{
		"text": "robe",
		"intent": " order ",
		"intent_confidence": "0.8",
		"phones": "034 12 345 67",
		"email": "a@b.mg",
		"items": [{"name": "robe", "qty": "3"}, "garbage", {"quantity": 1}, {"name": "jupe", "quantity": 1e20}],
		"prices": [{"value": "12 000", "text": "12 000 Ar", "currency": "mga"}, {"text": "cher"}],
		"total": null,
		"address": "Lot II Analakely",
		"sentiment": "positive"
	}`)

	got, err := newTestDecoder().Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "ORDER", got.Intent)
	assert.Equal(t, 0.8, got.IntentConfidence)
	assert.Equal(t, []string{"034 12 345 67"}, got.PhoneNumbers)
	assert.Equal(t, []string{"a@b.mg"}, got.Emails)
	require.Len(t, got.OrderItems, 2)
	assert.Equal(t, entity.DetectedItem{Product: "robe", Quantity: 3}, got.OrderItems[0])
	assert.Equal(t, entity.DetectedItem{Product: "jupe"}, got.OrderItems[1])
	require.Len(t, got.Prices, 1)
	assert.True(t, got.Prices[0].Value.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, "MGA", got.Prices[0].Currency)
	assert.Nil(t, got.TotalAmount)
	assert.Equal(t, "Lot II Analakely", got.Address.Street)
}

func TestNormalize_ReportsDrops(t *testing.T) {
	out, dropped, err := Normalize([]byte(`{"items": [], "foo": 1, "last_name": null}`), nil)
	require.NoError(t, err)
	assert.Contains(t, dropped, "items->order_items")
	assert.Contains(t, dropped, "foo(unknown)")
	assert.Contains(t, dropped, "last_name(null)")

	_, dropped, err = Normalize([]byte(`{"order_items": [{"product": "robe", "quantity": -1e20}]}`), nil)
	require.NoError(t, err)
	assert.Contains(t, dropped, "order_items[](quantity)")

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, map[string]any{"order_items": []any{}}, m)
}

func TestDecode_Invalid(t *testing.T) {
	d := newTestDecoder()
	for _, raw := range []string{`not json`, `[1,2]`, `"text"`} {
		_, err := d.Decode([]byte(raw))
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, common.ErrInvalidInput, raw)
	}

	got, err := d.Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, got.OrderItems)
}

func TestDecodeFormFields(t *testing.T) {
	d := newTestDecoder()

	fields, err := d.DecodeFormFields([]byte(`[{"type": "Phone", "label": "Téléphone", "value": 341234567}, 3, {"type": "text", "label": "Nom", "value": "rakoto"}]`))
	require.NoError(t, err)
	assert.Equal(t, []entity.FormField{
		{Type: "phone", Label: "Téléphone", Value: "341234567"},
		{Type: "text", Label: "Nom", Value: "rakoto"},
	}, fields)

	fields, err = d.DecodeFormFields(nil)
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = d.DecodeFormFields([]byte(" null "))
	require.NoError(t, err)
	assert.Nil(t, fields)

	_, err = d.DecodeFormFields([]byte(`{"type": "phone"}`))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
