package classify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

func TestDelivery(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		mode     constants.DeliveryMode
		detected []constants.DeliveryMode
	}{
		{
			name:     "home",
			text:     "Livraison à domicile svp, paiement mobile money",
			mode:     constants.HomeDelivery,
			detected: []constants.DeliveryMode{constants.HomeDelivery},
		},
		{
			name:     "express beats home",
			text:     "livraison express, livrez au domicile",
			mode:     constants.ExpressDelivery,
			detected: []constants.DeliveryMode{constants.HomeDelivery, constants.ExpressDelivery},
		},
		{
			name:     "store beats pickup",
			text:     "je passe chercher au point relais",
			mode:     constants.StoreDelivery,
			detected: []constants.DeliveryMode{constants.Pickup, constants.StoreDelivery},
		},
		{
			name:     "nothing",
			text:     "bonjour",
			mode:     constants.DeliveryUnknown,
			detected: []constants.DeliveryMode{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delivery(tt.text, entity.Address{City: "Antananarivo"})
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.detected, got.DetectedModes)
			assert.Equal(t, "Antananarivo", got.Address.City)
		})
	}
}

func TestDeliveryNotesAndUrgency(t *testing.T) {
	text := "Livrez demain avant 10h ou le soir, c'est urgent"
	assert.Equal(t, "avant 10; soir; demain", DeliveryNotes(text))
	assert.Equal(t, constants.UrgencyHigh, Urgency(text))
	assert.Equal(t, constants.UrgencyNormal, Urgency("quand vous pouvez"))
	assert.Equal(t, "", DeliveryNotes("rien"))
}

func TestPayment(t *testing.T) {
	total := decimal.NewFromInt(15000)

	got := Payment("je paie en espèces ou par mvola, acompte possible", &total, "")
	assert.Equal(t, constants.MobileMoney, got.Mode)
	assert.Equal(t, []constants.PaymentMode{constants.Cash, constants.MobileMoney}, got.DetectedModes)
	assert.True(t, got.Prepaid)
	assert.Equal(t, constants.DefaultCurrency, got.Currency)
	require.NotNil(t, got.Amount)
	assert.True(t, got.Amount.Equal(total))

	got = Payment("paiement par carte ou virement", nil, "EUR")
	assert.Equal(t, constants.Card, got.Mode)
	assert.False(t, got.Prepaid)
	assert.Equal(t, "EUR", got.Currency)

	assert.Equal(t, constants.PaymentUnknown, Payment("merci", nil, "").Mode)
}

func TestPromotions(t *testing.T) {
	promos := Promotions("10% de réduction, un sac offert avec la robe, code promo: noel24")
	require.Len(t, promos, 3)

	assert.Equal(t, constants.PercentageDiscount, promos[0].Type)
	assert.True(t, promos[0].Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "10% de réduction", promos[0].Description)

	assert.Equal(t, constants.FreeItem, promos[1].Type)
	assert.True(t, promos[1].Value.IsZero())
	assert.Equal(t, "offert avec", promos[1].Description)

	assert.Equal(t, constants.PromoCode, promos[2].Type)
	assert.Equal(t, "NOEL24", promos[2].Code)
}

func TestPromotions_Cumulative(t *testing.T) {
	promos := Promotions("réduction de 5% sur tout, et encore 10% de rabais")
	require.Len(t, promos, 2)
	assert.True(t, promos[0].Value.Equal(decimal.NewFromInt(5)))
	assert.True(t, promos[1].Value.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, Promotions("aucune offre"))
}

func TestPromotions_AmountIsNotPercentage(t *testing.T) {
	assert.Empty(t, Promotions("réduction de 5000 Ar sur la robe"))

	promos := Promotions("promo de 20 % sur tout")
	require.Len(t, promos, 1)
	assert.True(t, promos[0].Value.Equal(decimal.NewFromInt(20)))
}
