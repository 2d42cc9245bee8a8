package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcess(t *testing.T) {
	assert.Equal(t, "reduction de 10", Process("Réduction  de 10%!"))
	assert.Equal(t, "sacs noirs", Process("  SACS-noirs "))
	assert.Equal(t, "", Process("!!!"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("Robe Rouge", "robe rouge"))
	assert.Equal(t, 0, Ratio("", "robe"))
	// "abcd" vs "abce": 3 shared runes out of 8 total, distance 2
	assert.Equal(t, 75, Ratio("abcd", "abce"))
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100, PartialRatio("sacs noirs", "je veux 2 sacs noirs, prix 5000 Ar"))
	assert.Equal(t, 100, PartialRatio("je veux 2 sacs noirs", "sacs noirs"))
	assert.Less(t, PartialRatio("chaussures", "5000 Ar"), 60)
}

func TestTokenRatios(t *testing.T) {
	assert.Equal(t, 100, TokenSortRatio("noirs sacs", "sacs noirs"))
	assert.Equal(t, 100, TokenSetRatio("sac noir", "sac noir sac noir cuir"))
	assert.Less(t, TokenSortRatio("robe", "pantalon"), 50)
}

func TestBestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"robe", "robe rouge 20000"},
		{"", ""},
		{"écharpe", "echarpe"},
		{"t-shirt blanc", "2 t-shirts blancs 8000 Ar"},
	}
	for _, p := range pairs {
		s := BestRatio(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
	assert.Equal(t, 100, BestRatio("écharpe", "echarpe"))
}

func TestExtractOne(t *testing.T) {
	choices := []string{"Robe rouge", "Sac à main noir", "Chaussures cuir"}

	idx, score := ExtractOne("sac a main noir", choices)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 100, score)

	idx, _ = ExtractOne("robe", choices)
	assert.Equal(t, 0, idx)

	idx, score = ExtractOne("robe", nil)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0, score)
}
