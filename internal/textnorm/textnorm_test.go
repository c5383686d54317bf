package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "domotica", Fold("Domótica"))
	assert.Equal(t, "camara de vigilancia", Fold("CÁMARA de vigilancia"))
	assert.Equal(t, "150 m²", Fold("150 m²"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"instalacion", "electrica", "150", "m"}, Tokens("Instalación eléctrica, 150 m."))
	assert.Empty(t, Tokens("  ...  "))
}

func TestCountPhrase(t *testing.T) {
	tokens := Tokens("puesta a tierra y otra puesta a tierra; tierra")

	tests := []struct {
		name   string
		phrase []string
		want   int
	}{
		{name: "multi word", phrase: []string{"puesta", "a", "tierra"}, want: 2},
		{name: "single word", phrase: []string{"tierra"}, want: 3},
		{name: "absent", phrase: []string{"sprinkler"}, want: 0},
		{name: "empty phrase", phrase: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountPhrase(tokens, tt.phrase))
		})
	}
}

func TestCountPhrase_WholeTokensOnly(t *testing.T) {
	assert.Equal(t, 0, CountPhrase(Tokens("required reduced"), []string{"red"}))
	assert.Equal(t, 1, CountPhrase(Tokens("a red network"), []string{"red"}))
}
