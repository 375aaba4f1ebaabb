package loader

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain number", input: "37.5", want: 37.5},
		{name: "comma decimal separator", input: "37,5", want: 37.5},
		{name: "integer", input: "15", want: 15},
		{name: "surrounding whitespace", input: "  0,25 ", want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDecimal(tt.input), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(ParseDecimal("")))
	assert.True(t, math.IsNaN(ParseDecimal("n/a")))
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 15, parseCount("15"))
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("-3"))
	assert.Equal(t, 0, parseCount("texto"))
}

func TestParseFlag(t *testing.T) {
	assert.True(t, parseFlag("1"))
	assert.True(t, parseFlag("1,0"))
	assert.False(t, parseFlag("0"))
	assert.False(t, parseFlag(""))
	assert.False(t, parseFlag("2"))
}

func TestParsePPECharge(t *testing.T) {
	assert.True(t, parsePPECharge("Cobra EPP a la Universidad"))
	assert.False(t, parsePPECharge("No cobra EPP"))
	assert.False(t, parsePPECharge(""))
}

func TestParsePPERequired(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "no exige", input: "No exige", want: 0},
		{name: "parcial", input: "Parcial", want: 0.5},
		{name: "completo", input: "Completo", want: 1},
		{name: "case insensitive", input: "PARCIAL", want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePPERequired(tt.input)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}

	assert.Nil(t, parsePPERequired(""))
	assert.Nil(t, parsePPERequired("otro"))
}
