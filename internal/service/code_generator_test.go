package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	gen := NumericCodeGenerator{}
	for i := 0; i < 1000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.True(t, gen.ValidFormat(code), "generated %q", code)
	}
}

func TestGenerateCoversFullRange(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling test")
	}
	gen := NumericCodeGenerator{}
	sawLeadingZero := false
	min, max := 999999, 0
	for i := 0; i < 100000; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		value, err := strconv.Atoi(code)
		require.NoError(t, err)
		if value < 100000 {
			sawLeadingZero = true
			require.Equal(t, '0', rune(code[0]))
		}
		if value < min {
			min = value
		}
		if value > max {
			max = value
		}
	}
	// With 100k uniform samples over 1M values these bounds are effectively
	// certain; a miss points at a biased generator.
	assert.True(t, sawLeadingZero, "no value below 100000 in 100k samples")
	assert.Less(t, min, 50000)
	assert.Greater(t, max, 950000)
}

func TestValidFormat(t *testing.T) {
	gen := NumericCodeGenerator{}
	cases := map[string]bool{
		"042017":  true,
		"000000":  true,
		"999999":  true,
		"":        false,
		"12345":   false,
		"1234567": false,
		"12345a":  false,
		"12 345":  false,
		"１２３４５６":  false, // full-width digits are not ASCII
	}
	for code, want := range cases {
		assert.Equal(t, want, gen.ValidFormat(code), "code %q", code)
	}
}
