package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_SameCurrency(t *testing.T) {
	a := MustFromString("100.50", "SAR")
	b := MustFromString("49.50", "SAR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, "SAR", sum.Currency)
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	a := MustFromString("100", "SAR")
	b := MustFromString("100", "USD")

	_, err := a.Add(b)
	require.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Sub(b)
	require.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Cmp(b)
	require.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestSub_AllowsNegativeResult(t *testing.T) {
	a := MustFromString("10", "SAR")
	b := MustFromString("25", "SAR")

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.Equal(t, "-15.00 SAR", diff.String())
}

func TestRound2_HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"10.995", "11.00"},
		{"2.675", "2.68"},
	}
	for _, tc := range cases {
		m := MustFromString(tc.in, "SAR")
		assert.Equal(t, tc.want, m.Round2().Amount.StringFixed(2), "rounding %s", tc.in)
	}
}

func TestFromString_Invalid(t *testing.T) {
	_, err := FromString("not-a-number", "SAR")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestGreaterOrEqual(t *testing.T) {
	a := MustFromString("100", "SAR")
	b := MustFromString("100.00", "SAR")

	ok, err := a.GreaterOrEqual(b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Zero("SAR").GreaterOrEqual(a)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaxableFee_Gross(t *testing.T) {
	fee := NewTaxableFee(decimal.RequireFromString("500"), "SAR", decimal.RequireFromString("0.15"))

	gross := fee.Gross()
	assert.True(t, gross.Amount.Equal(decimal.RequireFromString("575")))
	assert.Equal(t, "SAR", gross.Currency)

	net := fee.Net()
	assert.True(t, net.Amount.Equal(decimal.RequireFromString("500")))
}

func TestTaxableFee_GrossDoesNotRound(t *testing.T) {
	// 99.99 * 1.15 = 114.9885, kept exact until the caller rounds.
	fee := NewTaxableFee(decimal.RequireFromString("99.99"), "SAR", decimal.RequireFromString("0.15"))

	gross := fee.Gross()
	assert.True(t, gross.Amount.Equal(decimal.RequireFromString("114.9885")))
	assert.Equal(t, "114.99", gross.Round2().Amount.StringFixed(2))
}

func TestTaxableFee_WithAmount(t *testing.T) {
	fee := NewTaxableFee(decimal.RequireFromString("500"), "SAR", decimal.RequireFromString("0.15"))
	discounted := fee.WithAmount(decimal.RequireFromString("400"))

	assert.True(t, discounted.Amount.Equal(decimal.RequireFromString("400")))
	assert.Equal(t, "SAR", discounted.Currency)
	assert.True(t, discounted.TaxRate.Equal(fee.TaxRate))
}
