package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSplitInstallments_Scenario(t *testing.T) {
	parts := SplitInstallments(dec("100.00"), 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "33.34", parts[0].StringFixed(2))
	assert.Equal(t, "33.33", parts[1].StringFixed(2))
	assert.Equal(t, "33.33", parts[2].StringFixed(2))
}

func TestSplitInstallments_Exactness(t *testing.T) {
	amounts := []string{"0.01", "0.99", "1.00", "10.01", "99.99", "100.00", "1234.56", "7777.77", "100000.03"}
	for _, a := range amounts {
		amount := dec(a)
		for count := 1; count <= 60; count++ {
			parts := SplitInstallments(amount, count)
			require.Len(t, parts, count)

			sum := decimal.Sum(decimal.Zero, parts...)
			assert.True(t, sum.Equal(amount), "sum of %s/%d = %s", a, count, sum)

			lo, hi := decimal.Min(parts[0], parts[1:]...), decimal.Max(parts[0], parts[1:]...)
			assert.True(t, hi.Sub(lo).LessThanOrEqual(dec("0.01")), "spread of %s/%d", a, count)

			for i := 1; i < count; i++ {
				assert.True(t, parts[i].LessThanOrEqual(parts[i-1]), "earlier installments absorb the remainder")
			}
		}
	}
}

func TestSplitInstallments_ClampsCount(t *testing.T) {
	parts := SplitInstallments(dec("50.00"), 0)
	require.Len(t, parts, 1)
	assert.Equal(t, "50.00", parts[0].StringFixed(2))
}

func TestSplitInstallments_RoundsToCent(t *testing.T) {
	parts := SplitInstallments(dec("10.005"), 2)
	assert.Equal(t, "5.01", parts[0].StringFixed(2))
	assert.Equal(t, "5.00", parts[1].StringFixed(2))
}

func TestSplitInstallments_Negative(t *testing.T) {
	parts := SplitInstallments(dec("-1.00"), 3)
	sum := decimal.Sum(decimal.Zero, parts...)
	assert.True(t, sum.Equal(dec("-1.00")))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(12000), Cents(dec("120")))
	assert.Equal(t, int64(1), Cents(dec("0.005")))
	assert.Equal(t, "4380.00", FromCents(438000).StringFixed(2))
}

func TestSum(t *testing.T) {
	got := Sum(dec("0.1"), dec("0.2"), dec("0.004"))
	assert.Equal(t, "0.30", got.StringFixed(2))
}

func TestHasCentPrecision(t *testing.T) {
	assert.True(t, HasCentPrecision(dec("12.30")))
	assert.False(t, HasCentPrecision(dec("12.345")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$4,380.00", Format(dec("4380"), "USD"))
	assert.Equal(t, "-$120.00", Format(dec("-120"), "USD"))
	assert.Equal(t, "+$1.50", FormatSigned(dec("1.5"), "USD"))
}

func TestParse(t *testing.T) {
	d, err := Parse("120.50")
	require.NoError(t, err)
	assert.Equal(t, "120.50", d.StringFixed(2))

	_, err = Parse("NaN")
	assert.Error(t, err)
	_, err = Parse("twelve")
	assert.Error(t, err)
}
