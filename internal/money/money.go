package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every stored amount is rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// Round rounds an amount to the cent.
func Round(d decimal.Decimal) decimal.Decimal { return d.Round(Places) }

// Cents converts an amount to integer cents, rounding half away from zero.
func Cents(d decimal.Decimal) int64 { return d.Mul(hundred).Round(0).IntPart() }

// FromCents converts integer cents back to a decimal amount.
func FromCents(c int64) decimal.Decimal { return decimal.New(c, -Places) }

// SplitInstallments divides amount into count parts of whole cents. The first
// cents%count parts carry one extra cent, so the parts always sum to amount and
// differ from each other by at most one cent. A count below 1 is treated as 1.
func SplitInstallments(amount decimal.Decimal, count int) []decimal.Decimal {
	count = max(count, 1)
	cents := Cents(amount)
	n := int64(count)
	base := cents / n
	remainder := cents % n
	if remainder < 0 {
		// Negative amounts floor toward minus infinity like positive ones.
		base--
		remainder += n
	}

	parts := make([]decimal.Decimal, count)
	for i := range parts {
		c := base
		if int64(i) < remainder {
			c++
		}
		parts[i] = FromCents(c)
	}
	return parts
}

// Sum adds amounts exactly and rounds the total to the cent once at the end.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	return Round(decimal.Sum(decimal.Zero, amounts...))
}

// HasCentPrecision reports whether d has no digits beyond the cent.
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(Round(d))
}

// Format renders an amount with the currency's symbol and grouping rules,
// e.g. "R$4.380,00" for BRL.
func Format(d decimal.Decimal, currency string) string {
	return gomoney.New(Cents(d), currency).Display()
}

// FormatSigned is like Format but always shows a sign for non-zero amounts.
func FormatSigned(d decimal.Decimal, currency string) string {
	if d.IsPositive() {
		return "+" + Format(d, currency)
	}
	return Format(d, currency)
}

// Parse reads a user-supplied amount and rounds it to the cent.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
