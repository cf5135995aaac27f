package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
)

// Places is the number of decimal places every monetary intermediate is rounded to.
const Places = 2

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// amounts are persisted as decimal(15,2): 13 integer digits.
	maxMagnitude = decimal.New(1, 13)
)

// round2 rounds half away from zero to two places.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// RoundAmount rounds an entered amount to the precision it is stored at,
// so a stored line re-derives to the same extended rate.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return round2(d)
}

func checkBound(field string, d decimal.Decimal) error {
	if d.Abs().GreaterThanOrEqual(maxMagnitude) {
		return domainerr.New(domainerr.ErrCalculationOverflow, "%s %s exceeds the storable range", field, d.String())
	}
	return nil
}

// CoerceAmount converts free-form user input to a decimal. Empty or
// non-numeric input yields zero rather than an error.
func CoerceAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromFloat converts a float input, rejecting NaN and infinities.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, domainerr.New(domainerr.ErrCalculationOverflow, "non-finite value %v", f)
	}
	return decimal.NewFromFloat(f), nil
}
