// Package pricing computes purchase-order line amounts and order totals.
//
// Every function is pure: the same inputs always give the same outputs and
// nothing is cached between calls. Each monetary intermediate is rounded to
// two places (half away from zero) before it feeds the next step, so a line's
// figures always add up exactly as displayed.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
	"github.com/sangkips/procura-api/internal/domain/enum"
)

// DiscountSpec is a line discount: a percentage of the extended rate, or a flat amount.
type DiscountSpec struct {
	Kind  enum.DiscountType `json:"discount_type"`
	Value decimal.Decimal   `json:"discount_value"`
}

// Percentage builds a percentage discount.
func Percentage(value decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: enum.DiscountTypePercentage, Value: value}
}

// Fixed builds a flat discount.
func Fixed(value decimal.Decimal) DiscountSpec {
	return DiscountSpec{Kind: enum.DiscountTypeFixed, Value: value}
}

// NoDiscount is a zero flat discount.
func NoDiscount() DiscountSpec {
	return Fixed(decimal.Zero)
}

// LineAmounts is the monetary breakdown of one line.
type LineAmounts struct {
	ExtendedRate   decimal.Decimal `json:"extended_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// PriceLine computes the breakdown of a single line.
//
// The taxable amount is not clamped: a discount larger than the extended rate
// yields negative taxable, tax and total figures.
func PriceLine(unitPrice, quantity decimal.Decimal, discount DiscountSpec, taxRatePercent decimal.Decimal) (LineAmounts, error) {
	if quantity.LessThan(one) {
		return LineAmounts{}, domainerr.New(domainerr.ErrInvalidQuantity, "quantity must be at least 1, got %s", quantity.String())
	}
	if unitPrice.IsNegative() {
		return LineAmounts{}, domainerr.New(domainerr.ErrInvalidAmount, "unit price cannot be negative")
	}
	if taxRatePercent.IsNegative() {
		return LineAmounts{}, domainerr.New(domainerr.ErrInvalidAmount, "tax rate cannot be negative")
	}
	if !discount.Kind.IsValid() {
		return LineAmounts{}, domainerr.New(domainerr.ErrInvalidAmount, "unknown discount type %q", discount.Kind)
	}
	if discount.Value.IsNegative() {
		return LineAmounts{}, domainerr.New(domainerr.ErrInvalidAmount, "discount cannot be negative")
	}

	var a LineAmounts
	a.ExtendedRate = round2(unitPrice.Mul(quantity))
	if err := checkBound("extended rate", a.ExtendedRate); err != nil {
		return LineAmounts{}, err
	}

	if discount.Kind == enum.DiscountTypePercentage {
		a.DiscountAmount = round2(a.ExtendedRate.Mul(discount.Value).Div(hundred))
	} else {
		a.DiscountAmount = round2(discount.Value)
	}
	if err := checkBound("discount", a.DiscountAmount); err != nil {
		return LineAmounts{}, err
	}

	a.TaxableAmount = round2(a.ExtendedRate.Sub(a.DiscountAmount))
	a.TaxAmount = round2(a.TaxableAmount.Mul(taxRatePercent).Div(hundred))
	if err := checkBound("tax", a.TaxAmount); err != nil {
		return LineAmounts{}, err
	}

	a.LineTotal = round2(a.TaxableAmount.Add(a.TaxAmount))
	if err := checkBound("line total", a.LineTotal); err != nil {
		return LineAmounts{}, err
	}
	return a, nil
}
