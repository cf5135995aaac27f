package pricing

import "github.com/shopspring/decimal"

// OrderTotals is the order-level rollup of its lines.
type OrderTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	VAT           decimal.Decimal `json:"vat"`
	Total         decimal.Decimal `json:"total"`
}

// Aggregate sums the already-rounded per-line figures. The sums are not
// rounded again, so the total can differ by a cent from pricing the order as
// a single line; that difference is expected.
func Aggregate(lines []OrderLine) OrderTotals {
	t := OrderTotals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		VAT:           decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.ExtendedRate)
		t.TotalDiscount = t.TotalDiscount.Add(l.DiscountAmount)
		t.VAT = t.VAT.Add(l.TaxAmount)
		t.Total = t.Total.Add(l.LineTotal)
	}
	return t
}
