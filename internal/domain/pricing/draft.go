package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
)

// Order is an order draft: its lines in display order and their totals.
// Totals are always the full Aggregate of Lines; every function here returns
// a new Order instead of patching totals in place.
type Order struct {
	Lines  []OrderLine `json:"lines"`
	Totals OrderTotals `json:"totals"`
}

// NewOrder builds an order from lines and computes its totals.
func NewOrder(lines []OrderLine) Order {
	copied := make([]OrderLine, len(lines))
	copy(copied, lines)
	return Order{Lines: copied, Totals: Aggregate(copied)}
}

// AddLine appends a line.
func AddLine(o Order, line OrderLine) Order {
	lines := make([]OrderLine, 0, len(o.Lines)+1)
	lines = append(lines, o.Lines...)
	lines = append(lines, line)
	return Order{Lines: lines, Totals: Aggregate(lines)}
}

// RemoveLine drops the line at index.
func RemoveLine(o Order, index int) (Order, error) {
	if index < 0 || index >= len(o.Lines) {
		return Order{}, domainerr.New(domainerr.ErrLineNotFound, "line %d does not exist", index)
	}
	lines := make([]OrderLine, 0, len(o.Lines)-1)
	lines = append(lines, o.Lines[:index]...)
	lines = append(lines, o.Lines[index+1:]...)
	return Order{Lines: lines, Totals: Aggregate(lines)}, nil
}

// LineEdit is a change applied to a single line. The concrete edits are
// QuantityEdit, OverrideEdit and ResetOverrideEdit.
type LineEdit interface {
	apply(OrderLine) (OrderLine, error)
}

// QuantityEdit changes the quantity; the line is repriced from its active basis.
type QuantityEdit struct {
	Quantity decimal.Decimal
}

func (e QuantityEdit) apply(l OrderLine) (OrderLine, error) {
	return Reprice(l, e.Quantity)
}

// OverrideEdit replaces the rate, discount and tax by hand. From then on
// quantity changes recompute from these values, not the catalog ones.
type OverrideEdit struct {
	Rate     decimal.Decimal
	Discount DiscountSpec
	Tax      TaxInfo
}

func (e OverrideEdit) apply(l OrderLine) (OrderLine, error) {
	l.Override = Basis{Rate: e.Rate, Discount: e.Discount, Tax: e.Tax}
	l.Overridden = true
	return Reprice(l, l.Quantity)
}

// ResetOverrideEdit returns the line to its catalog basis.
type ResetOverrideEdit struct{}

func (ResetOverrideEdit) apply(l OrderLine) (OrderLine, error) {
	l.Override = Basis{}
	l.Overridden = false
	return Reprice(l, l.Quantity)
}

// ApplyLineEdit applies edit to the line at index and returns the fully
// recomputed order. On error the input order is still valid and unchanged.
func ApplyLineEdit(o Order, index int, edit LineEdit) (Order, error) {
	if index < 0 || index >= len(o.Lines) {
		return Order{}, domainerr.New(domainerr.ErrLineNotFound, "line %d does not exist", index)
	}
	updated, err := edit.apply(o.Lines[index])
	if err != nil {
		return Order{}, err
	}

	lines := make([]OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	lines[index] = updated
	return Order{Lines: lines, Totals: Aggregate(lines)}, nil
}
