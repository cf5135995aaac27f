package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxInfo identifies the tax rate applied to a line. A nil ID means no tax
// rate was selected; Rate is then zero.
type TaxInfo struct {
	ID   *uuid.UUID      `json:"tax_id,omitempty"`
	Rate decimal.Decimal `json:"tax_rate"`
}

// Basis is the set of inputs a line is priced from.
type Basis struct {
	Rate     decimal.Decimal `json:"rate"`
	Discount DiscountSpec    `json:"discount"`
	Tax      TaxInfo         `json:"tax"`
}

// CatalogEntry is the product data used to seed a new line.
type CatalogEntry struct {
	ProductID     uuid.UUID
	Name          string
	PurchasePrice decimal.Decimal
	Discount      DiscountSpec
	Tax           TaxInfo
}

// OrderLine is one item of an order draft.
//
// Catalog holds the basis captured from the product when the line was added.
// Override holds the values entered by hand in the line edit dialog and is
// only consulted while Overridden is set.
type OrderLine struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Catalog    Basis           `json:"catalog"`
	Override   Basis           `json:"override"`
	Overridden bool            `json:"overridden"`
	LineAmounts
}

// ActiveBasis returns the basis quantity changes recompute from.
func (l OrderLine) ActiveBasis() Basis {
	if l.Overridden {
		return l.Override
	}
	return l.Catalog
}

// NewLine seeds a line from a catalog entry and prices it.
func NewLine(entry CatalogEntry, quantity decimal.Decimal) (OrderLine, error) {
	line := OrderLine{
		ProductID: entry.ProductID,
		Name:      entry.Name,
		Catalog: Basis{
			Rate:     entry.PurchasePrice,
			Discount: entry.Discount,
			Tax:      entry.Tax,
		},
	}
	return Reprice(line, quantity)
}

// Reprice recomputes the line for newQuantity against its active basis.
// The input line is not modified.
func Reprice(line OrderLine, newQuantity decimal.Decimal) (OrderLine, error) {
	basis := line.ActiveBasis()
	amounts, err := PriceLine(basis.Rate, newQuantity, basis.Discount, basis.Tax.Rate)
	if err != nil {
		return OrderLine{}, err
	}
	line.Quantity = newQuantity
	line.LineAmounts = amounts
	return line, nil
}
