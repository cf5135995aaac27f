package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/pricing"
)

// PurchaseOrder is an order placed with a supplier, delivered to a branch
type PurchaseOrder struct {
	ID            uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID                `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID        uuid.UUID                `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderNo       string                   `gorm:"size:100;unique;not null" json:"order_no"`
	SupplierID    uuid.UUID                `gorm:"type:uuid;not null;index" json:"supplier_id"`
	BankAccountID *uuid.UUID               `gorm:"type:uuid;index" json:"bank_account_id,omitempty"`
	BranchID      uuid.UUID                `gorm:"type:uuid;not null;index" json:"branch_id"`
	OrderDate     time.Time                `gorm:"type:date;not null" json:"order_date"`
	DueDate       *time.Time               `gorm:"type:date" json:"due_date,omitempty"`
	Reference     *string                  `gorm:"size:100" json:"reference,omitempty"`
	Notes         *string                  `gorm:"type:text" json:"notes,omitempty"`
	Status        enum.PurchaseOrderStatus `gorm:"default:0" json:"status"`
	Subtotal      decimal.Decimal          `gorm:"type:decimal(15,2);default:0" json:"subtotal"`
	TotalDiscount decimal.Decimal          `gorm:"type:decimal(15,2);default:0" json:"total_discount"`
	VAT           decimal.Decimal          `gorm:"type:decimal(15,2);default:0" json:"vat"`
	Total         decimal.Decimal          `gorm:"type:decimal(15,2);default:0" json:"total"`
	ReceivedAt    *time.Time               `json:"received_at,omitempty"`
	ReceivedByID  *uuid.UUID               `gorm:"type:uuid;column:received_by" json:"received_by,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	DeletedAt     gorm.DeletedAt           `gorm:"index" json:"-"`

	// Relationships
	Supplier    *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	BankAccount *BankAccount        `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
	Branch      *Branch             `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase order
func (p *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrder model
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// IsPending reports whether the order can still be edited or received
func (p *PurchaseOrder) IsPending() bool {
	return p.Status == enum.PurchaseOrderStatusPending
}

// ApplyTotals copies order totals onto the header
func (p *PurchaseOrder) ApplyTotals(t pricing.OrderTotals) {
	p.Subtotal = t.Subtotal
	p.TotalDiscount = t.TotalDiscount
	p.VAT = t.VAT
	p.Total = t.Total
}

// PurchaseOrderItem is a priced line of a purchase order. It snapshots the
// basis the line was priced from so later catalog changes do not alter it.
type PurchaseOrderItem struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseOrderID uuid.UUID         `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Position        int               `gorm:"not null;default:0" json:"position"`
	Name            string            `gorm:"size:255;not null" json:"name"`
	Quantity        int64             `gorm:"not null" json:"quantity"`
	CatalogRate     decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"catalog_rate"`
	Overridden      bool              `gorm:"default:false" json:"overridden"`
	Rate            decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"rate"`
	DiscountType    enum.DiscountType `gorm:"size:20;default:'fixed'" json:"discount_type"`
	DiscountValue   decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"discount_value"`
	TaxRateID       *uuid.UUID        `gorm:"type:uuid" json:"tax_rate_id,omitempty"`
	TaxPercent      decimal.Decimal   `gorm:"type:decimal(5,2);default:0" json:"tax_rate"`
	ExtendedRate    decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"extended_rate"`
	DiscountAmount  decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"discount_amount"`
	TaxableAmount   decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"taxable_amount"`
	TaxAmount       decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"tax_amount"`
	LineTotal       decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"line_total"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new purchase order item
func (i *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseOrderItem model
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem snapshots a priced line at the given position
func NewPurchaseOrderItem(position int, line pricing.OrderLine) PurchaseOrderItem {
	basis := line.ActiveBasis()
	return PurchaseOrderItem{
		ProductID:      line.ProductID,
		Position:       position,
		Name:           line.Name,
		Quantity:       line.Quantity.IntPart(),
		CatalogRate:    line.Catalog.Rate,
		Overridden:     line.Overridden,
		Rate:           basis.Rate,
		DiscountType:   basis.Discount.Kind,
		DiscountValue:  basis.Discount.Value,
		TaxRateID:      basis.Tax.ID,
		TaxPercent:     basis.Tax.Rate,
		ExtendedRate:   line.ExtendedRate,
		DiscountAmount: line.DiscountAmount,
		TaxableAmount:  line.TaxableAmount,
		TaxAmount:      line.TaxAmount,
		LineTotal:      line.LineTotal,
	}
}
