package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/pricing"
)

// Product represents a purchasable catalog item
type Product struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_tenant_code" json:"tenant_id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	TaxRateID     *uuid.UUID        `gorm:"type:uuid;index" json:"tax_rate_id,omitempty"`
	Name          string            `gorm:"size:255;not null" json:"name"`
	Slug          string            `gorm:"size:255;not null" json:"slug"`
	Code          string            `gorm:"size:100;not null;uniqueIndex:idx_products_tenant_code" json:"code"`
	PurchasePrice decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"purchase_price"`
	DiscountType  enum.DiscountType `gorm:"size:20;default:'fixed'" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:decimal(15,2);default:0" json:"discount_value"`
	Notes         *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	TaxRate *TaxRate `gorm:"foreignKey:TaxRateID" json:"tax,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// CatalogEntry returns the pricing basis a new order line is seeded from.
// TaxRate must be preloaded for the tax to be carried over.
func (p *Product) CatalogEntry() pricing.CatalogEntry {
	entry := pricing.CatalogEntry{
		ProductID:     p.ID,
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice,
		Discount:      pricing.DiscountSpec{Kind: p.DiscountType, Value: p.DiscountValue},
		Tax:           pricing.TaxInfo{Rate: decimal.Zero},
	}
	if entry.Discount.Kind == "" {
		entry.Discount.Kind = enum.DiscountTypeFixed
	}
	if p.TaxRate != nil {
		id := p.TaxRate.ID
		entry.Tax = pricing.TaxInfo{ID: &id, Rate: p.TaxRate.Rate}
	}
	return entry
}
