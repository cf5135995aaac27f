package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string            `json:"name" binding:"required,min=2,max=255"`
	Code          string            `json:"code" binding:"omitempty,max=100"`
	PurchasePrice decimal.Decimal   `json:"purchase_price"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
	TaxRateID     *uuid.UUID        `json:"tax_rate_id"`
	Notes         *string           `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string            `json:"name" binding:"omitempty,min=2,max=255"`
	Code          *string            `json:"code" binding:"omitempty,min=1,max=100"`
	PurchasePrice *decimal.Decimal   `json:"purchase_price"`
	DiscountType  *enum.DiscountType `json:"discount_type"`
	DiscountValue *decimal.Decimal   `json:"discount_value"`
	TaxRateID     *uuid.UUID         `json:"tax_rate_id"`
	ClearTaxRate  bool               `json:"clear_tax_rate"`
	Notes         *string            `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	TaxRateID string `form:"tax_rate_id"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
