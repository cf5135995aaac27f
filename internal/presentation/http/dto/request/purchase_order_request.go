package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// LineOverrideRequest carries the values entered in the line edit dialog
type LineOverrideRequest struct {
	Rate          decimal.Decimal   `json:"rate"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
	TaxRateID     *uuid.UUID        `json:"tax_rate_id"`
}

// OrderItemRequest is one requested purchase order line
type OrderItemRequest struct {
	ProductID uuid.UUID            `json:"product_id" binding:"required"`
	Quantity  int64                `json:"quantity"`
	Override  *LineOverrideRequest `json:"override"`
}

// PreviewPurchaseOrderRequest prices items without saving them
type PreviewPurchaseOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// DraftEditRequest applies one line edit to a previously returned draft.
// Exactly one of Quantity, Override or Reset should be set.
type DraftEditRequest struct {
	Draft    pricing.Order        `json:"draft"`
	Index    int                  `json:"index" binding:"min=0"`
	Quantity *int64               `json:"quantity"`
	Override *LineOverrideRequest `json:"override"`
	Reset    bool                 `json:"reset"`
}

// PurchaseOrderRequest creates or replaces a purchase order
type PurchaseOrderRequest struct {
	SupplierID    uuid.UUID          `json:"supplier_id" binding:"required"`
	BankAccountID *uuid.UUID         `json:"bank_account_id"`
	BranchID      uuid.UUID          `json:"branch_id" binding:"required"`
	OrderDate     string             `json:"order_date" binding:"required"`
	DueDate       *string            `json:"due_date"`
	Reference     *string            `json:"reference" binding:"omitempty,max=100"`
	Notes         *string            `json:"notes"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderFilterRequest represents purchase order filter parameters
type PurchaseOrderFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	BranchID   string `form:"branch_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
