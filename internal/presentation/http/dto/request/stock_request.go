package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/procura-api/internal/domain/enum"
)

// AdjustStockRequest adds to or removes from one branch's stock
type AdjustStockRequest struct {
	ProductID uuid.UUID                `json:"product_id" binding:"required"`
	BranchID  uuid.UUID                `json:"branch_id" binding:"required"`
	Quantity  int64                    `json:"quantity"`
	Direction enum.AdjustmentDirection `json:"direction" binding:"required"`
	Reason    *string                  `json:"reason" binding:"omitempty,max=255"`
}

// TransferStockRequest moves stock between two branches
type TransferStockRequest struct {
	ProductID           uuid.UUID `json:"product_id" binding:"required"`
	SourceBranchID      uuid.UUID `json:"source_branch_id" binding:"required"`
	DestinationBranchID uuid.UUID `json:"destination_branch_id" binding:"required"`
	Quantity            int64     `json:"quantity"`
	Reason              *string   `json:"reason" binding:"omitempty,max=255"`
}

// MovementFilterRequest represents stock movement filter parameters
type MovementFilterRequest struct {
	ProductID string `form:"product_id"`
	BranchID  string `form:"branch_id"`
	Type      string `form:"type"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
