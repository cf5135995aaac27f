package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/pkg/pagination"
)

// StockChange describes a single-branch stock mutation
type StockChange struct {
	ProductID uuid.UUID
	BranchID  uuid.UUID
	Quantity  int64
	Direction enum.AdjustmentDirection
	UserID    uuid.UUID
	Reference *string
	Reason    *string
}

// StockTransfer describes moving stock between two branches
type StockTransfer struct {
	ProductID     uuid.UUID
	SourceID      uuid.UUID
	DestinationID uuid.UUID
	Quantity      int64
	UserID        uuid.UUID
	Reference     *string
	Reason        *string
}

// BranchStockRepository persists branch stock levels and the movement ledger.
// Every mutation writes its movements in the same transaction as the stock change.
type BranchStockRepository interface {
	// GetQuantity returns the current quantity, zero when no row exists
	GetQuantity(ctx context.Context, productID, branchID uuid.UUID) (int64, error)
	// ListLevels returns every branch with its quantity of the product
	ListLevels(ctx context.Context, productID uuid.UUID) ([]entity.BranchStockLevel, error)
	// Adjust applies an add or remove. A remove that would go negative fails
	// with domainerr.ErrInsufficientStock and writes nothing.
	Adjust(ctx context.Context, change StockChange) (*entity.StockMovement, error)
	// Transfer decrements the source and increments the destination atomically.
	// A source without enough stock fails with domainerr.ErrInsufficientStock.
	Transfer(ctx context.Context, transfer StockTransfer) (out *entity.StockMovement, in *entity.StockMovement, err error)
	// Receive marks a pending purchase order received and adds every item to
	// its branch. It reports false when the order was no longer pending.
	Receive(ctx context.Context, order *entity.PurchaseOrder, userID uuid.UUID) (bool, error)
	ListMovements(ctx context.Context, params *MovementFilterParams) ([]entity.StockMovement, int64, error)
}

// MovementFilterParams contains filtering parameters for movement queries
type MovementFilterParams struct {
	Pagination *pagination.PaginationParams
	ProductID  *uuid.UUID
	BranchID   *uuid.UUID
	Type       *enum.MovementType
}
