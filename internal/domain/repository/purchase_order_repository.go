package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/pkg/pagination"
)

// PurchaseOrderRepository defines the interface for purchase order data operations
type PurchaseOrderRepository interface {
	// Create stores the header and its items in one transaction
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	// GetWithItems loads the order with items, supplier, bank account and branch
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error)
	// ReplaceItems updates the header and swaps the full item set in one transaction.
	// Only pending orders are touched; it reports false when the order is no longer pending.
	ReplaceItems(ctx context.Context, order *entity.PurchaseOrder) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error)
}

// PurchaseOrderFilterParams contains filtering parameters for purchase order queries
type PurchaseOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.PurchaseOrderStatus
	SupplierID *uuid.UUID
	BranchID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
