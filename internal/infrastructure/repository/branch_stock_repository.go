package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	domainRepo "github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/internal/domain/stockledger"
	"github.com/sangkips/procura-api/pkg/utils"
)

// ErrTenantRequired is returned when a stock mutation runs without a tenant in context
var ErrTenantRequired = errors.New("tenant id missing from context")

type branchStockRepository struct {
	db *gorm.DB
}

// NewBranchStockRepository creates a new branch stock repository
func NewBranchStockRepository(db *gorm.DB) domainRepo.BranchStockRepository {
	return &branchStockRepository{db: db}
}

func (r *branchStockRepository) GetQuantity(ctx context.Context, productID, branchID uuid.UUID) (int64, error) {
	var row entity.BranchStock
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("product_id = ? AND branch_id = ?", productID, branchID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return row.Quantity, err
}

func (r *branchStockRepository) ListLevels(ctx context.Context, productID uuid.UUID) ([]entity.BranchStockLevel, error) {
	var levels []entity.BranchStockLevel
	err := r.db.WithContext(ctx).Model(&entity.Branch{}).
		Scopes(tableTenantScope(ctx, "branches")).
		Select("branches.id AS branch_id, branches.name, branches.branch_type, branches.province, branches.city, branches.district, COALESCE(branch_stocks.quantity, 0) AS quantity").
		Joins("LEFT JOIN branch_stocks ON branch_stocks.branch_id = branches.id AND branch_stocks.product_id = ?", productID).
		Order("branches.name ASC").
		Scan(&levels).Error
	return levels, err
}

// lockRow makes sure the (product, branch) row exists and returns it locked for update
func lockRow(tx *gorm.DB, tenantID, productID, branchID uuid.UUID) (*entity.BranchStock, error) {
	seed := entity.BranchStock{TenantID: tenantID, ProductID: productID, BranchID: branchID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "branch_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, err
	}

	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row entity.BranchStock
	err := query.Where("product_id = ? AND branch_id = ?", productID, branchID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// decrement removes qty from a row only if enough stock is left.
// Uses: UPDATE branch_stocks SET quantity = quantity - qty WHERE id = ? AND quantity >= qty
func decrement(tx *gorm.DB, row *entity.BranchStock, qty int64) error {
	result := tx.Model(&entity.BranchStock{}).
		Where("id = ? AND quantity >= ?", row.ID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerr.New(domainerr.ErrInsufficientStock, "stock changed concurrently, fewer than %d units left", qty)
	}
	return nil
}

func increment(tx *gorm.DB, row *entity.BranchStock, qty int64) error {
	return tx.Model(&entity.BranchStock{}).
		Where("id = ?", row.ID).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error
}

func (r *branchStockRepository) Adjust(ctx context.Context, change domainRepo.StockChange) (*entity.StockMovement, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return nil, ErrTenantRequired
	}

	var movement *entity.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := lockRow(tx, tenantID, change.ProductID, change.BranchID)
		if err != nil {
			return err
		}

		after, err := stockledger.ValidateAdjustment(row.Quantity, change.Quantity, change.Direction)
		if err != nil {
			return err
		}

		movementType := enum.MovementAdd
		if change.Direction == enum.AdjustmentRemove {
			movementType = enum.MovementRemove
			err = decrement(tx, row, change.Quantity)
		} else {
			err = increment(tx, row, change.Quantity)
		}
		if err != nil {
			return err
		}

		movement = &entity.StockMovement{
			TenantID:       tenantID,
			UserID:         change.UserID,
			ProductID:      change.ProductID,
			BranchID:       change.BranchID,
			Type:           movementType,
			Quantity:       change.Quantity,
			QuantityBefore: row.Quantity,
			QuantityAfter:  after,
			Reference:      change.Reference,
			Reason:         change.Reason,
		}
		return tx.Create(movement).Error
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *branchStockRepository) Transfer(ctx context.Context, t domainRepo.StockTransfer) (*entity.StockMovement, *entity.StockMovement, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return nil, nil, ErrTenantRequired
	}

	reference := t.Reference
	if reference == nil {
		ref := utils.GenerateReferenceNo("TRF")
		reference = &ref
	}

	var out, in *entity.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.SourceID == t.DestinationID {
			_, err := stockledger.ValidateTransfer(0, 0, t.Quantity, t.SourceID.String(), t.DestinationID.String())
			return err
		}

		// Lock in a stable order so concurrent opposite transfers cannot deadlock.
		first, second := t.SourceID, t.DestinationID
		if second.String() < first.String() {
			first, second = second, first
		}
		locked := make(map[uuid.UUID]*entity.BranchStock, 2)
		for _, branchID := range []uuid.UUID{first, second} {
			row, err := lockRow(tx, tenantID, t.ProductID, branchID)
			if err != nil {
				return err
			}
			locked[branchID] = row
		}
		src, dst := locked[t.SourceID], locked[t.DestinationID]

		projection, err := stockledger.ValidateTransfer(src.Quantity, dst.Quantity, t.Quantity, t.SourceID.String(), t.DestinationID.String())
		if err != nil {
			return err
		}

		if err := decrement(tx, src, t.Quantity); err != nil {
			return err
		}
		if err := increment(tx, dst, t.Quantity); err != nil {
			return err
		}

		out = &entity.StockMovement{
			TenantID:       tenantID,
			UserID:         t.UserID,
			ProductID:      t.ProductID,
			BranchID:       t.SourceID,
			Type:           enum.MovementTransferOut,
			Quantity:       t.Quantity,
			QuantityBefore: src.Quantity,
			QuantityAfter:  projection.ProjectedSource,
			Reference:      reference,
			Reason:         t.Reason,
		}
		in = &entity.StockMovement{
			TenantID:       tenantID,
			UserID:         t.UserID,
			ProductID:      t.ProductID,
			BranchID:       t.DestinationID,
			Type:           enum.MovementTransferIn,
			Quantity:       t.Quantity,
			QuantityBefore: dst.Quantity,
			QuantityAfter:  projection.ProjectedDest,
			Reference:      reference,
			Reason:         t.Reason,
		}
		return tx.Create([]*entity.StockMovement{out, in}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return out, in, nil
}

func (r *branchStockRepository) Receive(ctx context.Context, order *entity.PurchaseOrder, userID uuid.UUID) (bool, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return false, ErrTenantRequired
	}

	received := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&entity.PurchaseOrder{}).
			Where("id = ? AND status = ?", order.ID, enum.PurchaseOrderStatusPending).
			Updates(map[string]interface{}{
				"status":      enum.PurchaseOrderStatusReceived,
				"received_at": now,
				"received_by": userID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		reference := order.OrderNo
		movements := make([]*entity.StockMovement, 0, len(order.Items))
		for _, item := range order.Items {
			row, err := lockRow(tx, tenantID, item.ProductID, order.BranchID)
			if err != nil {
				return err
			}
			after, err := stockledger.ValidateAdjustment(row.Quantity, item.Quantity, enum.AdjustmentAdd)
			if err != nil {
				return fmt.Errorf("item %s: %w", item.Name, err)
			}
			if err := increment(tx, row, item.Quantity); err != nil {
				return err
			}
			movements = append(movements, &entity.StockMovement{
				TenantID:       tenantID,
				UserID:         userID,
				ProductID:      item.ProductID,
				BranchID:       order.BranchID,
				Type:           enum.MovementReceive,
				Quantity:       item.Quantity,
				QuantityBefore: row.Quantity,
				QuantityAfter:  after,
				Reference:      &reference,
			})
		}
		if len(movements) > 0 {
			if err := tx.Create(movements).Error; err != nil {
				return err
			}
		}

		order.Status = enum.PurchaseOrderStatusReceived
		order.ReceivedAt = &now
		order.ReceivedByID = &userID
		received = true
		return nil
	})
	return received, err
}

func (r *branchStockRepository) ListMovements(ctx context.Context, params *domainRepo.MovementFilterParams) ([]entity.StockMovement, int64, error) {
	var movements []entity.StockMovement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StockMovement{}).Scopes(TenantScope(ctx))
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Product").Preload("Branch").
		Order("created_at DESC").
		Find(&movements).Error

	return movements, total, err
}
