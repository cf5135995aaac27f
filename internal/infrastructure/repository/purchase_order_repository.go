package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	domainRepo "github.com/sangkips/procura-api/internal/domain/repository"
)

var purchaseOrderSortColumns = map[string]bool{
	"created_at": true,
	"order_date": true,
	"order_no":   true,
	"total":      true,
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *gorm.DB) domainRepo.PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, order *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Omit("Supplier", "BankAccount", "Branch").Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].PurchaseOrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit("Product").Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *purchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *purchaseOrderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Supplier").Preload("BankAccount").Preload("Branch").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

// ReplaceItems rewrites the header and items of a pending order
func (r *purchaseOrderRepository) ReplaceItems(ctx context.Context, order *entity.PurchaseOrder) (bool, error) {
	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.PurchaseOrder{}).
			Where("id = ? AND status = ?", order.ID, enum.PurchaseOrderStatusPending).
			Updates(map[string]interface{}{
				"supplier_id":     order.SupplierID,
				"bank_account_id": order.BankAccountID,
				"branch_id":       order.BranchID,
				"order_date":      order.OrderDate,
				"due_date":        order.DueDate,
				"reference":       order.Reference,
				"notes":           order.Notes,
				"subtotal":        order.Subtotal,
				"total_discount":  order.TotalDiscount,
				"vat":             order.VAT,
				"total":           order.Total,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("purchase_order_id = ?", order.ID).Delete(&entity.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].ID = uuid.Nil
			order.Items[i].PurchaseOrderID = order.ID
		}
		if len(order.Items) > 0 {
			if err := tx.Omit("Product").Create(&order.Items).Error; err != nil {
				return err
			}
		}
		updated = true
		return nil
	})
	return updated, err
}

func (r *purchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).Delete(&entity.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Scopes(TenantScope(ctx)).Delete(&entity.PurchaseOrder{}, "id = ?", id).Error
	})
}

func (r *purchaseOrderRepository) List(ctx context.Context, params *domainRepo.PurchaseOrderFilterParams) ([]entity.PurchaseOrder, int64, error) {
	var orders []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		pattern := likePattern(params.Search)
		query = query.Where("LOWER(order_no) LIKE ? OR LOWER(reference) LIKE ?", pattern, pattern)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").Preload("Branch").
		Order(orderClause(params.SortBy, params.SortOrder, purchaseOrderSortColumns, "created_at")).
		Find(&orders).Error

	return orders, total, err
}
