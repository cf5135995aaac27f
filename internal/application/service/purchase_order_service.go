package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/pricing"
	"github.com/sangkips/procura-api/internal/domain/repository"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/logger"
	"github.com/sangkips/procura-api/pkg/metrics"
	"github.com/sangkips/procura-api/pkg/pagination"
	"github.com/sangkips/procura-api/pkg/utils"
)

// PurchaseOrderService prices, stores and receives purchase orders
type PurchaseOrderService struct {
	orderRepo    repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	taxRateRepo  repository.TaxRateRepository
	supplierRepo repository.SupplierRepository
	bankRepo     repository.BankAccountRepository
	branchRepo   repository.BranchRepository
	stockRepo    repository.BranchStockRepository
	metrics      *metrics.Metrics
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	orderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	taxRateRepo repository.TaxRateRepository,
	supplierRepo repository.SupplierRepository,
	bankRepo repository.BankAccountRepository,
	branchRepo repository.BranchRepository,
	stockRepo repository.BranchStockRepository,
	m *metrics.Metrics,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		taxRateRepo:  taxRateRepo,
		supplierRepo: supplierRepo,
		bankRepo:     bankRepo,
		branchRepo:   branchRepo,
		stockRepo:    stockRepo,
		metrics:      m,
	}
}

// LineOverrideInput holds hand-entered pricing for a line
type LineOverrideInput struct {
	Rate          decimal.Decimal
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	TaxRateID     *uuid.UUID
}

// OrderItemInput is one requested line
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int64
	Override  *LineOverrideInput
}

// PurchaseOrderInput represents the create and update purchase order input
type PurchaseOrderInput struct {
	UserID        uuid.UUID
	SupplierID    uuid.UUID
	BankAccountID *uuid.UUID
	BranchID      uuid.UUID
	OrderDate     time.Time
	DueDate       *time.Time
	Reference     *string
	Notes         *string
	Items         []OrderItemInput
}

// DraftEditInput applies one edit to a draft previously returned by the API.
// Exactly one of Quantity, Override or Reset is used, in that order of precedence.
type DraftEditInput struct {
	Draft    pricing.Order
	Index    int
	Quantity *int64
	Override *LineOverrideInput
	Reset    bool
}

// BuildDraft prices the requested items against the catalog without persisting anything
func (s *PurchaseOrderService) BuildDraft(ctx context.Context, items []OrderItemInput) (pricing.Order, error) {
	if len(items) == 0 {
		return pricing.Order{}, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one item is required"},
		})
	}

	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return pricing.Order{}, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	order := pricing.NewOrder(nil)
	for i, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return pricing.Order{}, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		line, err := pricing.NewLine(product.CatalogEntry(), decimal.NewFromInt(item.Quantity))
		if err != nil {
			s.metrics.LinesPriced(1, false)
			return pricing.Order{}, translateDomainError(fmt.Errorf("item %d: %w", i+1, err))
		}
		order = pricing.AddLine(order, line)

		if item.Override != nil {
			edit, err := s.overrideEdit(ctx, item.Override)
			if err != nil {
				return pricing.Order{}, err
			}
			order, err = pricing.ApplyLineEdit(order, len(order.Lines)-1, edit)
			if err != nil {
				s.metrics.LinesPriced(1, false)
				return pricing.Order{}, translateDomainError(fmt.Errorf("item %d: %w", i+1, err))
			}
		}
	}

	s.metrics.LinesPriced(len(order.Lines), true)
	return order, nil
}

// ApplyDraftEdit reprices a submitted draft and applies one line edit to it
func (s *PurchaseOrderService) ApplyDraftEdit(ctx context.Context, input *DraftEditInput) (pricing.Order, error) {
	draft, err := normalizeDraft(input.Draft)
	if err != nil {
		return pricing.Order{}, translateDomainError(err)
	}

	var edit pricing.LineEdit
	switch {
	case input.Quantity != nil:
		edit = pricing.QuantityEdit{Quantity: decimal.NewFromInt(*input.Quantity)}
	case input.Override != nil:
		edit, err = s.overrideEdit(ctx, input.Override)
		if err != nil {
			return pricing.Order{}, err
		}
	case input.Reset:
		edit = pricing.ResetOverrideEdit{}
	default:
		return pricing.Order{}, apperror.NewValidationError([]apperror.FieldError{
			{Field: "edit", Message: "one of quantity, override or reset is required"},
		})
	}

	updated, err := pricing.ApplyLineEdit(draft, input.Index, edit)
	if err != nil {
		s.metrics.LinesPriced(1, false)
		return pricing.Order{}, translateDomainError(err)
	}
	s.metrics.LinesPriced(1, true)
	return updated, nil
}

// normalizeDraft reprices every line from its own basis so client-supplied
// amounts never reach the totals.
func normalizeDraft(draft pricing.Order) (pricing.Order, error) {
	lines := make([]pricing.OrderLine, len(draft.Lines))
	for i, line := range draft.Lines {
		repriced, err := pricing.Reprice(line, line.Quantity)
		if err != nil {
			return pricing.Order{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines[i] = repriced
	}
	return pricing.NewOrder(lines), nil
}

func (s *PurchaseOrderService) overrideEdit(ctx context.Context, o *LineOverrideInput) (pricing.OverrideEdit, error) {
	kind := o.DiscountType
	if kind == "" {
		kind = enum.DiscountTypeFixed
	}
	edit := pricing.OverrideEdit{
		Rate:     pricing.RoundAmount(o.Rate),
		Discount: pricing.DiscountSpec{Kind: kind, Value: pricing.RoundAmount(o.DiscountValue)},
		Tax:      pricing.TaxInfo{Rate: decimal.Zero},
	}
	if o.TaxRateID != nil {
		rate, err := s.taxRateRepo.GetByID(ctx, *o.TaxRateID)
		if err != nil {
			return pricing.OverrideEdit{}, err
		}
		if rate == nil {
			return pricing.OverrideEdit{}, apperror.NewNotFoundError("Tax rate")
		}
		id := rate.ID
		edit.Tax = pricing.TaxInfo{ID: &id, Rate: rate.Rate}
	}
	return edit, nil
}

// resolveHeader checks the supplier, branch and bank account and fills the default bank
func (s *PurchaseOrderService) resolveHeader(ctx context.Context, input *PurchaseOrderInput) error {
	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}

	branch, err := s.branchRepo.GetByID(ctx, input.BranchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return apperror.NewNotFoundError("Branch")
	}

	if input.BankAccountID != nil {
		account, err := s.bankRepo.GetByID(ctx, *input.BankAccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Bank account")
		}
		return nil
	}

	account, err := s.bankRepo.GetDefault(ctx)
	if err != nil {
		return err
	}
	if account != nil {
		input.BankAccountID = &account.ID
	}
	return nil
}

func itemsFromDraft(draft pricing.Order) []entity.PurchaseOrderItem {
	items := make([]entity.PurchaseOrderItem, len(draft.Lines))
	for i, line := range draft.Lines {
		items[i] = entity.NewPurchaseOrderItem(i, line)
	}
	return items
}

// CreatePurchaseOrder prices and stores a new pending purchase order
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, input *PurchaseOrderInput) (*entity.PurchaseOrder, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}

	if err := s.resolveHeader(ctx, input); err != nil {
		return nil, err
	}
	draft, err := s.BuildDraft(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &entity.PurchaseOrder{
		TenantID:      tenantID,
		UserID:        input.UserID,
		OrderNo:       utils.GenerateReferenceNo("PO"),
		SupplierID:    input.SupplierID,
		BankAccountID: input.BankAccountID,
		BranchID:      input.BranchID,
		OrderDate:     orderDate,
		DueDate:       input.DueDate,
		Reference:     input.Reference,
		Notes:         input.Notes,
		Status:        enum.PurchaseOrderStatusPending,
		Items:         itemsFromDraft(draft),
	}
	order.ApplyTotals(draft.Totals)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("purchase order created",
		zap.String("order_no", order.OrderNo),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Total.StringFixed(pricing.Places)),
	)
	return s.orderRepo.GetWithItems(ctx, order.ID)
}

// GetPurchaseOrder retrieves a purchase order with its items
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	return order, nil
}

// ListPurchaseOrders lists purchase orders with filtering
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, params *repository.PurchaseOrderFilterParams) (*pagination.PaginatedResult[entity.PurchaseOrder], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdatePurchaseOrder reprices a pending order from scratch, replacing all of its items
func (s *PurchaseOrderService) UpdatePurchaseOrder(ctx context.Context, id uuid.UUID, input *PurchaseOrderInput) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	if !order.IsPending() {
		return nil, apperror.NewBadRequestError("Only pending purchase orders can be updated")
	}

	if err := s.resolveHeader(ctx, input); err != nil {
		return nil, err
	}
	draft, err := s.BuildDraft(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	order.SupplierID = input.SupplierID
	order.BankAccountID = input.BankAccountID
	order.BranchID = input.BranchID
	if !input.OrderDate.IsZero() {
		order.OrderDate = input.OrderDate
	}
	order.DueDate = input.DueDate
	order.Reference = input.Reference
	order.Notes = input.Notes
	order.Items = itemsFromDraft(draft)
	order.ApplyTotals(draft.Totals)

	updated, err := s.orderRepo.ReplaceItems(ctx, order)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.NewBadRequestError("Only pending purchase orders can be updated")
	}
	return s.orderRepo.GetWithItems(ctx, id)
}

// DeletePurchaseOrder deletes a pending purchase order
func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Purchase order")
	}
	if !order.IsPending() {
		return apperror.NewBadRequestError("Cannot delete a received purchase order")
	}
	return s.orderRepo.Delete(ctx, id)
}

// ReceivePurchaseOrder marks a pending order received and books its quantities into the destination branch
func (s *PurchaseOrderService) ReceivePurchaseOrder(ctx context.Context, userID, id uuid.UUID) (*entity.PurchaseOrder, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Purchase order")
	}
	if !order.IsPending() {
		return nil, apperror.NewAppError(http.StatusBadRequest, "Purchase order is already received")
	}

	received, err := s.stockRepo.Receive(ctx, order, userID)
	if err != nil {
		return nil, translateDomainError(err)
	}
	if !received {
		return nil, apperror.NewAppError(http.StatusBadRequest, "Purchase order is already received")
	}
	for range order.Items {
		s.metrics.StockMovement(string(enum.MovementReceive))
	}

	logger.FromContext(ctx).Info("purchase order received",
		zap.String("order_no", order.OrderNo),
		zap.String("branch_id", order.BranchID.String()),
	)
	return order, nil
}
