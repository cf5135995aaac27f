package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/logger"
	"github.com/sangkips/procura-api/pkg/metrics"
	"github.com/sangkips/procura-api/pkg/pagination"
)

// StockService handles branch stock levels, adjustments and transfers
type StockService struct {
	stockRepo   repository.BranchStockRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	metrics     *metrics.Metrics
}

// NewStockService creates a new stock service
func NewStockService(
	stockRepo repository.BranchStockRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	m *metrics.Metrics,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		metrics:     m,
	}
}

// AdjustStockInput represents a manual add or remove at one branch
type AdjustStockInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	BranchID  uuid.UUID
	Quantity  int64
	Direction enum.AdjustmentDirection
	Reason    *string
}

// TransferStockInput represents moving stock between two branches
type TransferStockInput struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	SourceID      uuid.UUID
	DestinationID uuid.UUID
	Quantity      int64
	Reason        *string
}

// TransferResult holds both ledger entries written by a transfer
type TransferResult struct {
	Out *entity.StockMovement `json:"out"`
	In  *entity.StockMovement `json:"in"`
}

func (s *StockService) requireProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return nil
}

func (s *StockService) requireBranch(ctx context.Context, id uuid.UUID, label string) error {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil {
		return apperror.NewNotFoundError(label)
	}
	return nil
}

// GetProductStock lists every branch with its quantity of the product
func (s *StockService) GetProductStock(ctx context.Context, productID uuid.UUID) ([]entity.BranchStockLevel, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	levels, err := s.stockRepo.ListLevels(ctx, productID)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []entity.BranchStockLevel{}
	}
	return levels, nil
}

// AdjustStock adds or removes stock at one branch
func (s *StockService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.StockMovement, error) {
	if !input.Direction.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "direction", Message: "must be add or remove"},
		})
	}
	if err := s.requireProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if err := s.requireBranch(ctx, input.BranchID, "Branch"); err != nil {
		return nil, err
	}

	movement, err := s.stockRepo.Adjust(ctx, repository.StockChange{
		ProductID: input.ProductID,
		BranchID:  input.BranchID,
		Quantity:  input.Quantity,
		Direction: input.Direction,
		UserID:    input.UserID,
		Reason:    input.Reason,
	})
	if err != nil {
		return nil, s.rejected(ctx, "adjust", err)
	}

	s.metrics.StockMovement(string(movement.Type))
	logger.FromContext(ctx).Info("stock adjusted",
		zap.String("product_id", input.ProductID.String()),
		zap.String("branch_id", input.BranchID.String()),
		zap.String("type", string(movement.Type)),
		zap.Int64("quantity", movement.Quantity),
		zap.Int64("after", movement.QuantityAfter),
	)
	return movement, nil
}

// TransferStock moves stock from one branch to another in a single transaction
func (s *StockService) TransferStock(ctx context.Context, input *TransferStockInput) (*TransferResult, error) {
	if err := s.requireProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	if err := s.requireBranch(ctx, input.SourceID, "Source branch"); err != nil {
		return nil, err
	}
	if input.DestinationID != input.SourceID {
		if err := s.requireBranch(ctx, input.DestinationID, "Destination branch"); err != nil {
			return nil, err
		}
	}

	out, in, err := s.stockRepo.Transfer(ctx, repository.StockTransfer{
		ProductID:     input.ProductID,
		SourceID:      input.SourceID,
		DestinationID: input.DestinationID,
		Quantity:      input.Quantity,
		UserID:        input.UserID,
		Reason:        input.Reason,
	})
	if err != nil {
		return nil, s.rejected(ctx, "transfer", err)
	}

	s.metrics.StockMovement(string(out.Type))
	s.metrics.StockMovement(string(in.Type))
	logger.FromContext(ctx).Info("stock transferred",
		zap.String("product_id", input.ProductID.String()),
		zap.String("source_id", input.SourceID.String()),
		zap.String("destination_id", input.DestinationID.String()),
		zap.Int64("quantity", input.Quantity),
		zap.Stringp("reference", out.Reference),
	)
	return &TransferResult{Out: out, In: in}, nil
}

// rejected records a refused stock operation and converts it to an API error
func (s *StockService) rejected(ctx context.Context, operation string, err error) error {
	kind := domainerr.KindName(err)
	if kind == "" {
		return err
	}
	s.metrics.StockRejected(operation, kind)
	logger.FromContext(ctx).Info("stock operation rejected",
		zap.String("operation", operation),
		zap.String("kind", kind),
		zap.String("detail", domainerr.Detail(err)),
	)
	return translateDomainError(err)
}

// ListMovements lists stock ledger entries with filtering
func (s *StockService) ListMovements(ctx context.Context, params *repository.MovementFilterParams) (*pagination.PaginatedResult[entity.StockMovement], error) {
	movements, total, err := s.stockRepo.ListMovements(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(movements, pag), nil
}
