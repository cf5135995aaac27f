package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/pricing"
	"github.com/sangkips/procura-api/internal/domain/repository"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/pagination"
	"github.com/sangkips/procura-api/pkg/utils"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	taxRateRepo repository.TaxRateRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, taxRateRepo repository.TaxRateRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		taxRateRepo: taxRateRepo,
	}
}

// ProductInput represents the create product input
type ProductInput struct {
	UserID        uuid.UUID
	Name          string
	Code          string
	PurchasePrice decimal.Decimal
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	TaxRateID     *uuid.UUID
	Notes         *string
}

// UpdateProductInput represents the update product input; nil fields are left unchanged
type UpdateProductInput struct {
	Name          *string
	Code          *string
	PurchasePrice *decimal.Decimal
	DiscountType  *enum.DiscountType
	DiscountValue *decimal.Decimal
	TaxRateID     *uuid.UUID
	ClearTaxRate  bool
	Notes         *string
}

func validatePricing(price, discount decimal.Decimal, kind enum.DiscountType) error {
	var fieldErrors []apperror.FieldError
	if price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "purchase_price", Message: "cannot be negative"})
	}
	if discount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_value", Message: "cannot be negative"})
	}
	if !kind.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_type", Message: "must be percentage or fixed"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func (s *ProductService) requireTaxRate(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	rate, err := s.taxRateRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if rate == nil {
		return apperror.NewNotFoundError("Tax rate")
	}
	return nil
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}

	if input.DiscountType == "" {
		input.DiscountType = enum.DiscountTypeFixed
	}
	if err := validatePricing(input.PurchasePrice, input.DiscountValue, input.DiscountType); err != nil {
		return nil, err
	}
	if err := s.requireTaxRate(ctx, input.TaxRateID); err != nil {
		return nil, err
	}

	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	product := &entity.Product{
		TenantID:      tenantID,
		UserID:        input.UserID,
		TaxRateID:     input.TaxRateID,
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name),
		Code:          code,
		PurchasePrice: pricing.RoundAmount(input.PurchasePrice),
		DiscountType:  input.DiscountType,
		DiscountValue: pricing.RoundAmount(input.DiscountValue),
		Notes:         input.Notes,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.PurchasePrice != nil {
		product.PurchasePrice = pricing.RoundAmount(*input.PurchasePrice)
	}
	if input.DiscountType != nil {
		product.DiscountType = *input.DiscountType
	}
	if input.DiscountValue != nil {
		product.DiscountValue = pricing.RoundAmount(*input.DiscountValue)
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}
	switch {
	case input.ClearTaxRate:
		product.TaxRateID = nil
	case input.TaxRateID != nil:
		if err := s.requireTaxRate(ctx, input.TaxRateID); err != nil {
			return nil, err
		}
		product.TaxRateID = input.TaxRateID
	}
	product.TaxRate = nil

	if err := validatePricing(product.PurchasePrice, product.DiscountValue, product.DiscountType); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}
