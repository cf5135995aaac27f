package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/pkg/pagination"
)

// TaxRateRepository defines the interface for tax rate data operations
type TaxRateRepository interface {
	Create(ctx context.Context, rate *entity.TaxRate) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TaxRate, error)
	Update(ctx context.Context, rate *entity.TaxRate) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns tax rates ordered by name; activeOnly hides disabled rates
	List(ctx context.Context, activeOnly bool) ([]entity.TaxRate, error)
}

// BankAccountRepository defines the interface for bank account data operations
type BankAccountRepository interface {
	// Create stores the account; when it is marked default every other account loses the flag
	Create(ctx context.Context, account *entity.BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BankAccount, error)
	Update(ctx context.Context, account *entity.BankAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.BankAccount, error)
	GetDefault(ctx context.Context) (*entity.BankAccount, error)
}

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error)
}

// BranchRepository defines the interface for branch data operations
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]entity.Branch, error)
}
