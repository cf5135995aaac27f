package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/repository"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
)

// SettingsService manages the tax rates and bank accounts offered on purchase orders
type SettingsService struct {
	taxRateRepo repository.TaxRateRepository
	bankRepo    repository.BankAccountRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(taxRateRepo repository.TaxRateRepository, bankRepo repository.BankAccountRepository) *SettingsService {
	return &SettingsService{
		taxRateRepo: taxRateRepo,
		bankRepo:    bankRepo,
	}
}

// TaxRateInput represents the create and update tax rate input
type TaxRateInput struct {
	Name     string
	Rate     decimal.Decimal
	IsActive *bool
}

func validateTaxRate(input *TaxRateInput) error {
	if input.Rate.IsNegative() || input.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "tax_rate", Message: "must be between 0 and 100"},
		})
	}
	return nil
}

// CreateTaxRate creates a new tax rate
func (s *SettingsService) CreateTaxRate(ctx context.Context, input *TaxRateInput) (*entity.TaxRate, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}
	if err := validateTaxRate(input); err != nil {
		return nil, err
	}

	rate := &entity.TaxRate{
		TenantID: tenantID,
		Name:     input.Name,
		Rate:     input.Rate,
		IsActive: true,
	}
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}
	if err := s.taxRateRepo.Create(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// ListTaxRates lists tax rates; activeOnly returns only the selectable ones
func (s *SettingsService) ListTaxRates(ctx context.Context, activeOnly bool) ([]entity.TaxRate, error) {
	return s.taxRateRepo.List(ctx, activeOnly)
}

// UpdateTaxRate updates a tax rate. Existing purchase orders keep the rate they were priced with.
func (s *SettingsService) UpdateTaxRate(ctx context.Context, id uuid.UUID, input *TaxRateInput) (*entity.TaxRate, error) {
	rate, err := s.taxRateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, apperror.NewNotFoundError("Tax rate")
	}
	if err := validateTaxRate(input); err != nil {
		return nil, err
	}

	rate.Name = input.Name
	rate.Rate = input.Rate
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}
	if err := s.taxRateRepo.Update(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// DeleteTaxRate deletes a tax rate
func (s *SettingsService) DeleteTaxRate(ctx context.Context, id uuid.UUID) error {
	rate, err := s.taxRateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rate == nil {
		return apperror.NewNotFoundError("Tax rate")
	}
	return s.taxRateRepo.Delete(ctx, id)
}

// BankAccountInput represents the create and update bank account input
type BankAccountInput struct {
	BankName      string
	AccountHolder string
	AccountNumber string
	BranchName    *string
	IsDefault     bool
}

// CreateBankAccount creates a new bank account. The first account becomes the default.
func (s *SettingsService) CreateBankAccount(ctx context.Context, input *BankAccountInput) (*entity.BankAccount, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, errTenantRequired
	}

	current, err := s.bankRepo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}

	account := &entity.BankAccount{
		TenantID:      tenantID,
		BankName:      input.BankName,
		AccountHolder: input.AccountHolder,
		AccountNumber: input.AccountNumber,
		BranchName:    input.BranchName,
		IsDefault:     input.IsDefault || current == nil,
	}
	if err := s.bankRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListBankAccounts lists bank accounts, default first
func (s *SettingsService) ListBankAccounts(ctx context.Context) ([]entity.BankAccount, error) {
	return s.bankRepo.List(ctx)
}

// UpdateBankAccount updates a bank account
func (s *SettingsService) UpdateBankAccount(ctx context.Context, id uuid.UUID, input *BankAccountInput) (*entity.BankAccount, error) {
	account, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Bank account")
	}

	account.BankName = input.BankName
	account.AccountHolder = input.AccountHolder
	account.AccountNumber = input.AccountNumber
	account.BranchName = input.BranchName
	if input.IsDefault {
		account.IsDefault = true
	}
	if err := s.bankRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteBankAccount deletes a bank account
func (s *SettingsService) DeleteBankAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.bankRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return apperror.NewNotFoundError("Bank account")
	}
	return s.bankRepo.Delete(ctx, id)
}
