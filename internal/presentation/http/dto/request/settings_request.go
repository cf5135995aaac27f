package request

import "github.com/shopspring/decimal"

// TaxRateRequest creates or replaces a tax rate
type TaxRateRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Rate     decimal.Decimal `json:"rate"`
	IsActive *bool           `json:"is_active"`
}

// BankAccountRequest creates or replaces a bank account
type BankAccountRequest struct {
	BankName      string  `json:"bank_name" binding:"required,max=255"`
	AccountHolder string  `json:"account_holder" binding:"required,max=255"`
	AccountNumber string  `json:"account_number" binding:"required,max=100"`
	BranchName    *string `json:"branch_name" binding:"omitempty,max=255"`
	IsDefault     bool    `json:"is_default"`
}
