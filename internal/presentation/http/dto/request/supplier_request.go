package request

import "github.com/sangkips/procura-api/internal/domain/enum"

// SupplierRequest creates or replaces a supplier
type SupplierRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address"`
	TaxPin      *string `json:"tax_pin" binding:"omitempty,max=50"`
}

// BranchRequest creates or replaces a branch
type BranchRequest struct {
	Name       string          `json:"name" binding:"required,min=2,max=255"`
	BranchType enum.BranchType `json:"branch_type"`
	Province   *string         `json:"province"`
	City       *string         `json:"city"`
	District   *string         `json:"district"`
}
