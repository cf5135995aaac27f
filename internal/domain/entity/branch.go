package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/procura-api/internal/domain/enum"
)

// Branch is a stock location
type Branch struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	BranchType enum.BranchType `gorm:"size:20;default:'warehouse'" json:"branch_type"`
	Province   *string         `gorm:"size:100" json:"province,omitempty"`
	City       *string         `gorm:"size:100" json:"city,omitempty"`
	District   *string         `gorm:"size:100" json:"district,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new branch
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// BranchStock is the quantity of one product held at one branch
type BranchStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_branch_stock_product_branch" json:"product_id"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_branch_stock_product_branch" json:"branch_id"`
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new stock row
func (s *BranchStock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BranchStock model
func (BranchStock) TableName() string {
	return "branch_stocks"
}

// BranchStockLevel is a branch together with its quantity of a product.
// Branches with no stock row report zero.
type BranchStockLevel struct {
	BranchID   uuid.UUID       `json:"branch_id"`
	Name       string          `json:"name"`
	BranchType enum.BranchType `json:"branch_type"`
	Province   *string         `json:"province,omitempty"`
	City       *string         `json:"city,omitempty"`
	District   *string         `json:"district,omitempty"`
	Quantity   int64           `json:"quantity"`
}
