package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/procura-api/internal/domain/enum"
)

// StockMovement is one entry of the append-only stock ledger
type StockMovement struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	BranchID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"branch_id"`
	Type           enum.MovementType `gorm:"size:20;not null;index" json:"type"`
	Quantity       int64             `gorm:"not null" json:"quantity"`
	QuantityBefore int64             `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int64             `gorm:"not null" json:"quantity_after"`
	Reference      *string           `gorm:"size:100;index" json:"reference,omitempty"`
	Reason         *string           `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Branch  *Branch  `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

// BeforeCreate generates a UUID before creating a new movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
