package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
)

// SeedTenantDefaults gives a tenant the tax rates and branch it needs to place a first order.
// Existing rows are left untouched.
func SeedTenantDefaults(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) error {
	log := zap.L().With(zap.String("tenant_id", tenantID.String()))

	rates := []entity.TaxRate{
		{TenantID: tenantID, Name: "VAT 16%", Rate: decimal.NewFromInt(16), IsActive: true},
		{TenantID: tenantID, Name: "VAT 8%", Rate: decimal.NewFromInt(8), IsActive: true},
		{TenantID: tenantID, Name: "Exempt", Rate: decimal.Zero, IsActive: true},
	}
	for i := range rates {
		var existing entity.TaxRate
		err := db.WithContext(ctx).Where("tenant_id = ? AND name = ?", tenantID, rates[i].Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.WithContext(ctx).Create(&rates[i]).Error; err != nil {
			log.Warn("failed to seed tax rate", zap.String("name", rates[i].Name), zap.Error(err))
		}
	}

	var count int64
	if err := db.WithContext(ctx).Model(&entity.Branch{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		branch := entity.Branch{TenantID: tenantID, Name: "Main Warehouse", BranchType: enum.BranchTypeWarehouse}
		if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
			return err
		}
	}

	log.Info("default data seeded")
	return nil
}
