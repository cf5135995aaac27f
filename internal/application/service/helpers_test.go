package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/logger"
	"github.com/sangkips/procura-api/pkg/metrics"
)

type fixture struct {
	db       *gorm.DB
	ctx      context.Context
	tenantID uuid.UUID
	userID   uuid.UUID

	products  *ProductService
	settings  *SettingsService
	suppliers *SupplierService
	branches  *BranchService
	stock     *StockService
	orders    *PurchaseOrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.NewGormLogger(gormlogger.Silent, 0),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))

	productRepo := infraRepo.NewProductRepository(db)
	taxRepo := infraRepo.NewTaxRateRepository(db)
	bankRepo := infraRepo.NewBankAccountRepository(db)
	supplierRepo := infraRepo.NewSupplierRepository(db)
	branchRepo := infraRepo.NewBranchRepository(db)
	stockRepo := infraRepo.NewBranchStockRepository(db)
	orderRepo := infraRepo.NewPurchaseOrderRepository(db)
	m := metrics.New("test", prometheus.NewRegistry())

	tenantID := uuid.New()
	return &fixture{
		db:        db,
		ctx:       infraRepo.WithTenant(context.Background(), tenantID),
		tenantID:  tenantID,
		userID:    uuid.New(),
		products:  NewProductService(productRepo, taxRepo),
		settings:  NewSettingsService(taxRepo, bankRepo),
		suppliers: NewSupplierService(supplierRepo),
		branches:  NewBranchService(branchRepo),
		stock:     NewStockService(stockRepo, productRepo, branchRepo, m),
		orders:    NewPurchaseOrderService(orderRepo, productRepo, taxRepo, supplierRepo, bankRepo, branchRepo, stockRepo, m),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) taxRate(t *testing.T, name, rate string) *entity.TaxRate {
	t.Helper()
	r, err := f.settings.CreateTaxRate(f.ctx, &TaxRateInput{Name: name, Rate: dec(rate)})
	require.NoError(t, err)
	return r
}

func (f *fixture) product(t *testing.T, name, price string, discount enum.DiscountType, discountValue string, tax *entity.TaxRate) *entity.Product {
	t.Helper()
	input := &ProductInput{
		UserID:        f.userID,
		Name:          name,
		PurchasePrice: dec(price),
		DiscountType:  discount,
		DiscountValue: dec(discountValue),
	}
	if tax != nil {
		input.TaxRateID = &tax.ID
	}
	p, err := f.products.CreateProduct(f.ctx, input)
	require.NoError(t, err)
	return p
}

func (f *fixture) branch(t *testing.T, name string) *entity.Branch {
	t.Helper()
	b, err := f.branches.CreateBranch(f.ctx, &BranchInput{Name: name})
	require.NoError(t, err)
	return b
}

func (f *fixture) supplier(t *testing.T) *entity.Supplier {
	t.Helper()
	s, err := f.suppliers.CreateSupplier(f.ctx, &SupplierInput{Name: "Acme Supplies"})
	require.NoError(t, err)
	return s
}
