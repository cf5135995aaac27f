package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/pagination"
)

func TestProductService_CreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	vat := f.taxRate(t, "VAT", "16")

	p := f.product(t, "Roof Sheet", "450.50", enum.DiscountTypePercentage, "5", vat)
	assert.Equal(t, "roof-sheet", p.Slug)
	assert.Regexp(t, `^PROD-`, p.Code)
	require.NotNil(t, p.TaxRate)
	assert.True(t, p.TaxRate.Rate.Equal(dec("16")))

	entry := p.CatalogEntry()
	assert.Equal(t, enum.DiscountTypePercentage, entry.Discount.Kind)
	require.NotNil(t, entry.Tax.ID)

	price := dec("400")
	updated, err := f.products.UpdateProduct(f.ctx, p.ID, &UpdateProductInput{PurchasePrice: &price, ClearTaxRate: true})
	require.NoError(t, err)
	assert.True(t, updated.PurchasePrice.Equal(price))
	assert.Nil(t, updated.TaxRateID)
	assert.Nil(t, updated.TaxRate)

	code := p.Code
	other := f.product(t, "Gutter", "30", enum.DiscountTypeFixed, "0", nil)
	_, err = f.products.UpdateProduct(f.ctx, other.ID, &UpdateProductInput{Code: &code})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	list, err := f.products.ListProducts(f.ctx, &repository.ProductFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "ROOF",
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, p.ID, list.Items[0].ID)
}

func TestProductService_RejectsBadPricing(t *testing.T) {
	f := newFixture(t)
	_, err := f.products.CreateProduct(f.ctx, &ProductInput{
		UserID:        f.userID,
		Name:          "Broken",
		PurchasePrice: dec("-1"),
		DiscountType:  enum.DiscountType("bogus"),
		DiscountValue: dec("-2"),
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
	assert.Len(t, appErr.Errors, 3)

	_, err = f.products.CreateProduct(context.Background(), &ProductInput{Name: "No tenant"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestSettingsService_DefaultBankAccount(t *testing.T) {
	f := newFixture(t)

	first, err := f.settings.CreateBankAccount(f.ctx, &BankAccountInput{BankName: "Equity", AccountHolder: "Procura", AccountNumber: "1"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := f.settings.CreateBankAccount(f.ctx, &BankAccountInput{BankName: "KCB", AccountHolder: "Procura", AccountNumber: "2", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	accounts, err := f.settings.ListBankAccounts(f.ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, second.ID, accounts[0].ID)
	assert.False(t, accounts[1].IsDefault)
}

func TestSettingsService_TaxRates(t *testing.T) {
	f := newFixture(t)
	active := f.taxRate(t, "VAT", "16")
	inactive := false
	old, err := f.settings.CreateTaxRate(f.ctx, &TaxRateInput{Name: "Old VAT", Rate: dec("14"), IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	var stored entity.TaxRate
	require.NoError(t, f.db.First(&stored, "id = ?", old.ID).Error)
	assert.False(t, stored.IsActive)

	rates, err := f.settings.ListTaxRates(f.ctx, true)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, active.ID, rates[0].ID)

	_, err = f.settings.CreateTaxRate(f.ctx, &TaxRateInput{Name: "Bad", Rate: dec("-1")})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestBranchService_Validation(t *testing.T) {
	f := newFixture(t)
	b := f.branch(t, "Depot")
	assert.Equal(t, enum.BranchTypeWarehouse, b.BranchType)

	_, err := f.branches.CreateBranch(f.ctx, &BranchInput{Name: "Bad", BranchType: enum.BranchType("garage")})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestSupplierService_CRUDAndSearch(t *testing.T) {
	f := newFixture(t)
	acme := f.supplier(t)
	_, err := f.suppliers.CreateSupplier(f.ctx, &SupplierInput{Name: "Blue Ridge Traders"})
	require.NoError(t, err)

	page, err := f.suppliers.ListSuppliers(f.ctx, pagination.DefaultPagination(), "acme")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, acme.ID, page.Items[0].ID)

	phone := "+254700000000"
	updated, err := f.suppliers.UpdateSupplier(f.ctx, acme.ID, &SupplierInput{Name: "Acme Ltd", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	require.NotNil(t, updated.Phone)

	require.NoError(t, f.suppliers.DeleteSupplier(f.ctx, acme.ID))
	_, err = f.suppliers.GetSupplier(f.ctx, acme.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = f.suppliers.CreateSupplier(context.Background(), &SupplierInput{Name: "No Tenant"})
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}
