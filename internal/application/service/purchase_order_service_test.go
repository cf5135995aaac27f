package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/pricing"
	"github.com/sangkips/procura-api/internal/domain/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/pagination"
)

func assertMoney(t *testing.T, want string, got interface{ String() string }) {
	t.Helper()
	assert.True(t, dec(want).String() == dec(got.String()).String(), "want %s, got %s", want, got.String())
}

func TestPurchaseOrderService_BuildDraft(t *testing.T) {
	f := newFixture(t)
	vat := f.taxRate(t, "VAT", "15")
	exempt := f.taxRate(t, "Exempt", "0")
	a := f.product(t, "Steel bar", "100", enum.DiscountTypeFixed, "10", vat)
	b := f.product(t, "Bolt", "50", enum.DiscountTypeFixed, "20", nil)

	draft, err := f.orders.BuildDraft(f.ctx, []OrderItemInput{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: b.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, draft.Lines, 2)

	assertMoney(t, "90", draft.Lines[0].TaxableAmount)
	assertMoney(t, "13.5", draft.Lines[0].TaxAmount)
	assertMoney(t, "103.5", draft.Lines[0].LineTotal)
	require.NotNil(t, draft.Lines[0].Catalog.Tax.ID)
	assert.Equal(t, vat.ID, *draft.Lines[0].Catalog.Tax.ID)

	assertMoney(t, "150", draft.Lines[1].ExtendedRate)
	assertMoney(t, "20", draft.Lines[1].DiscountAmount)

	assertMoney(t, "250", draft.Totals.Subtotal)
	assertMoney(t, "30", draft.Totals.TotalDiscount)
	assertMoney(t, "13.5", draft.Totals.VAT)
	assertMoney(t, "233.5", draft.Totals.Total)

	// hand-entered rate becomes the basis for later quantity changes
	draft, err = f.orders.BuildDraft(f.ctx, []OrderItemInput{{
		ProductID: a.ID,
		Quantity:  1,
		Override:  &LineOverrideInput{Rate: dec("80"), DiscountType: enum.DiscountTypePercentage, DiscountValue: dec("0"), TaxRateID: &exempt.ID},
	}})
	require.NoError(t, err)
	assert.True(t, draft.Lines[0].Overridden)

	qty := int64(2)
	edited, err := f.orders.ApplyDraftEdit(f.ctx, &DraftEditInput{Draft: draft, Index: 0, Quantity: &qty})
	require.NoError(t, err)
	assertMoney(t, "160", edited.Lines[0].ExtendedRate)
	assertMoney(t, "160", edited.Totals.Total)

	edited, err = f.orders.ApplyDraftEdit(f.ctx, &DraftEditInput{Draft: edited, Index: 0, Reset: true})
	require.NoError(t, err)
	assertMoney(t, "200", edited.Lines[0].ExtendedRate)
	assertMoney(t, "218.5", edited.Totals.Total)
}

func TestPurchaseOrderService_DraftErrors(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Tile", "4", enum.DiscountTypeFixed, "0", nil)

	_, err := f.orders.BuildDraft(f.ctx, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = f.orders.BuildDraft(f.ctx, []OrderItemInput{{ProductID: p.ID, Quantity: 0}})
	requireKind(t, err, http.StatusUnprocessableEntity, "invalid_quantity")

	draft, err := f.orders.BuildDraft(f.ctx, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	qty := int64(1)
	_, err = f.orders.ApplyDraftEdit(f.ctx, &DraftEditInput{Draft: draft, Index: 5, Quantity: &qty})
	requireKind(t, err, http.StatusNotFound, "line_not_found")

	// tampered amounts are recomputed before the edit is applied
	draft.Lines[0].LineTotal = dec("9999")
	draft.Totals.Total = dec("9999")
	qty = 3
	edited, err := f.orders.ApplyDraftEdit(f.ctx, &DraftEditInput{Draft: draft, Index: 0, Quantity: &qty})
	require.NoError(t, err)
	assertMoney(t, "12", edited.Totals.Total)
}

func TestPurchaseOrderService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	vat := f.taxRate(t, "VAT", "16")
	p := f.product(t, "Pipe", "25", enum.DiscountTypePercentage, "10", vat)
	supplier := f.supplier(t)
	branch := f.branch(t, "Main")
	account, err := f.settings.CreateBankAccount(f.ctx, &BankAccountInput{BankName: "KCB", AccountHolder: "Procura", AccountNumber: "001"})
	require.NoError(t, err)
	assert.True(t, account.IsDefault)

	input := &PurchaseOrderInput{
		UserID:     f.userID,
		SupplierID: supplier.ID,
		BranchID:   branch.ID,
		OrderDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Items:      []OrderItemInput{{ProductID: p.ID, Quantity: 4}},
	}
	order, err := f.orders.CreatePurchaseOrder(f.ctx, input)
	require.NoError(t, err)
	assert.Regexp(t, `^PO-[0-9A-F]{8}$`, order.OrderNo)
	require.NotNil(t, order.BankAccountID)
	assert.Equal(t, account.ID, *order.BankAccountID)
	require.Len(t, order.Items, 1)
	// 100 - 10% = 90, +16% = 104.4
	assertMoney(t, "104.4", order.Total)
	assertMoney(t, "14.4", order.VAT)

	input.Items = []OrderItemInput{{ProductID: p.ID, Quantity: 2}, {ProductID: p.ID, Quantity: 1}}
	order, err = f.orders.UpdatePurchaseOrder(f.ctx, order.ID, input)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 0, order.Items[0].Position)
	assert.Equal(t, int64(2), order.Items[0].Quantity)
	assertMoney(t, "78.3", order.Total)

	received, err := f.orders.ReceivePurchaseOrder(f.ctx, f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PurchaseOrderStatusReceived, received.Status)

	levels, err := f.stock.GetProductStock(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, int64(3), levels[0].Quantity)

	receiveType := enum.MovementReceive
	movements, err := f.stock.ListMovements(f.ctx, &repository.MovementFilterParams{
		Pagination: pagination.DefaultPagination(),
		Type:       &receiveType,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), movements.Pagination.Total)
	require.NotNil(t, movements.Items[0].Reference)
	assert.Equal(t, order.OrderNo, *movements.Items[0].Reference)

	_, err = f.orders.ReceivePurchaseOrder(f.ctx, f.userID, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = f.orders.UpdatePurchaseOrder(f.ctx, order.ID, input)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	err = f.orders.DeletePurchaseOrder(f.ctx, order.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestPurchaseOrderService_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Wire", "2", enum.DiscountTypeFixed, "0", nil)
	supplier := f.supplier(t)
	branch := f.branch(t, "Main")

	var created []*entity.PurchaseOrder
	for i := 0; i < 3; i++ {
		o, err := f.orders.CreatePurchaseOrder(f.ctx, &PurchaseOrderInput{
			UserID: f.userID, SupplierID: supplier.ID, BranchID: branch.ID,
			Items: []OrderItemInput{{ProductID: p.ID, Quantity: int64(i + 1)}},
		})
		require.NoError(t, err)
		created = append(created, o)
	}

	pending := enum.PurchaseOrderStatusPending
	list, err := f.orders.ListPurchaseOrders(f.ctx, &repository.PurchaseOrderFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
		Status:     &pending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Len(t, list.Items, 2)
	assert.True(t, list.Pagination.HasNext)

	require.NoError(t, f.orders.DeletePurchaseOrder(f.ctx, created[0].ID))
	_, err = f.orders.GetPurchaseOrder(f.ctx, created[0].ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = f.orders.CreatePurchaseOrder(f.ctx, &PurchaseOrderInput{
		UserID: f.userID, SupplierID: supplier.ID, BranchID: branch.ID,
		Items:         []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		BankAccountID: &supplier.ID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestPurchaseOrderService_StoredItemsRederive(t *testing.T) {
	f := newFixture(t)
	vat := f.taxRate(t, "VAT", "16")
	p := f.product(t, "Washer", "3.335", enum.DiscountTypePercentage, "10", vat)
	assertMoney(t, "3.34", p.PurchasePrice)
	supplier := f.supplier(t)
	branch := f.branch(t, "Main")

	order, err := f.orders.CreatePurchaseOrder(f.ctx, &PurchaseOrderInput{
		UserID: f.userID, SupplierID: supplier.ID, BranchID: branch.ID,
		Items: []OrderItemInput{
			{ProductID: p.ID, Quantity: 3},
			{ProductID: p.ID, Quantity: 3, Override: &LineOverrideInput{
				Rate:          dec("3.335"),
				DiscountType:  enum.DiscountTypePercentage,
				DiscountValue: dec("12.345"),
				TaxRateID:     &vat.ID,
			}},
		},
	})
	require.NoError(t, err)

	stored, err := f.orders.GetPurchaseOrder(f.ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)

	override := stored.Items[1]
	assert.True(t, override.Overridden)
	assertMoney(t, "3.34", override.Rate)
	assertMoney(t, "12.35", override.DiscountValue)
	assertMoney(t, "10.02", override.ExtendedRate)

	for _, item := range stored.Items {
		amounts, err := pricing.PriceLine(item.Rate, decimal.NewFromInt(item.Quantity),
			pricing.DiscountSpec{Kind: item.DiscountType, Value: item.DiscountValue}, item.TaxPercent)
		require.NoError(t, err)
		assertMoney(t, amounts.ExtendedRate.String(), item.ExtendedRate)
		assertMoney(t, amounts.DiscountAmount.String(), item.DiscountAmount)
		assertMoney(t, amounts.TaxableAmount.String(), item.TaxableAmount)
		assertMoney(t, amounts.TaxAmount.String(), item.TaxAmount)
		assertMoney(t, amounts.LineTotal.String(), item.LineTotal)
	}
}
