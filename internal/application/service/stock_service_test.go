package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/procura-api/internal/domain/entity"
	"github.com/sangkips/procura-api/internal/domain/enum"
	"github.com/sangkips/procura-api/internal/domain/repository"
	infraRepo "github.com/sangkips/procura-api/internal/infrastructure/repository"
	"github.com/sangkips/procura-api/pkg/apperror"
	"github.com/sangkips/procura-api/pkg/pagination"
)

func (f *fixture) adjust(t *testing.T, product *entity.Product, branch *entity.Branch, qty int64, dir enum.AdjustmentDirection) (*entity.StockMovement, error) {
	t.Helper()
	return f.stock.AdjustStock(f.ctx, &AdjustStockInput{
		UserID:    f.userID,
		ProductID: product.ID,
		BranchID:  branch.ID,
		Quantity:  qty,
		Direction: dir,
	})
}

func requireKind(t *testing.T, err error, code int, kind string) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, kind, appErr.Kind)
}

func TestStockService_AdjustStock(t *testing.T) {
	f := newFixture(t)
	product := f.product(t, "Cement", "10", enum.DiscountTypeFixed, "0", nil)
	branch := f.branch(t, "Main")

	movement, err := f.adjust(t, product, branch, 10, enum.AdjustmentAdd)
	require.NoError(t, err)
	assert.Equal(t, enum.MovementAdd, movement.Type)
	assert.Equal(t, int64(0), movement.QuantityBefore)
	assert.Equal(t, int64(10), movement.QuantityAfter)

	movement, err = f.adjust(t, product, branch, 10, enum.AdjustmentRemove)
	require.NoError(t, err)
	assert.Equal(t, enum.MovementRemove, movement.Type)
	assert.Equal(t, int64(0), movement.QuantityAfter)

	_, err = f.adjust(t, product, branch, 1, enum.AdjustmentRemove)
	requireKind(t, err, http.StatusConflict, "insufficient_stock")

	_, err = f.adjust(t, product, branch, 0, enum.AdjustmentAdd)
	requireKind(t, err, http.StatusUnprocessableEntity, "invalid_quantity")

	_, err = f.adjust(t, product, branch, 1, enum.AdjustmentDirection("up"))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	history, err := f.stock.ListMovements(f.ctx, &repository.MovementFilterParams{
		Pagination: pagination.DefaultPagination(),
		ProductID:  &product.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), history.Pagination.Total)
}

func TestStockService_TransferStock(t *testing.T) {
	f := newFixture(t)
	product := f.product(t, "Nails", "1.5", enum.DiscountTypeFixed, "0", nil)
	src := f.branch(t, "A Warehouse")
	dst := f.branch(t, "B Store")
	f.branch(t, "C Office")

	_, err := f.adjust(t, product, src, 10, enum.AdjustmentAdd)
	require.NoError(t, err)
	_, err = f.adjust(t, product, dst, 5, enum.AdjustmentAdd)
	require.NoError(t, err)

	result, err := f.stock.TransferStock(f.ctx, &TransferStockInput{
		UserID:        f.userID,
		ProductID:     product.ID,
		SourceID:      src.ID,
		DestinationID: dst.ID,
		Quantity:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Out.QuantityAfter)
	assert.Equal(t, int64(8), result.In.QuantityAfter)
	require.NotNil(t, result.Out.Reference)
	assert.Equal(t, *result.Out.Reference, *result.In.Reference)

	levels, err := f.stock.GetProductStock(f.ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	byName := map[string]int64{}
	var sum int64
	for _, l := range levels {
		byName[l.Name] = l.Quantity
		sum += l.Quantity
	}
	assert.Equal(t, int64(7), byName["A Warehouse"])
	assert.Equal(t, int64(8), byName["B Store"])
	assert.Equal(t, int64(0), byName["C Office"])
	assert.Equal(t, int64(15), sum)
}

func TestStockService_TransferRejections(t *testing.T) {
	f := newFixture(t)
	product := f.product(t, "Paint", "20", enum.DiscountTypeFixed, "0", nil)
	src := f.branch(t, "Source")
	dst := f.branch(t, "Destination")
	_, err := f.adjust(t, product, src, 5, enum.AdjustmentAdd)
	require.NoError(t, err)

	transfer := func(from, to uuid.UUID, qty int64) error {
		_, err := f.stock.TransferStock(f.ctx, &TransferStockInput{
			UserID: f.userID, ProductID: product.ID, SourceID: from, DestinationID: to, Quantity: qty,
		})
		return err
	}

	requireKind(t, transfer(src.ID, src.ID, 3), http.StatusUnprocessableEntity, "same_location")
	requireKind(t, transfer(src.ID, dst.ID, 6), http.StatusConflict, "insufficient_stock")
	requireKind(t, transfer(src.ID, dst.ID, 0), http.StatusUnprocessableEntity, "invalid_quantity")

	err = transfer(src.ID, uuid.New(), 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	// nothing moved
	levels, err := f.stock.GetProductStock(f.ctx, product.ID)
	require.NoError(t, err)
	for _, l := range levels {
		if l.BranchID == src.ID {
			assert.Equal(t, int64(5), l.Quantity)
		} else {
			assert.Equal(t, int64(0), l.Quantity)
		}
	}
}

func TestStockService_TenantIsolation(t *testing.T) {
	f := newFixture(t)
	product := f.product(t, "Glue", "3", enum.DiscountTypeFixed, "0", nil)

	other := infraRepo.WithTenant(context.Background(), uuid.New())
	_, err := f.stock.GetProductStock(other, product.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}
