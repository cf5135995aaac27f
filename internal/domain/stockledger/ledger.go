// Package stockledger validates stock movements between branch buckets and
// projects the resulting balances. It performs no I/O; callers persist the
// projection after a successful check.
package stockledger

import (
	"math"

	"github.com/sangkips/procura-api/internal/domain/domainerr"
	"github.com/sangkips/procura-api/internal/domain/enum"
)

// TransferProjection is the balance of both branches after a transfer.
type TransferProjection struct {
	ProjectedSource int64 `json:"projected_source"`
	ProjectedDest   int64 `json:"projected_destination"`
}

// ValidateTransfer checks a transfer of transferQty units from sourceID to
// destID and returns the projected balances.
func ValidateTransfer(sourceQty, destQty, transferQty int64, sourceID, destID string) (TransferProjection, error) {
	if transferQty <= 0 {
		return TransferProjection{}, domainerr.New(domainerr.ErrInvalidQuantity, "transfer quantity must be positive, got %d", transferQty)
	}
	if sourceID == destID {
		return TransferProjection{}, domainerr.New(domainerr.ErrSameLocation, "cannot transfer from branch %s to itself", sourceID)
	}
	if transferQty > sourceQty {
		return TransferProjection{}, domainerr.New(domainerr.ErrInsufficientStock, "only %d available at source, requested %d", sourceQty, transferQty)
	}

	dest, err := add(destQty, transferQty)
	if err != nil {
		return TransferProjection{}, err
	}
	return TransferProjection{
		ProjectedSource: sourceQty - transferQty,
		ProjectedDest:   dest,
	}, nil
}

// ValidateAdjustment checks a manual add or remove of deltaQty units and
// returns the projected quantity.
func ValidateAdjustment(currentQty, deltaQty int64, direction enum.AdjustmentDirection) (int64, error) {
	if deltaQty <= 0 {
		return 0, domainerr.New(domainerr.ErrInvalidQuantity, "adjustment quantity must be positive, got %d", deltaQty)
	}

	switch direction {
	case enum.AdjustmentAdd:
		return add(currentQty, deltaQty)
	case enum.AdjustmentRemove:
		if deltaQty > currentQty {
			return 0, domainerr.New(domainerr.ErrInsufficientStock, "only %d in stock, cannot remove %d", currentQty, deltaQty)
		}
		return currentQty - deltaQty, nil
	}
	return 0, domainerr.New(domainerr.ErrInvalidQuantity, "unknown adjustment direction %q", direction)
}

func add(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, domainerr.New(domainerr.ErrCalculationOverflow, "%d + %d overflows", a, b)
	}
	return a + b, nil
}
