package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// AdjustmentDirection is the direction of a manual stock adjustment
type AdjustmentDirection string

const (
	AdjustmentAdd    AdjustmentDirection = "add"
	AdjustmentRemove AdjustmentDirection = "remove"
)

// IsValid reports whether d is add or remove
func (d AdjustmentDirection) IsValid() bool {
	return d == AdjustmentAdd || d == AdjustmentRemove
}

func (d *AdjustmentDirection) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*d = AdjustmentDirection(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

// MovementType classifies a row of the stock movement ledger
type MovementType string

const (
	MovementAdd         MovementType = "add"
	MovementRemove      MovementType = "remove"
	MovementTransferOut MovementType = "transfer_out"
	MovementTransferIn  MovementType = "transfer_in"
	MovementReceive     MovementType = "receive"
)

func (t MovementType) String() string {
	return string(t)
}

func (t MovementType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = MovementType(v)
	case []byte:
		*t = MovementType(string(v))
	}
	return nil
}

// BranchType classifies a stock location
type BranchType string

const (
	BranchTypeWarehouse BranchType = "warehouse"
	BranchTypeStore     BranchType = "store"
	BranchTypeOffice    BranchType = "office"
)

// IsValid reports whether t is a known branch type
func (t BranchType) IsValid() bool {
	switch t {
	case BranchTypeWarehouse, BranchTypeStore, BranchTypeOffice:
		return true
	}
	return false
}

func (t BranchType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *BranchType) Scan(value interface{}) error {
	if value == nil {
		*t = BranchTypeWarehouse
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = BranchType(v)
	case []byte:
		*t = BranchType(string(v))
	}
	return nil
}
