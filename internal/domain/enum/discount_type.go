package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// DiscountType represents how a line discount value is interpreted
type DiscountType string

const (
	// DiscountTypePercentage applies value% of the line's extended rate
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed is a flat currency amount, not scaled by quantity
	DiscountTypeFixed DiscountType = "fixed"
)

// IsValid reports whether t is one of the known discount types
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = normalizeDiscountType(str)
	return nil
}

func (t DiscountType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *DiscountType) Scan(value interface{}) error {
	if value == nil {
		*t = DiscountTypeFixed
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = normalizeDiscountType(v)
	case []byte:
		*t = normalizeDiscountType(string(v))
	}
	return nil
}

func normalizeDiscountType(s string) DiscountType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentage", "percent", "%":
		return DiscountTypePercentage
	case "fixed", "flat", "":
		return DiscountTypeFixed
	}
	return DiscountType(s)
}
