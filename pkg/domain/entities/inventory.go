package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is the display unit assigned when none is given
const DefaultUnit = "un"

// SupplyItem represents a consumable supply tracked in the clinic inventory
type SupplyItem struct {
	ID        ItemID          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Unit      string          `json:"unit" yaml:"unit"`
	Quantity  decimal.Decimal `json:"quantity" yaml:"quantity"`
	MinStock  decimal.Decimal `json:"minStock" yaml:"minStock"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt"`
}

// NewSupplyItem creates a validated SupplyItem
func NewSupplyItem(id ItemID, name, unit string, quantity, minStock decimal.Decimal, createdAt time.Time) (*SupplyItem, error) {
	if string(id) == "" {
		return nil, NewValidationError("id", "item id cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "item name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, NewValidationError("quantity", fmt.Sprintf("quantity cannot be negative, got %s", quantity))
	}
	if minStock.IsNegative() {
		return nil, NewValidationError("minStock", fmt.Sprintf("minimum stock cannot be negative, got %s", minStock))
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = DefaultUnit
	}

	return &SupplyItem{
		ID:        id,
		Name:      name,
		Unit:      unit,
		Quantity:  quantity,
		MinStock:  minStock,
		CreatedAt: createdAt,
	}, nil
}

// HasStockFor reports whether the current quantity covers the dose
func (i SupplyItem) HasStockFor(dose decimal.Decimal) bool {
	return i.Quantity.GreaterThanOrEqual(dose)
}

// IsAtOrBelowMinimum reports whether the item has reached its reorder threshold
func (i SupplyItem) IsAtOrBelowMinimum() bool {
	return i.Quantity.LessThanOrEqual(i.MinStock)
}

// IsInErrorState reports a negative quantity, which no engine operation produces on purpose
func (i SupplyItem) IsInErrorState() bool {
	return i.Quantity.IsNegative()
}
