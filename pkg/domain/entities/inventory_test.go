package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSupplyItem_Validation(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	item, err := NewSupplyItem("item-1", "  Toxina botulinica ", "", decimal.NewFromInt(10), decimal.NewFromInt(2), createdAt)
	if err != nil {
		t.Fatalf("Expected valid item creation to succeed: %v", err)
	}
	if item.Name != "Toxina botulinica" {
		t.Errorf("Expected trimmed name, got %q", item.Name)
	}
	if item.Unit != DefaultUnit {
		t.Errorf("Expected default unit %q, got %q", DefaultUnit, item.Unit)
	}

	testCases := []struct {
		name        string
		id          ItemID
		itemName    string
		quantity    decimal.Decimal
		minStock    decimal.Decimal
		expectField string
	}{
		{"empty id", "", "Gaze", decimal.NewFromInt(1), decimal.Zero, "id"},
		{"blank name", "item-2", "   ", decimal.NewFromInt(1), decimal.Zero, "name"},
		{"negative quantity", "item-2", "Gaze", decimal.NewFromInt(-1), decimal.Zero, "quantity"},
		{"negative minimum", "item-2", "Gaze", decimal.NewFromInt(1), decimal.NewFromInt(-3), "minStock"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSupplyItem(tc.id, tc.itemName, "ml", tc.quantity, tc.minStock, createdAt)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tc.expectField {
				t.Errorf("Expected field %q, got %q", tc.expectField, verr.Field)
			}
		})
	}
}

func TestSupplyItem_StockChecks(t *testing.T) {
	item := SupplyItem{ID: "a", Name: "Agulha", Quantity: decimal.NewFromInt(5), MinStock: decimal.NewFromInt(5)}

	if !item.HasStockFor(decimal.NewFromInt(5)) {
		t.Error("Expected quantity 5 to cover dose 5")
	}
	if item.HasStockFor(decimal.NewFromInt(6)) {
		t.Error("Expected quantity 5 not to cover dose 6")
	}
	if !item.IsAtOrBelowMinimum() {
		t.Error("Expected item at its minimum to be flagged")
	}

	item.Quantity = decimal.NewFromInt(-1)
	if !item.IsInErrorState() {
		t.Error("Expected negative quantity to be an error state")
	}
}
