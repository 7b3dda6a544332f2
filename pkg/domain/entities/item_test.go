package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewItemDose(t *testing.T) {
	if _, err := NewItemDose("item-1", decimal.RequireFromString("0.5")); err != nil {
		t.Fatalf("Expected fractional dose to be accepted: %v", err)
	}
	if _, err := NewItemDose("", decimal.NewFromInt(1)); !IsValidation(err) {
		t.Errorf("Expected ValidationError for empty item, got %v", err)
	}
	if _, err := NewItemDose("item-1", decimal.Zero); !IsValidation(err) {
		t.Errorf("Expected ValidationError for zero dose, got %v", err)
	}
}

func TestAggregateDoses(t *testing.T) {
	lines := []ItemDose{
		{SupplyItemID: "b", Dose: decimal.NewFromInt(2)},
		{SupplyItemID: "a", Dose: decimal.NewFromInt(1)},
		{SupplyItemID: "b", Dose: decimal.RequireFromString("1.5")},
	}

	got := AggregateDoses(lines)
	if len(got) != 2 {
		t.Fatalf("Expected 2 aggregated lines, got %d", len(got))
	}
	if got[0].SupplyItemID != "b" || !got[0].Dose.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("Expected b=3.5 first, got %s=%s", got[0].SupplyItemID, got[0].Dose)
	}
	if got[1].SupplyItemID != "a" || !got[1].Dose.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected a=1 second, got %s=%s", got[1].SupplyItemID, got[1].Dose)
	}
	if !lines[0].Dose.Equal(decimal.NewFromInt(2)) {
		t.Error("AggregateDoses must not modify its input")
	}
}

func TestCalendarDateAndParseDate(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)
	got := CalendarDate(time.Date(2024, 3, 10, 23, 30, 0, 0, sp))
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	parsed, err := ParseDate(" 2024-01-15 ")
	if err != nil {
		t.Fatalf("Expected date to parse: %v", err)
	}
	if parsed.Format(DateLayout) != "2024-01-15" {
		t.Errorf("Expected 2024-01-15, got %s", parsed.Format(DateLayout))
	}

	if _, err := ParseDate("15/01/2024"); !IsValidation(err) {
		t.Errorf("Expected ValidationError for bad date, got %v", err)
	}
}
