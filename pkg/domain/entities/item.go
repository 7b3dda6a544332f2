package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemID represents a unique supply item identifier
type ItemID string

// SessionID represents a unique schedule session identifier
type SessionID string

// DateLayout is the calendar date format used for session and application dates
const DateLayout = "2006-01-02"

// ItemDose is one line of a treatment: a supply item reference and the amount it consumes.
// The reference is weak; the item may have been removed from the catalog since.
type ItemDose struct {
	SupplyItemID ItemID          `json:"supplyItemId" yaml:"supplyItemId"`
	Dose         decimal.Decimal `json:"dose" yaml:"dose"`
}

// NewItemDose creates a validated ItemDose
func NewItemDose(itemID ItemID, dose decimal.Decimal) (ItemDose, error) {
	if strings.TrimSpace(string(itemID)) == "" {
		return ItemDose{}, NewValidationError("supplyItemId", "item selection cannot be empty")
	}
	if !dose.IsPositive() {
		return ItemDose{}, NewValidationError("dose", fmt.Sprintf("dose must be positive, got %s", dose))
	}
	return ItemDose{SupplyItemID: itemID, Dose: dose}, nil
}

// IsWellFormed reports whether the line names an item and consumes a positive amount
func (d ItemDose) IsWellFormed() bool {
	return strings.TrimSpace(string(d.SupplyItemID)) != "" && d.Dose.IsPositive()
}

// AggregateDoses sums doses per item, keeping the order in which items first appear
func AggregateDoses(lines []ItemDose) []ItemDose {
	index := make(map[ItemID]int, len(lines))
	var out []ItemDose
	for _, line := range lines {
		if i, ok := index[line.SupplyItemID]; ok {
			out[i].Dose = out[i].Dose.Add(line.Dose)
			continue
		}
		index[line.SupplyItemID] = len(out)
		out = append(out, line)
	}
	return out
}

// CalendarDate truncates t to midnight UTC of its calendar day in t's own location
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", s))
	}
	return t, nil
}
