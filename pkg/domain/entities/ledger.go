package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a stock ledger entry
type MovementType string

const (
	MovementEntry    MovementType = "entry"
	MovementUsage    MovementType = "usage"
	MovementReversal MovementType = "reversal"
)

// IsValid reports whether t is a known movement type
func (t MovementType) IsValid() bool {
	switch t {
	case MovementEntry, MovementUsage, MovementReversal:
		return true
	default:
		return false
	}
}

// Sign returns the direction the movement applies to stock
func (t MovementType) Sign() int {
	if t == MovementUsage {
		return -1
	}
	return 1
}

// LedgerEntry is an immutable record of one stock movement for one item.
// ItemName is copied at write time so the entry stays readable after the item is removed.
type LedgerEntry struct {
	ID        string          `json:"id" yaml:"id"`
	ItemID    ItemID          `json:"itemId" yaml:"itemId"`
	ItemName  string          `json:"itemName" yaml:"itemName"`
	Quantity  decimal.Decimal `json:"quantity" yaml:"quantity"`
	Type      MovementType    `json:"type" yaml:"type"`
	SessionID SessionID       `json:"sessionId,omitempty" yaml:"sessionId,omitempty"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt"`
}

// NewLedgerEntry creates a validated LedgerEntry
func NewLedgerEntry(id string, itemID ItemID, itemName string, quantity decimal.Decimal, movement MovementType, sessionID SessionID, createdAt time.Time) (*LedgerEntry, error) {
	if id == "" {
		return nil, NewValidationError("id", "ledger entry id cannot be empty")
	}
	if string(itemID) == "" {
		return nil, NewValidationError("itemId", "ledger entry item cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, NewValidationError("quantity", fmt.Sprintf("ledger quantity must be positive, got %s", quantity))
	}
	if !movement.IsValid() {
		return nil, NewValidationError("type", fmt.Sprintf("unknown movement type %q", movement))
	}

	return &LedgerEntry{
		ID:        id,
		ItemID:    itemID,
		ItemName:  itemName,
		Quantity:  quantity,
		Type:      movement,
		SessionID: sessionID,
		CreatedAt: createdAt,
	}, nil
}

// SignedQuantity returns the quantity with the movement's direction applied
func (e LedgerEntry) SignedQuantity() decimal.Decimal {
	if e.Type.Sign() < 0 {
		return e.Quantity.Neg()
	}
	return e.Quantity
}
