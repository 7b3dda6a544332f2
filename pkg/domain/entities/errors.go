package entities

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a session is not in the state an operation requires
	ErrInvalidTransition = errors.New("invalid session state transition")
	// ErrItemReferenced is returned when removing an item that pending sessions still use
	ErrItemReferenced = errors.New("item is referenced by pending sessions")
	// ErrNegativeStock is returned by stores when a conditional decrement would drop below zero
	ErrNegativeStock = errors.New("quantity would become negative")
	// ErrConcurrentModification is returned when a compare-and-swap write lost a race
	ErrConcurrentModification = errors.New("concurrent modification")
)

// ValidationError reports malformed input rejected before any mutation
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientStockError reports an item whose current quantity cannot cover a dose
type InsufficientStockError struct {
	ItemID    ItemID
	ItemName  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: available %s, required %s", e.ItemName, e.Available, e.Required)
}

// DanglingReferenceError reports a reference to a supply item that no longer exists
type DanglingReferenceError struct {
	ItemID    ItemID
	SessionID SessionID
}

func (e *DanglingReferenceError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("supply item %s no longer exists", e.ItemID)
	}
	return fmt.Sprintf("session %s references missing supply item %s", e.SessionID, e.ItemID)
}

// Is lets errors.Is(err, ErrNotFound) match dangling references
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrNotFound
}

// PersistenceError reports a write group that failed to commit; nothing from it was applied
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failure: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsInsufficientStock reports whether err is or wraps an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var s *InsufficientStockError
	return errors.As(err, &s)
}

// IsDanglingReference reports whether err is or wraps a DanglingReferenceError
func IsDanglingReference(err error) bool {
	var d *DanglingReferenceError
	return errors.As(err, &d)
}

// IsPersistence reports whether err is or wraps a PersistenceError
func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
