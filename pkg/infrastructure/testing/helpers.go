package testing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// BaseTime is the reference instant used by clinic fixtures
var BaseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// Clock is a manually advanced clock safe for concurrent use
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock stopped at t
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequenceIDs yields prefix-1, prefix-2, ... and is safe for concurrent use
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceIDs creates a deterministic id generator
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{prefix: prefix}
}

// Generate returns the next id in the sequence
func (g *SequenceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next)
}

// Qty parses a decimal literal and panics on malformed input
func Qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Item builds a catalog item created at BaseTime
func Item(id, name, quantity, minStock string) entities.SupplyItem {
	return entities.SupplyItem{
		ID:        entities.ItemID(id),
		Name:      name,
		Unit:      entities.DefaultUnit,
		Quantity:  Qty(quantity),
		MinStock:  Qty(minStock),
		CreatedAt: BaseTime,
	}
}

// Dose builds one session line
func Dose(itemID, dose string) entities.ItemDose {
	return entities.ItemDose{SupplyItemID: entities.ItemID(itemID), Dose: Qty(dose)}
}

// Session builds a scheduled single-session protocol on date (YYYY-MM-DD)
func Session(id, patient, date string, items ...entities.ItemDose) entities.ScheduleSession {
	day, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return entities.ScheduleSession{
		ID:            entities.SessionID(id),
		PatientName:   patient,
		Items:         items,
		Date:          day,
		Status:        entities.StatusScheduled,
		SessionIndex:  1,
		SessionsTotal: 1,
		CreatedAt:     BaseTime,
	}
}

// Seed writes items and sessions to store in one write group
func Seed(ctx context.Context, store repositories.Store, items []entities.SupplyItem, sessions ...entities.ScheduleSession) error {
	return store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		for _, item := range items {
			if err := tx.PutItem(item); err != nil {
				return err
			}
		}
		for _, session := range sessions {
			if err := tx.PutSession(session); err != nil {
				return err
			}
		}
		return nil
	})
}
