package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// Collection names a logical record collection
type Collection string

const (
	CollectionInventory Collection = "inventory"
	CollectionSchedule  Collection = "schedule"
	CollectionStockLogs Collection = "stock_logs"
)

// ChangeOp describes what happened to a record
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
)

// ChangeEvent is delivered to subscribers after a write group commits
type ChangeEvent struct {
	Collection Collection
	Op         ChangeOp
	ID         string
	At         time.Time
}

// ChangeHandler receives committed changes
type ChangeHandler func(ChangeEvent)

// Transaction is an isolated view over the store used to build one atomic write group.
// Reads observe the freshest committed state plus the group's own writes.
type Transaction interface {
	FindItem(id entities.ItemID) (*entities.SupplyItem, error)
	ListItems() ([]entities.SupplyItem, error)
	PutItem(item entities.SupplyItem) error
	DeleteItem(id entities.ItemID) error

	// AdjustQuantity adds delta to an item's quantity and returns the updated item.
	// It is a conditional write: when the result would be negative it fails with
	// entities.ErrNegativeStock and changes nothing.
	AdjustQuantity(id entities.ItemID, delta decimal.Decimal) (*entities.SupplyItem, error)

	FindSession(id entities.SessionID) (*entities.ScheduleSession, error)
	ListSessions() ([]entities.ScheduleSession, error)
	PutSession(session entities.ScheduleSession) error
	DeleteSession(id entities.SessionID) error

	// AppendLedgerEntry is the only ledger write; entries are never updated or deleted
	AppendLedgerEntry(entry entities.LedgerEntry) error
}

// Store is the persistence boundary for inventory, schedule and stock_logs
type Store interface {
	InventoryReader
	ScheduleReader
	LedgerReader

	// RunInTransaction runs fn against a Transaction and commits its writes as one group.
	// If fn returns an error or the commit fails, no write from the group is visible.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	// Subscribe registers handler for committed changes in the given collections
	// (all collections when none are given) and returns a function that cancels it.
	Subscribe(handler ChangeHandler, collections ...Collection) (cancel func())

	Close() error
}
