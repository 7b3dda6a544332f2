package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// Ledger names used when the item name is unavailable at write time
const (
	fallbackUsageName    = "Aplicação"
	fallbackReversalName = "Estorno"
)

// TransactionEngine moves sessions between scheduled and applied, coupling every status
// change with its stock adjustments and ledger entries in one write group.
type TransactionEngine struct {
	store repositories.Store
	cfg   serviceConfig
}

// NewTransactionEngine creates a transaction engine over store
func NewTransactionEngine(store repositories.Store, opts ...Option) *TransactionEngine {
	return &TransactionEngine{store: store, cfg: newServiceConfig(opts)}
}

// Apply administers a scheduled session on actualDate (today when zero).
//
// Every referenced item must exist and cover the session's total dose for it; the check
// runs against the state inside the write group, so no mutation happens when it fails.
func (e *TransactionEngine) Apply(ctx context.Context, id entities.SessionID, actualDate time.Time) (applied *entities.ScheduleSession, err error) {
	defer e.cfg.observe("apply", e.cfg.now(), &err)

	appliedAt := e.cfg.today()
	if !actualDate.IsZero() {
		appliedAt = entities.CalendarDate(actualDate)
	}

	err = e.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		session, err := tx.FindSession(id)
		if err != nil {
			return err
		}
		if session.Status != entities.StatusScheduled {
			return fmt.Errorf("apply session %s in state %s: %w", id, session.Status, entities.ErrInvalidTransition)
		}
		if len(session.Items) == 0 {
			return entities.NewValidationError("items", fmt.Sprintf("session %s has no items to apply", id))
		}

		doses := entities.AggregateDoses(session.Items)
		items := make([]*entities.SupplyItem, len(doses))
		for i, line := range doses {
			item, err := tx.FindItem(line.SupplyItemID)
			if errors.Is(err, entities.ErrNotFound) {
				return &entities.DanglingReferenceError{ItemID: line.SupplyItemID, SessionID: id}
			}
			if err != nil {
				return err
			}
			if !item.HasStockFor(line.Dose) {
				return insufficient(item, line.Dose)
			}
			items[i] = item
		}

		for i, line := range doses {
			if _, err := tx.AdjustQuantity(line.SupplyItemID, line.Dose.Neg()); err != nil {
				if errors.Is(err, entities.ErrNegativeStock) {
					return insufficient(items[i], line.Dose)
				}
				return err
			}
			if err := e.appendLedger(tx, items[i], line.Dose, entities.MovementUsage, id, fallbackUsageName); err != nil {
				return err
			}
		}

		session.Status = entities.StatusApplied
		session.AppliedAt = &appliedAt
		if err := tx.PutSession(*session); err != nil {
			return err
		}
		applied = session
		return nil
	})
	if err != nil {
		return nil, classify("apply", err)
	}

	e.cfg.logger.Info("session applied", "session", id, "patient", applied.PatientName, "items", len(applied.Items))
	return applied, nil
}

// Undo reverses an applied session, restoring exactly the doses recorded on it.
// If any referenced item has been removed since, nothing changes.
func (e *TransactionEngine) Undo(ctx context.Context, id entities.SessionID) (reverted *entities.ScheduleSession, err error) {
	defer e.cfg.observe("undo", e.cfg.now(), &err)

	err = e.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		session, err := tx.FindSession(id)
		if err != nil {
			return err
		}
		if session.Status != entities.StatusApplied {
			return fmt.Errorf("undo session %s in state %s: %w", id, session.Status, entities.ErrInvalidTransition)
		}

		doses := entities.AggregateDoses(session.Items)
		items := make([]*entities.SupplyItem, len(doses))
		for i, line := range doses {
			item, err := tx.FindItem(line.SupplyItemID)
			if errors.Is(err, entities.ErrNotFound) {
				return &entities.DanglingReferenceError{ItemID: line.SupplyItemID, SessionID: id}
			}
			if err != nil {
				return err
			}
			items[i] = item
		}

		for i, line := range doses {
			if _, err := tx.AdjustQuantity(line.SupplyItemID, line.Dose); err != nil {
				return err
			}
			if err := e.appendLedger(tx, items[i], line.Dose, entities.MovementReversal, id, fallbackReversalName); err != nil {
				return err
			}
		}

		session.Status = entities.StatusScheduled
		session.AppliedAt = nil
		if err := tx.PutSession(*session); err != nil {
			return err
		}
		reverted = session
		return nil
	})
	if err != nil {
		return nil, classify("undo", err)
	}

	e.cfg.logger.Info("session reverted", "session", id, "patient", reverted.PatientName, "items", len(reverted.Items))
	return reverted, nil
}

// Restock adds a positive amount to an item's stock and records an entry movement
func (e *TransactionEngine) Restock(ctx context.Context, itemID entities.ItemID, amount decimal.Decimal) (restocked *entities.SupplyItem, err error) {
	defer e.cfg.observe("restock", e.cfg.now(), &err)

	if !amount.IsPositive() {
		return nil, entities.NewValidationError("amount", fmt.Sprintf("restock amount must be positive, got %s", amount))
	}

	err = e.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		item, err := tx.AdjustQuantity(itemID, amount)
		if err != nil {
			return err
		}
		if err := e.appendLedger(tx, item, amount, entities.MovementEntry, "", item.Name); err != nil {
			return err
		}
		restocked = item
		return nil
	})
	if err != nil {
		return nil, classify("restock", err)
	}

	e.cfg.logger.Info("item restocked", "item", itemID, "amount", amount.String(), "quantity", restocked.Quantity.String())
	return restocked, nil
}

func (e *TransactionEngine) appendLedger(tx repositories.Transaction, item *entities.SupplyItem, qty decimal.Decimal, movement entities.MovementType, sessionID entities.SessionID, fallbackName string) error {
	name := item.Name
	if name == "" {
		name = fallbackName
	}
	entry, err := entities.NewLedgerEntry(e.cfg.ids.Generate(), item.ID, name, qty, movement, sessionID, e.cfg.now())
	if err != nil {
		return err
	}
	return tx.AppendLedgerEntry(*entry)
}

func insufficient(item *entities.SupplyItem, required decimal.Decimal) error {
	return &entities.InsufficientStockError{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Required:  required,
		Available: item.Quantity,
	}
}
