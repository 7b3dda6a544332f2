package sqlite

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// ListLedgerEntries returns ledger entries newest first, optionally for one item
func (s *Store) ListLedgerEntries(ctx context.Context, itemID entities.ItemID) ([]entities.LedgerEntry, error) {
	query := `SELECT id, item_id, item_name, quantity, type, session_id, created_at FROM stock_logs`
	var args []any
	if itemID != "" {
		query += ` WHERE item_id = ?`
		args = append(args, string(itemID))
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock_logs: %w", err)
	}
	defer rows.Close()

	var entries []entities.LedgerEntry
	for rows.Next() {
		var id, item, name, quantity, movement, session, createdAt string
		if err := rows.Scan(&id, &item, &name, &quantity, &movement, &session, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		qty, err := decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("ledger entry %s quantity %q: %w", id, quantity, err)
		}
		at, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entities.LedgerEntry{
			ID:        id,
			ItemID:    entities.ItemID(item),
			ItemName:  name,
			Quantity:  qty,
			Type:      entities.MovementType(movement),
			SessionID: entities.SessionID(session),
			CreatedAt: at,
		})
	}
	return entries, rows.Err()
}

// AppendLedgerEntry appends an entry to stock_logs
func (t *transaction) AppendLedgerEntry(entry entities.LedgerEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("append ledger entry: empty id")
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO stock_logs (id, item_id, item_name, quantity, type, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, string(entry.ItemID), entry.ItemName, entry.Quantity.String(), string(entry.Type),
		string(entry.SessionID), formatTime(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("append ledger entry %s: %w", entry.ID, err)
	}
	t.record(repositories.CollectionStockLogs, repositories.OpCreated, entry.ID)
	return nil
}
