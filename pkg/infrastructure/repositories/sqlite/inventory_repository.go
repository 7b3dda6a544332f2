package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

const itemColumns = `id, name, unit, quantity, min_stock, created_at`

// GetItem returns a supply item by id
func (s *Store) GetItem(ctx context.Context, id entities.ItemID) (*entities.SupplyItem, error) {
	return findItem(ctx, s.db, id)
}

// ListItems returns all supply items in catalog order
func (s *Store) ListItems(ctx context.Context) ([]entities.SupplyItem, error) {
	return listItems(ctx, s.db)
}

func findItem(ctx context.Context, q queryer, id entities.ItemID) (*entities.SupplyItem, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory WHERE id = ?`, string(id))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("supply item %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query supply item %s: %w", id, err)
	}
	return item, nil
}

func listItems(ctx context.Context, q queryer) ([]entities.SupplyItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+` FROM inventory ORDER BY created_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	items := make([]entities.SupplyItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*entities.SupplyItem, error) {
	var (
		id, name, unit, quantity, minStock, createdAt string
	)
	if err := row.Scan(&id, &name, &unit, &quantity, &minStock, &createdAt); err != nil {
		return nil, err
	}

	item := entities.SupplyItem{ID: entities.ItemID(id), Name: name, Unit: unit}
	var err error
	if item.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return nil, fmt.Errorf("item %s quantity %q: %w", id, quantity, err)
	}
	if item.MinStock, err = decimal.NewFromString(minStock); err != nil {
		return nil, fmt.Errorf("item %s min_stock %q: %w", id, minStock, err)
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItem returns an item as seen by the transaction
func (t *transaction) FindItem(id entities.ItemID) (*entities.SupplyItem, error) {
	return findItem(t.ctx, t.tx, id)
}

// ListItems returns the catalog as seen by the transaction
func (t *transaction) ListItems() ([]entities.SupplyItem, error) {
	return listItems(t.ctx, t.tx)
}

// PutItem creates or replaces a supply item
func (t *transaction) PutItem(item entities.SupplyItem) error {
	if item.ID == "" {
		return fmt.Errorf("put supply item: empty id")
	}

	result, err := t.tx.ExecContext(t.ctx, `
		UPDATE inventory SET name = ?, unit = ?, quantity = ?, min_stock = ?, created_at = ?
		WHERE id = ?`,
		item.Name, item.Unit, item.Quantity.String(), item.MinStock.String(), formatTime(item.CreatedAt), string(item.ID))
	if err != nil {
		return fmt.Errorf("update supply item %s: %w", item.ID, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		t.record(repositories.CollectionInventory, repositories.OpUpdated, string(item.ID))
		return nil
	}

	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO inventory (id, name, unit, quantity, min_stock, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(item.ID), item.Name, item.Unit, item.Quantity.String(), item.MinStock.String(), formatTime(item.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert supply item %s: %w", item.ID, err)
	}
	t.record(repositories.CollectionInventory, repositories.OpCreated, string(item.ID))
	return nil
}

// DeleteItem removes a supply item
func (t *transaction) DeleteItem(id entities.ItemID) error {
	result, err := t.tx.ExecContext(t.ctx, `DELETE FROM inventory WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete supply item %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("supply item %s: %w", id, entities.ErrNotFound)
	}
	t.record(repositories.CollectionInventory, repositories.OpDeleted, string(id))
	return nil
}

// AdjustQuantity applies delta as a compare-and-swap against the quantity it read
func (t *transaction) AdjustQuantity(id entities.ItemID, delta decimal.Decimal) (*entities.SupplyItem, error) {
	item, err := t.FindItem(id)
	if err != nil {
		return nil, err
	}

	next := item.Quantity.Add(delta)
	if next.IsNegative() {
		return nil, fmt.Errorf("supply item %s: quantity %s, delta %s: %w", id, item.Quantity, delta, entities.ErrNegativeStock)
	}

	result, err := t.tx.ExecContext(t.ctx,
		`UPDATE inventory SET quantity = ? WHERE id = ? AND quantity = ?`,
		next.String(), string(id), item.Quantity.String())
	if err != nil {
		return nil, fmt.Errorf("adjust supply item %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("supply item %s: %w", id, entities.ErrConcurrentModification)
	}

	item.Quantity = next
	t.record(repositories.CollectionInventory, repositories.OpUpdated, string(id))
	return item, nil
}
