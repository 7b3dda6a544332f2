package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// GetItem returns a supply item by id
func (s *Store) GetItem(_ context.Context, id entities.ItemID) (*entities.SupplyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.findItem(id)
}

// ListItems returns all supply items in catalog order
func (s *Store) ListItems(_ context.Context) ([]entities.SupplyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.listItems(), nil
}

func (st *state) findItem(id entities.ItemID) (*entities.SupplyItem, error) {
	item, ok := st.items[id]
	if !ok {
		return nil, fmt.Errorf("supply item %s: %w", id, entities.ErrNotFound)
	}
	return &item, nil
}

func (st *state) listItems() []entities.SupplyItem {
	items := make([]entities.SupplyItem, 0, len(st.items))
	for _, item := range st.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return st.itemSeq[items[i].ID] < st.itemSeq[items[j].ID]
	})
	return items
}

// FindItem returns an item as seen by the transaction
func (tx *transaction) FindItem(id entities.ItemID) (*entities.SupplyItem, error) {
	return tx.state.findItem(id)
}

// ListItems returns the catalog as seen by the transaction
func (tx *transaction) ListItems() ([]entities.SupplyItem, error) {
	return tx.state.listItems(), nil
}

// PutItem creates or replaces a supply item
func (tx *transaction) PutItem(item entities.SupplyItem) error {
	if item.ID == "" {
		return fmt.Errorf("put supply item: empty id")
	}
	op := repositories.OpUpdated
	if _, exists := tx.state.items[item.ID]; !exists {
		op = repositories.OpCreated
		tx.state.seq++
		tx.state.itemSeq[item.ID] = tx.state.seq
	}
	tx.state.items[item.ID] = item
	tx.record(repositories.CollectionInventory, op, string(item.ID))
	return nil
}

// DeleteItem removes a supply item
func (tx *transaction) DeleteItem(id entities.ItemID) error {
	if _, exists := tx.state.items[id]; !exists {
		return fmt.Errorf("supply item %s: %w", id, entities.ErrNotFound)
	}
	delete(tx.state.items, id)
	delete(tx.state.itemSeq, id)
	tx.record(repositories.CollectionInventory, repositories.OpDeleted, string(id))
	return nil
}

// AdjustQuantity applies delta to an item's quantity unless the result would be negative
func (tx *transaction) AdjustQuantity(id entities.ItemID, delta decimal.Decimal) (*entities.SupplyItem, error) {
	item, ok := tx.state.items[id]
	if !ok {
		return nil, fmt.Errorf("supply item %s: %w", id, entities.ErrNotFound)
	}
	next := item.Quantity.Add(delta)
	if next.IsNegative() {
		return nil, fmt.Errorf("supply item %s: quantity %s, delta %s: %w", id, item.Quantity, delta, entities.ErrNegativeStock)
	}
	item.Quantity = next
	tx.state.items[id] = item
	tx.record(repositories.CollectionInventory, repositories.OpUpdated, string(id))
	return &item, nil
}
