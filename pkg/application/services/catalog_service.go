package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// NewItem describes a supply item to add to the catalog
type NewItem struct {
	Name     string
	Unit     string
	Quantity decimal.Decimal
	MinStock decimal.Decimal
}

// CatalogService adds and removes supply items
type CatalogService struct {
	store repositories.Store
	cfg   serviceConfig
}

// NewCatalogService creates a catalog service over store
func NewCatalogService(store repositories.Store, opts ...Option) *CatalogService {
	return &CatalogService{store: store, cfg: newServiceConfig(opts)}
}

// AddItem catalogs a new supply item. Opening stock is not a ledger movement.
func (s *CatalogService) AddItem(ctx context.Context, req NewItem) (added *entities.SupplyItem, err error) {
	defer s.cfg.observe("add_item", s.cfg.now(), &err)

	item, err := entities.NewSupplyItem(entities.ItemID(s.cfg.ids.Generate()), req.Name, req.Unit, req.Quantity, req.MinStock, s.cfg.now())
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		return tx.PutItem(*item)
	})
	if err != nil {
		return nil, classify("add_item", err)
	}

	s.cfg.logger.Info("item added", "item", item.ID, "name", item.Name)
	return item, nil
}

// ListItems returns the catalog in creation order
func (s *CatalogService) ListItems(ctx context.Context) ([]entities.SupplyItem, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, classify("list_items", err)
	}
	return items, nil
}

// DeleteItem removes an item no scheduled session references.
// Applied sessions and ledger entries keep the id and render it as missing.
func (s *CatalogService) DeleteItem(ctx context.Context, id entities.ItemID) (err error) {
	defer s.cfg.observe("delete_item", s.cfg.now(), &err)

	err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		if _, err := tx.FindItem(id); err != nil {
			return err
		}
		sessions, err := tx.ListSessions()
		if err != nil {
			return err
		}
		pending := 0
		for _, session := range sessions {
			if session.IsPending() && session.References(id) {
				pending++
			}
		}
		if pending > 0 {
			return fmt.Errorf("delete supply item %s: %d scheduled sessions: %w", id, pending, entities.ErrItemReferenced)
		}
		return tx.DeleteItem(id)
	})
	if err != nil {
		return classify("delete_item", err)
	}

	s.cfg.logger.Info("item deleted", "item", id)
	return nil
}
