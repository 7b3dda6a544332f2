package repositories

import (
	"context"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// InventoryReader provides read access to the supply catalog
type InventoryReader interface {
	// GetItem returns entities.ErrNotFound when the item does not exist
	GetItem(ctx context.Context, id entities.ItemID) (*entities.SupplyItem, error)
	// ListItems returns items in catalog order (creation time, then insertion order)
	ListItems(ctx context.Context) ([]entities.SupplyItem, error)
}
