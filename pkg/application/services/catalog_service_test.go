package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	th "github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/testing"
)

func TestCatalogService_AddItem(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item, err := h.catalog.AddItem(ctx, NewItem{Name: " Gaze ", Quantity: th.Qty("10"), MinStock: th.Qty("5")})
	require.NoError(t, err)
	assert.Equal(t, "Gaze", item.Name)
	assert.Equal(t, entities.DefaultUnit, item.Unit)
	assert.Equal(t, th.BaseTime, item.CreatedAt)

	items, err := h.catalog.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, h.ledger(t, ""), "opening stock is not a ledger movement")

	_, err = h.catalog.AddItem(ctx, NewItem{Name: "", Quantity: th.Qty("1")})
	assert.True(t, entities.IsValidation(err))
	_, err = h.catalog.AddItem(ctx, NewItem{Name: "Luva", Quantity: th.Qty("-1")})
	assert.True(t, entities.IsValidation(err))
	assert.Equal(t, OutcomeValidation, h.metrics.last().outcome)
}

func TestCatalogService_DeleteItem(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		[]entities.SupplyItem{th.Item("a", "Gaze", "10", "0"), th.Item("b", "Luva", "10", "0")},
		th.Session("s1", "Ana", "2024-01-02", th.Dose("a", "1")),
	)
	ctx := context.Background()

	err := h.catalog.DeleteItem(ctx, "a")
	assert.ErrorIs(t, err, entities.ErrItemReferenced)
	assert.Equal(t, OutcomeItemReferenced, h.metrics.last().outcome)

	require.NoError(t, h.catalog.DeleteItem(ctx, "b"))
	assert.ErrorIs(t, h.catalog.DeleteItem(ctx, "b"), entities.ErrNotFound)

	items, err := h.catalog.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entities.ItemID("a"), items[0].ID)
}
