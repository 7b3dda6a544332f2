package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	th "github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/testing"
)

func TestImportService_ImportInventory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	input := "Ácido hialurônico,ml,10,2\nGaze,,abc\nLuva,par\n,un,3\nAgulha,un,4\n"
	result, err := h.imports.ImportInventory(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, []dto.SkippedLine{
		{Line: 3, Reason: "expected at least 3 columns, got 2"},
		{Line: 4, Reason: "empty item name"},
	}, result.Skipped)
	assert.Equal(t, [2]int{3, 2}, h.metrics.imports["inventory"])

	items, err := h.store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Ácido hialurônico", items[0].Name)
	assert.Equal(t, "un", items[1].Unit)
	assert.True(t, items[1].Quantity.IsZero())
	assert.True(t, items[2].MinStock.Equal(th.Qty("5")))
	assert.Empty(t, h.ledger(t, ""))
}

func TestImportService_ImportSchedule(t *testing.T) {
	h := newHarness(t)
	h.seed(t, []entities.SupplyItem{th.Item("a", "Ácido Hialurônico", "10", "2"), th.Item("b", "Gaze", "10", "2")})
	ctx := context.Background()

	input := strings.Join([]string{
		"Ana,ácido hialurônico,1,2024-03-01",
		"Bia,Toxina,1,2024-03-01",
		"Caio,GAZE,0,2024-03-01",
		"Davi,Toxina,2,2024-03-02",
		"Eva,Soro,1,2024-03-02",
		"Fabio,gaze,2,2024-03-03",
		"Gil,Gaze,1",
	}, "\n")
	result, err := h.imports.ImportSchedule(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, []string{"Toxina", "Soro"}, result.Unmatched)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, 3, result.Skipped[0].Line)
	assert.Equal(t, 7, result.Skipped[1].Line)

	sessions, err := h.store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "Ana", sessions[0].PatientName)
	assert.Equal(t, []entities.ItemDose{th.Dose("a", "1")}, sessions[0].Items)
	assert.Equal(t, "2024-03-01", sessions[0].Date.Format(entities.DateLayout))
	assert.Equal(t, 1, sessions[0].SessionIndex)
	assert.Equal(t, 1, sessions[0].SessionsTotal)
	assert.Equal(t, entities.ItemID("b"), sessions[1].Items[0].SupplyItemID)
}

func TestImportService_ScheduleWithNothingMatched(t *testing.T) {
	h := newHarness(t)
	result, err := h.imports.ImportSchedule(context.Background(), strings.NewReader("Ana,Gaze,1,2024-03-01\n"))
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Equal(t, []string{"Gaze"}, result.Unmatched)
	assert.True(t, result.HasWarnings())
}
