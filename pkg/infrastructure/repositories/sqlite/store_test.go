package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

var baseTime = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "clinic.db"), WithClock(func() time.Time { return baseTime }))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, store *Store, fn func(tx repositories.Transaction) error) {
	t.Helper()
	require.NoError(t, store.RunInTransaction(context.Background(), fn))
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.db")
	store, err := Open(path)
	require.NoError(t, err)
	seed(t, store, func(tx repositories.Transaction) error {
		return tx.PutItem(entities.SupplyItem{ID: "a", Name: "Gaze", Unit: "un", Quantity: decimal.NewFromInt(3), CreatedAt: baseTime})
	})
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	item, err := reopened.GetItem(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, item.CreatedAt.Equal(baseTime))
}

func TestStore_ItemRoundTripAndOrder(t *testing.T) {
	store := openTestStore(t)
	seed(t, store, func(tx repositories.Transaction) error {
		for _, item := range []entities.SupplyItem{
			{ID: "late", Name: "Luva", Unit: "par", Quantity: decimal.RequireFromString("1.5"), MinStock: decimal.NewFromInt(2), CreatedAt: baseTime.Add(time.Hour)},
			{ID: "first", Name: "Gaze", Unit: "un", Quantity: decimal.NewFromInt(10), MinStock: decimal.NewFromInt(5), CreatedAt: baseTime},
			{ID: "second", Name: "Agulha", Unit: "un", Quantity: decimal.Zero, MinStock: decimal.Zero, CreatedAt: baseTime},
		} {
			if err := tx.PutItem(item); err != nil {
				return err
			}
		}
		return nil
	})

	items, err := store.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []entities.ItemID{"first", "second", "late"}, []entities.ItemID{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, "par", items[2].Unit)
	assert.True(t, items[2].Quantity.Equal(decimal.RequireFromString("1.5")))

	_, err = store.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestStore_AdjustQuantity(t *testing.T) {
	store := openTestStore(t)
	seed(t, store, func(tx repositories.Transaction) error {
		return tx.PutItem(entities.SupplyItem{ID: "a", Name: "Gaze", Unit: "un", Quantity: decimal.NewFromInt(5), CreatedAt: baseTime})
	})

	err := store.RunInTransaction(context.Background(), func(tx repositories.Transaction) error {
		_, err := tx.AdjustQuantity("a", decimal.NewFromInt(-6))
		return err
	})
	assert.ErrorIs(t, err, entities.ErrNegativeStock)

	var updated *entities.SupplyItem
	seed(t, store, func(tx repositories.Transaction) error {
		var err error
		updated, err = tx.AdjustQuantity("a", decimal.NewFromInt(-5))
		return err
	})
	assert.True(t, updated.Quantity.IsZero())

	item, err := store.GetItem(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.IsZero())
}

func TestStore_FailedGroupRollsBack(t *testing.T) {
	store := openTestStore(t)
	seed(t, store, func(tx repositories.Transaction) error {
		return tx.PutItem(entities.SupplyItem{ID: "a", Name: "Gaze", Unit: "un", Quantity: decimal.NewFromInt(5), CreatedAt: baseTime})
	})

	var received []repositories.ChangeEvent
	cancel := store.Subscribe(func(e repositories.ChangeEvent) { received = append(received, e) })
	defer cancel()

	boom := errors.New("boom")
	err := store.RunInTransaction(context.Background(), func(tx repositories.Transaction) error {
		if _, err := tx.AdjustQuantity("a", decimal.NewFromInt(-2)); err != nil {
			return err
		}
		entry, err := entities.NewLedgerEntry("log-1", "a", "Gaze", decimal.NewFromInt(2), entities.MovementUsage, "s1", baseTime)
		if err != nil {
			return err
		}
		if err := tx.AppendLedgerEntry(*entry); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	item, err := store.GetItem(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(5)))

	entries, err := store.ListLedgerEntries(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, received)
}

func TestStore_SessionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	applied := baseTime.Add(2 * time.Hour)
	sessions := []entities.ScheduleSession{
		{
			ID: "s2", ProtocolID: "p1", PatientName: "Ana", Status: entities.StatusApplied, AppliedAt: &applied,
			Items:        []entities.ItemDose{{SupplyItemID: "a", Dose: decimal.RequireFromString("0.5")}},
			Date:         time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			SessionIndex: 2, SessionsTotal: 2, CreatedAt: baseTime,
		},
		{
			ID: "s1", ProtocolID: "p1", PatientName: "Ana", Status: entities.StatusScheduled,
			Items:        []entities.ItemDose{{SupplyItemID: "a", Dose: decimal.NewFromInt(2)}, {SupplyItemID: "b", Dose: decimal.NewFromInt(1)}},
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			SessionIndex: 1, SessionsTotal: 2, CreatedAt: baseTime,
		},
	}
	seed(t, store, func(tx repositories.Transaction) error {
		for _, s := range sessions {
			if err := tx.PutSession(s); err != nil {
				return err
			}
		}
		return nil
	})

	listed, err := store.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, entities.SessionID("s1"), listed[0].ID)
	assert.Len(t, listed[0].Items, 2)
	assert.Nil(t, listed[0].AppliedAt)

	got, err := store.GetSession(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApplied, got.Status)
	require.NotNil(t, got.AppliedAt)
	assert.True(t, got.AppliedAt.Equal(applied))
	assert.True(t, got.Items[0].Dose.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, 2, got.SessionIndex)

	got.Status = entities.StatusScheduled
	got.AppliedAt = nil
	seed(t, store, func(tx repositories.Transaction) error { return tx.PutSession(*got) })
	reverted, err := store.GetSession(context.Background(), "s2")
	require.NoError(t, err)
	assert.True(t, reverted.IsPending())
	assert.Nil(t, reverted.AppliedAt)

	seed(t, store, func(tx repositories.Transaction) error { return tx.DeleteSession("s1") })
	_, err = store.GetSession(context.Background(), "s1")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestStore_LedgerIsAppendOnly(t *testing.T) {
	store := openTestStore(t)
	seed(t, store, func(tx repositories.Transaction) error {
		for i, id := range []string{"l1", "l2"} {
			entry, err := entities.NewLedgerEntry(id, "a", "Gaze", decimal.NewFromInt(1), entities.MovementEntry, "", baseTime.Add(time.Duration(i)*time.Minute))
			if err != nil {
				return err
			}
			if err := tx.AppendLedgerEntry(*entry); err != nil {
				return err
			}
		}
		return nil
	})

	entries, err := store.ListLedgerEntries(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "l2", entries[0].ID)

	_, err = store.db.Exec(`UPDATE stock_logs SET quantity = '9' WHERE id = 'l1'`)
	assert.Error(t, err)
	_, err = store.db.Exec(`DELETE FROM stock_logs WHERE id = 'l1'`)
	assert.Error(t, err)

	err = store.RunInTransaction(context.Background(), func(tx repositories.Transaction) error {
		entry, _ := entities.NewLedgerEntry("l1", "a", "Gaze", decimal.NewFromInt(1), entities.MovementEntry, "", baseTime)
		return tx.AppendLedgerEntry(*entry)
	})
	assert.Error(t, err, "duplicate ledger id must be rejected")
}

func TestStore_SubscribeAfterCommit(t *testing.T) {
	store := openTestStore(t)
	var received []repositories.ChangeEvent
	cancel := store.Subscribe(func(e repositories.ChangeEvent) { received = append(received, e) }, repositories.CollectionInventory)

	seed(t, store, func(tx repositories.Transaction) error {
		if err := tx.PutItem(entities.SupplyItem{ID: "a", Name: "Gaze", Unit: "un", CreatedAt: baseTime}); err != nil {
			return err
		}
		return tx.PutSession(entities.ScheduleSession{ID: "s1", PatientName: "Ana", Status: entities.StatusScheduled, Date: baseTime, CreatedAt: baseTime})
	})
	require.Len(t, received, 1)
	assert.Equal(t, repositories.OpCreated, received[0].Op)

	cancel()
	seed(t, store, func(tx repositories.Transaction) error { return tx.DeleteItem("a") })
	assert.Len(t, received, 1)
}
