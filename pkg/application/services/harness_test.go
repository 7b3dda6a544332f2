package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/repositories/memory"
	testinghelpers "github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/testing"
)

type recordedOutcome struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
	imports  map[string][2]int
}

func (r *fakeRecorder) ObserveOperation(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{operation, outcome})
}

func (r *fakeRecorder) ObserveImport(kind string, created, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.imports == nil {
		r.imports = make(map[string][2]int)
	}
	r.imports[kind] = [2]int{created, skipped}
}

func (r *fakeRecorder) last() recordedOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outcomes) == 0 {
		return recordedOutcome{}
	}
	return r.outcomes[len(r.outcomes)-1]
}

type harness struct {
	store    *memory.Store
	clock    *testinghelpers.Clock
	metrics  *fakeRecorder
	engine   *TransactionEngine
	protocol *ProtocolService
	catalog  *CatalogService
	imports  *ImportService
	board    *DashboardService
}

func newHarness(t *testing.T, storeOpts ...memory.Option) *harness {
	t.Helper()
	clock := testinghelpers.NewClock(testinghelpers.BaseTime)
	store := memory.NewStore(append([]memory.Option{memory.WithClock(clock.Now)}, storeOpts...)...)
	metrics := &fakeRecorder{}
	opts := []Option{
		WithClock(clock.Now),
		WithIDGenerator(testinghelpers.NewSequenceIDs("id")),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics),
	}
	return &harness{
		store:    store,
		clock:    clock,
		metrics:  metrics,
		engine:   NewTransactionEngine(store, opts...),
		protocol: NewProtocolService(store, opts...),
		catalog:  NewCatalogService(store, opts...),
		imports:  NewImportService(store, nil, opts...),
		board:    NewDashboardService(store, opts...),
	}
}

func (h *harness) seed(t *testing.T, items []entities.SupplyItem, sessions ...entities.ScheduleSession) {
	t.Helper()
	require.NoError(t, testinghelpers.Seed(context.Background(), h.store, items, sessions...))
}

func (h *harness) quantity(t *testing.T, id entities.ItemID) string {
	t.Helper()
	item, err := h.store.GetItem(context.Background(), id)
	require.NoError(t, err)
	return item.Quantity.String()
}

func (h *harness) ledger(t *testing.T, id entities.ItemID) []entities.LedgerEntry {
	t.Helper()
	entries, err := h.store.ListLedgerEntries(context.Background(), id)
	require.NoError(t, err)
	return entries
}

func countMovements(entries []entities.LedgerEntry, movement entities.MovementType) int {
	n := 0
	for _, e := range entries {
		if e.Type == movement {
			n++
		}
	}
	return n
}
