package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// ListLedgerEntries returns ledger entries newest first, optionally for one item
func (s *Store) ListLedgerEntries(_ context.Context, itemID entities.ItemID) ([]entities.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []entities.LedgerEntry
	for i := len(s.state.ledger) - 1; i >= 0; i-- {
		entry := s.state.ledger[i]
		if itemID == "" || entry.ItemID == itemID {
			entries = append(entries, entry)
		}
	}
	// entries are already newest-appended first; a stable sort keeps that for equal timestamps
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// AppendLedgerEntry appends an entry to the ledger
func (tx *transaction) AppendLedgerEntry(entry entities.LedgerEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("append ledger entry: empty id")
	}
	for _, existing := range tx.state.ledger {
		if existing.ID == entry.ID {
			return fmt.Errorf("append ledger entry %s: duplicate id", entry.ID)
		}
	}
	tx.state.ledger = append(tx.state.ledger, entry)
	tx.record(repositories.CollectionStockLogs, repositories.OpCreated, entry.ID)
	return nil
}
