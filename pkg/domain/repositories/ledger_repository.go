package repositories

import (
	"context"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// LedgerReader provides read access to the append-only stock ledger
type LedgerReader interface {
	// ListLedgerEntries returns entries newest first; an empty itemID lists every item
	ListLedgerEntries(ctx context.Context, itemID entities.ItemID) ([]entities.LedgerEntry, error)
}
