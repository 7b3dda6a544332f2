package services

import (
	"context"
	"io"

	"golang.org/x/text/cases"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/repositories/csv"
)

const (
	importKindInventory = "inventory"
	importKindSchedule  = "schedule"
)

// ImportService turns CSV files into catalog items and schedule sessions
type ImportService struct {
	store  repositories.Store
	loader *csv.Loader
	cfg    serviceConfig
}

// NewImportService creates an import service; loader may be nil for the defaults
func NewImportService(store repositories.Store, loader *csv.Loader, opts ...Option) *ImportService {
	if loader == nil {
		loader = csv.NewLoader()
	}
	return &ImportService{store: store, loader: loader, cfg: newServiceConfig(opts)}
}

// ImportInventory creates one supply item per usable line, all in one write group
func (s *ImportService) ImportInventory(ctx context.Context, r io.Reader) (result *dto.ImportResult, err error) {
	defer s.cfg.observe("import_inventory", s.cfg.now(), &err)

	rows, err := s.loader.ParseInventory(r)
	if err != nil {
		return nil, entities.NewValidationError("file", err.Error())
	}

	result = &dto.ImportResult{Kind: importKindInventory, Skipped: []dto.SkippedLine{}}
	var items []entities.SupplyItem
	now := s.cfg.now()
	for _, row := range rows {
		if row.Problem != "" {
			result.Skipped = append(result.Skipped, dto.SkippedLine{Line: row.Line, Reason: row.Problem})
			continue
		}
		item, err := entities.NewSupplyItem(entities.ItemID(s.cfg.ids.Generate()), row.Name, row.Unit, row.Quantity, row.MinStock, now)
		if err != nil {
			result.Skipped = append(result.Skipped, dto.SkippedLine{Line: row.Line, Reason: err.Error()})
			continue
		}
		items = append(items, *item)
	}

	if len(items) > 0 {
		err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
			for _, item := range items {
				if err := tx.PutItem(item); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, classify("import_inventory", err)
		}
	}
	result.Created = len(items)

	s.cfg.metrics.ObserveImport(importKindInventory, result.Created, len(result.Skipped))
	s.cfg.logger.Info("inventory imported", "created", result.Created, "skipped", len(result.Skipped))
	return result, nil
}

// ImportSchedule creates a single-session protocol per usable line. Item names are matched
// case-insensitively against the catalog as read inside the write group; names that match
// nothing are reported in Unmatched.
func (s *ImportService) ImportSchedule(ctx context.Context, r io.Reader) (result *dto.ImportResult, err error) {
	defer s.cfg.observe("import_schedule", s.cfg.now(), &err)

	rows, err := s.loader.ParseSchedule(r)
	if err != nil {
		return nil, entities.NewValidationError("file", err.Error())
	}

	err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		items, err := tx.ListItems()
		if err != nil {
			return err
		}
		fold := cases.Fold()
		byName := make(map[string]entities.ItemID, len(items))
		for _, item := range items {
			key := fold.String(item.Name)
			if _, taken := byName[key]; !taken {
				byName[key] = item.ID
			}
		}

		res := &dto.ImportResult{Kind: importKindSchedule, Skipped: []dto.SkippedLine{}}
		seen := make(map[string]struct{})
		now := s.cfg.now()
		for _, row := range rows {
			if row.Short {
				res.Skipped = append(res.Skipped, dto.SkippedLine{Line: row.Line, Reason: row.Problem})
				continue
			}
			itemID, ok := byName[fold.String(row.ItemName)]
			if !ok {
				if _, dup := seen[row.ItemName]; !dup {
					seen[row.ItemName] = struct{}{}
					res.Unmatched = append(res.Unmatched, row.ItemName)
				}
				continue
			}
			if row.Problem != "" {
				res.Skipped = append(res.Skipped, dto.SkippedLine{Line: row.Line, Reason: row.Problem})
				continue
			}

			session := entities.ScheduleSession{
				ID:            entities.SessionID(s.cfg.ids.Generate()),
				ProtocolID:    s.cfg.ids.Generate(),
				PatientName:   row.PatientName,
				Items:         []entities.ItemDose{{SupplyItemID: itemID, Dose: row.Dose}},
				Date:          entities.CalendarDate(row.Date),
				Status:        entities.StatusScheduled,
				SessionIndex:  1,
				SessionsTotal: 1,
				CreatedAt:     now,
			}
			if err := tx.PutSession(session); err != nil {
				return err
			}
			res.Created++
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, classify("import_schedule", err)
	}

	s.cfg.metrics.ObserveImport(importKindSchedule, result.Created, len(result.Skipped)+len(result.Unmatched))
	if len(result.Unmatched) > 0 {
		s.cfg.logger.Warn("schedule import has unknown items", "names", result.Unmatched)
	}
	s.cfg.logger.Info("schedule imported", "created", result.Created, "skipped", len(result.Skipped))
	return result, nil
}
