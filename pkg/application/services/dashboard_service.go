package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
	domainservices "github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/services"
)

// DashboardService answers read-only questions about stock and schedule
type DashboardService struct {
	store     repositories.Store
	projector *domainservices.ProjectionEngine
	cfg       serviceConfig
}

// NewDashboardService creates a dashboard over store
func NewDashboardService(store repositories.Store, opts ...Option) *DashboardService {
	return &DashboardService{
		store:     store,
		projector: domainservices.NewProjectionEngine(),
		cfg:       newServiceConfig(opts),
	}
}

type snapshot struct {
	items    []entities.SupplyItem
	sessions []entities.ScheduleSession
}

func (s *DashboardService) snapshot(ctx context.Context) (*snapshot, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, classify("read_inventory", err)
	}
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, classify("read_schedule", err)
	}
	return &snapshot{items: items, sessions: sessions}, nil
}

// Projection forecasts every item's balance against the pending schedule
func (s *DashboardService) Projection(ctx context.Context) ([]entities.ItemProjection, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(snap.items, snap.sessions), nil
}

// Summary computes the dashboard counters for the current clinic day
func (s *DashboardService) Summary(ctx context.Context) (*dto.Summary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	today := s.cfg.today()
	summary := &dto.Summary{Today: today, Items: len(snap.items)}
	for _, item := range snap.items {
		if item.IsAtOrBelowMinimum() {
			summary.CriticalStock++
		}
	}
	for _, session := range snap.sessions {
		switch {
		case session.IsPending():
			summary.PendingSessions++
			if session.IsLate(today) {
				summary.LateSessions++
			}
		case session.AppliedAt != nil && !session.AppliedAt.Before(today):
			summary.AppliedToday++
		}
	}
	for _, p := range s.projector.Project(snap.items, snap.sessions) {
		switch p.Status {
		case entities.StockCritical:
			summary.ProjectedCritical++
		case entities.StockWarning:
			summary.ProjectedWarning++
		}
	}
	return summary, nil
}

// Patients lists distinct patient names in order, optionally filtered by a
// case-insensitive substring
func (s *DashboardService) Patients(ctx context.Context, search string) ([]string, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, classify("read_schedule", err)
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(search))
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, session := range sessions {
		name := strings.TrimSpace(session.PatientName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if needle != "" && !strings.Contains(fold.String(name), needle) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Sessions lists sessions by date with their lines resolved against the catalog
func (s *DashboardService) Sessions(ctx context.Context, filter dto.SessionFilter) ([]dto.SessionView, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(map[entities.ItemID]entities.SupplyItem, len(snap.items))
	for _, item := range snap.items {
		catalog[item.ID] = item
	}

	today := s.cfg.today()
	views := make([]dto.SessionView, 0)
	for _, session := range snap.sessions {
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		if filter.Patient != "" && !session.HasPatient(filter.Patient) {
			continue
		}
		view := dto.SessionView{Session: session, Late: session.IsLate(today)}
		for _, line := range session.Items {
			item, ok := catalog[line.SupplyItemID]
			if !ok {
				view.Lines = append(view.Lines, dto.DoseLine{ItemID: line.SupplyItemID, ItemName: dto.MissingItemLabel, Dose: line.Dose, Missing: true})
				continue
			}
			view.Lines = append(view.Lines, dto.DoseLine{ItemID: item.ID, ItemName: item.Name, Unit: item.Unit, Dose: line.Dose})
		}
		views = append(views, view)
	}
	return views, nil
}

// PatientSessions lists one patient's sessions by date
func (s *DashboardService) PatientSessions(ctx context.Context, patient string) ([]dto.SessionView, error) {
	return s.Sessions(ctx, dto.SessionFilter{Patient: patient})
}

// ItemHistory returns ledger movements newest first. Entries outlive their item.
func (s *DashboardService) ItemHistory(ctx context.Context, itemID entities.ItemID) ([]entities.LedgerEntry, error) {
	entries, err := s.store.ListLedgerEntries(ctx, itemID)
	if err != nil {
		return nil, classify("read_ledger", err)
	}
	return entries, nil
}
