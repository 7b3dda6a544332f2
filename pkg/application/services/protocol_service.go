package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
	domainservices "github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/services"
)

// SessionEdit replaces the editable fields of a scheduled session
type SessionEdit struct {
	PatientName string
	Items       []entities.ItemDose
	Date        time.Time
}

// ProtocolService persists expanded protocols and edits or removes pending sessions
type ProtocolService struct {
	store     repositories.Store
	scheduler *domainservices.ProtocolScheduler
	cfg       serviceConfig
}

// NewProtocolService creates a protocol service over store
func NewProtocolService(store repositories.Store, opts ...Option) *ProtocolService {
	cfg := newServiceConfig(opts)
	return &ProtocolService{
		store:     store,
		scheduler: domainservices.NewProtocolScheduler(cfg.ids.Generate),
		cfg:       cfg,
	}
}

// Schedule expands req into weekly sessions and stores them in one write group.
// Item lines naming unknown items are dropped along with malformed ones.
func (s *ProtocolService) Schedule(ctx context.Context, req domainservices.ProtocolRequest) (expansion *domainservices.ProtocolExpansion, err error) {
	defer s.cfg.observe("schedule", s.cfg.now(), &err)

	err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		known, err := catalogIndex(tx)
		if err != nil {
			return err
		}
		expansion, err = s.scheduler.Expand(req, known, s.cfg.now())
		if err != nil {
			return err
		}
		for _, session := range expansion.Sessions {
			if err := tx.PutSession(session); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify("schedule", err)
	}

	if len(expansion.Dropped) > 0 {
		s.cfg.logger.Warn("protocol item lines dropped", "protocol", expansion.ProtocolID, "dropped", len(expansion.Dropped))
	}
	s.cfg.logger.Info("protocol scheduled", "protocol", expansion.ProtocolID, "patient", req.PatientName, "sessions", len(expansion.Sessions))
	return expansion, nil
}

// EditSession replaces patient, items and date of a session that has not been applied
func (s *ProtocolService) EditSession(ctx context.Context, id entities.SessionID, edit SessionEdit) (edited *entities.ScheduleSession, err error) {
	defer s.cfg.observe("edit_session", s.cfg.now(), &err)

	patient := strings.TrimSpace(edit.PatientName)
	if patient == "" {
		return nil, entities.NewValidationError("patientName", "patient name cannot be empty")
	}
	if edit.Date.IsZero() {
		return nil, entities.NewValidationError("date", "date is required")
	}

	err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		session, err := tx.FindSession(id)
		if err != nil {
			return err
		}
		if !session.IsPending() {
			return fmt.Errorf("edit session %s in state %s: %w", id, session.Status, entities.ErrInvalidTransition)
		}

		known, err := catalogIndex(tx)
		if err != nil {
			return err
		}
		var items []entities.ItemDose
		for _, line := range edit.Items {
			if line.IsWellFormed() && known(line.SupplyItemID) {
				items = append(items, line)
			}
		}
		if len(items) == 0 {
			return entities.NewValidationError("items", "at least one supply item with a positive dose is required")
		}

		session.PatientName = patient
		session.Items = items
		session.Date = entities.CalendarDate(edit.Date)
		if err := tx.PutSession(*session); err != nil {
			return err
		}
		edited = session
		return nil
	})
	if err != nil {
		return nil, classify("edit_session", err)
	}

	s.cfg.logger.Info("session edited", "session", id)
	return edited, nil
}

// DeleteSession removes a session that has not been applied; siblings are untouched
func (s *ProtocolService) DeleteSession(ctx context.Context, id entities.SessionID) (err error) {
	defer s.cfg.observe("delete_session", s.cfg.now(), &err)

	err = s.store.RunInTransaction(ctx, func(tx repositories.Transaction) error {
		session, err := tx.FindSession(id)
		if err != nil {
			return err
		}
		if !session.IsPending() {
			return fmt.Errorf("delete session %s in state %s: %w", id, session.Status, entities.ErrInvalidTransition)
		}
		return tx.DeleteSession(id)
	})
	if err != nil {
		return classify("delete_session", err)
	}

	s.cfg.logger.Info("session deleted", "session", id)
	return nil
}

func catalogIndex(tx repositories.Transaction) (func(entities.ItemID) bool, error) {
	items, err := tx.ListItems()
	if err != nil {
		return nil, err
	}
	ids := make(map[entities.ItemID]struct{}, len(items))
	for _, item := range items {
		ids[item.ID] = struct{}{}
	}
	return func(id entities.ItemID) bool {
		_, ok := ids[id]
		return ok
	}, nil
}
