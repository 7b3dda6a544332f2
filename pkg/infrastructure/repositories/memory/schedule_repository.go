package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// GetSession returns a schedule session by id
func (s *Store) GetSession(_ context.Context, id entities.SessionID) (*entities.ScheduleSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.findSession(id)
}

// ListSessions returns all sessions by date
func (s *Store) ListSessions(_ context.Context) ([]entities.ScheduleSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.listSessions(), nil
}

func (st *state) findSession(id entities.SessionID) (*entities.ScheduleSession, error) {
	session, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("schedule session %s: %w", id, entities.ErrNotFound)
	}
	out := session.Clone()
	return &out, nil
}

func (st *state) listSessions() []entities.ScheduleSession {
	sessions := make([]entities.ScheduleSession, 0, len(st.sessions))
	for _, session := range st.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return st.sessionSeq[a.ID] < st.sessionSeq[b.ID]
	})
	return sessions
}

// FindSession returns a session as seen by the transaction
func (tx *transaction) FindSession(id entities.SessionID) (*entities.ScheduleSession, error) {
	return tx.state.findSession(id)
}

// ListSessions returns all sessions as seen by the transaction
func (tx *transaction) ListSessions() ([]entities.ScheduleSession, error) {
	return tx.state.listSessions(), nil
}

// PutSession creates or replaces a session
func (tx *transaction) PutSession(session entities.ScheduleSession) error {
	if session.ID == "" {
		return fmt.Errorf("put schedule session: empty id")
	}
	op := repositories.OpUpdated
	if _, exists := tx.state.sessions[session.ID]; !exists {
		op = repositories.OpCreated
		tx.state.seq++
		tx.state.sessionSeq[session.ID] = tx.state.seq
	}
	tx.state.sessions[session.ID] = session.Clone()
	tx.record(repositories.CollectionSchedule, op, string(session.ID))
	return nil
}

// DeleteSession removes a session
func (tx *transaction) DeleteSession(id entities.SessionID) error {
	if _, exists := tx.state.sessions[id]; !exists {
		return fmt.Errorf("schedule session %s: %w", id, entities.ErrNotFound)
	}
	delete(tx.state.sessions, id)
	delete(tx.state.sessionSeq, id)
	tx.record(repositories.CollectionSchedule, repositories.OpDeleted, string(id))
	return nil
}
