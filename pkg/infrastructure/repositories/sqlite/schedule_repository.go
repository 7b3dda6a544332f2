package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

const sessionColumns = `id, protocol_id, patient_name, items, date, status, applied_at, session_index, sessions_total, created_at`

// GetSession returns a schedule session by id
func (s *Store) GetSession(ctx context.Context, id entities.SessionID) (*entities.ScheduleSession, error) {
	return findSession(ctx, s.db, id)
}

// ListSessions returns all sessions by date
func (s *Store) ListSessions(ctx context.Context) ([]entities.ScheduleSession, error) {
	return listSessions(ctx, s.db)
}

func findSession(ctx context.Context, q queryer, id entities.SessionID) (*entities.ScheduleSession, error) {
	row := q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM schedule WHERE id = ?`, string(id))
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule session %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query schedule session %s: %w", id, err)
	}
	return session, nil
}

func listSessions(ctx context.Context, q queryer) ([]entities.ScheduleSession, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM schedule ORDER BY date, created_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	sessions := make([]entities.ScheduleSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func scanSession(row scanner) (*entities.ScheduleSession, error) {
	var (
		id, protocolID, patient, items, date, status, createdAt string
		appliedAt                                               sql.NullString
		index, total                                            int
	)
	if err := row.Scan(&id, &protocolID, &patient, &items, &date, &status, &appliedAt, &index, &total, &createdAt); err != nil {
		return nil, err
	}

	session := entities.ScheduleSession{
		ID:            entities.SessionID(id),
		ProtocolID:    protocolID,
		PatientName:   patient,
		Status:        entities.SessionStatus(status),
		SessionIndex:  index,
		SessionsTotal: total,
	}
	if err := json.Unmarshal([]byte(items), &session.Items); err != nil {
		return nil, fmt.Errorf("session %s items: %w", id, err)
	}
	var err error
	if session.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if appliedAt.Valid {
		at, err := parseTime(appliedAt.String)
		if err != nil {
			return nil, err
		}
		session.AppliedAt = &at
	}
	return &session, nil
}

// FindSession returns a session as seen by the transaction
func (t *transaction) FindSession(id entities.SessionID) (*entities.ScheduleSession, error) {
	return findSession(t.ctx, t.tx, id)
}

// ListSessions returns all sessions as seen by the transaction
func (t *transaction) ListSessions() ([]entities.ScheduleSession, error) {
	return listSessions(t.ctx, t.tx)
}

// PutSession creates or replaces a session
func (t *transaction) PutSession(session entities.ScheduleSession) error {
	if session.ID == "" {
		return fmt.Errorf("put schedule session: empty id")
	}

	lines := session.Items
	if lines == nil {
		lines = []entities.ItemDose{}
	}
	items, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode session %s items: %w", session.ID, err)
	}
	var appliedAt sql.NullString
	if session.AppliedAt != nil {
		appliedAt = sql.NullString{String: formatTime(*session.AppliedAt), Valid: true}
	}

	result, err := t.tx.ExecContext(t.ctx, `
		UPDATE schedule SET protocol_id = ?, patient_name = ?, items = ?, date = ?, status = ?,
			applied_at = ?, session_index = ?, sessions_total = ?, created_at = ?
		WHERE id = ?`,
		session.ProtocolID, session.PatientName, string(items), formatTime(session.Date), string(session.Status),
		appliedAt, session.SessionIndex, session.SessionsTotal, formatTime(session.CreatedAt), string(session.ID))
	if err != nil {
		return fmt.Errorf("update schedule session %s: %w", session.ID, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		t.record(repositories.CollectionSchedule, repositories.OpUpdated, string(session.ID))
		return nil
	}

	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO schedule (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(session.ID), session.ProtocolID, session.PatientName, string(items), formatTime(session.Date),
		string(session.Status), appliedAt, session.SessionIndex, session.SessionsTotal, formatTime(session.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert schedule session %s: %w", session.ID, err)
	}
	t.record(repositories.CollectionSchedule, repositories.OpCreated, string(session.ID))
	return nil
}

// DeleteSession removes a session
func (t *transaction) DeleteSession(id entities.SessionID) error {
	result, err := t.tx.ExecContext(t.ctx, `DELETE FROM schedule WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete schedule session %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule session %s: %w", id, entities.ErrNotFound)
	}
	t.record(repositories.CollectionSchedule, repositories.OpDeleted, string(id))
	return nil
}
