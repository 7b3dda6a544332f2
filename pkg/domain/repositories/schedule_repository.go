package repositories

import (
	"context"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// ScheduleReader provides read access to schedule sessions
type ScheduleReader interface {
	// GetSession returns entities.ErrNotFound when the session does not exist
	GetSession(ctx context.Context, id entities.SessionID) (*entities.ScheduleSession, error)
	// ListSessions returns sessions ordered by date, then creation time
	ListSessions(ctx context.Context) ([]entities.ScheduleSession, error)
}
