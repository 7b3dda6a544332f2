package events

import (
	"time"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/repositories"
)

// Event is one committed change as recorded by the feed, stamped with its position
type Event struct {
	repositories.ChangeEvent
	Position int
}

// Type returns the "<collection>.<op>" event name
func (e Event) Type() string {
	return string(e.Collection) + "." + string(e.Op)
}

// NewChange builds a ChangeEvent for a record
func NewChange(collection repositories.Collection, op repositories.ChangeOp, id string, at time.Time) repositories.ChangeEvent {
	return repositories.ChangeEvent{
		Collection: collection,
		Op:         op,
		ID:         id,
		At:         at,
	}
}
