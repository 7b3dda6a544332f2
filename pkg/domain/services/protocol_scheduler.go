package services

import (
	"strings"
	"time"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// ProtocolCadenceDays is the fixed interval between sessions of one protocol
const ProtocolCadenceDays = 7

// ProtocolRequest is a patient's treatment request before expansion into sessions
type ProtocolRequest struct {
	PatientName string
	Items       []entities.ItemDose
	StartDate   time.Time
	RepeatCount int
}

// ProtocolExpansion is the outcome of expanding a ProtocolRequest
type ProtocolExpansion struct {
	ProtocolID string                     `json:"protocolId" yaml:"protocolId"`
	Sessions   []entities.ScheduleSession `json:"sessions" yaml:"sessions"`
	// Dropped holds item lines discarded because they were malformed or referenced unknown items
	Dropped []entities.ItemDose `json:"dropped" yaml:"dropped"`
}

// ProtocolScheduler expands treatment requests into independent weekly sessions
type ProtocolScheduler struct {
	newID func() string
}

// NewProtocolScheduler creates a scheduler that draws protocol and session ids from newID
func NewProtocolScheduler(newID func() string) *ProtocolScheduler {
	return &ProtocolScheduler{newID: newID}
}

// Expand validates req and produces RepeatCount sessions dated StartDate + 7k days.
//
// Item lines with an empty reference, a non-positive dose, or (when known is non-nil) an
// item known does not recognise are dropped; the request is rejected only when no line
// survives. A RepeatCount below one is treated as one.
func (ps *ProtocolScheduler) Expand(req ProtocolRequest, known func(entities.ItemID) bool, createdAt time.Time) (*ProtocolExpansion, error) {
	patient := strings.TrimSpace(req.PatientName)
	if patient == "" {
		return nil, entities.NewValidationError("patientName", "patient name cannot be empty")
	}
	if req.StartDate.IsZero() {
		return nil, entities.NewValidationError("startDate", "start date is required")
	}

	var kept, dropped []entities.ItemDose
	for _, line := range req.Items {
		if !line.IsWellFormed() || (known != nil && !known(line.SupplyItemID)) {
			dropped = append(dropped, line)
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return nil, entities.NewValidationError("items", "at least one supply item with a positive dose is required")
	}

	total := req.RepeatCount
	if total < 1 {
		total = 1
	}

	expansion := &ProtocolExpansion{
		ProtocolID: ps.newID(),
		Sessions:   make([]entities.ScheduleSession, 0, total),
		Dropped:    dropped,
	}
	start := entities.CalendarDate(req.StartDate)
	for k := 0; k < total; k++ {
		items := make([]entities.ItemDose, len(kept))
		copy(items, kept)

		expansion.Sessions = append(expansion.Sessions, entities.ScheduleSession{
			ID:            entities.SessionID(ps.newID()),
			ProtocolID:    expansion.ProtocolID,
			PatientName:   patient,
			Items:         items,
			Date:          start.AddDate(0, 0, ProtocolCadenceDays*k),
			Status:        entities.StatusScheduled,
			SessionIndex:  k + 1,
			SessionsTotal: total,
			CreatedAt:     createdAt,
		})
	}

	return expansion, nil
}
