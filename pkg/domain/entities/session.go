package entities

import (
	"strings"
	"time"
)

// SessionStatus represents the lifecycle state of a schedule session
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusApplied   SessionStatus = "applied"
)

// IsValid reports whether s is one of the two known states
func (s SessionStatus) IsValid() bool {
	return s == StatusScheduled || s == StatusApplied
}

// ScheduleSession represents one dated occurrence of a patient's treatment protocol
type ScheduleSession struct {
	ID            SessionID     `json:"id" yaml:"id"`
	ProtocolID    string        `json:"protocolId,omitempty" yaml:"protocolId,omitempty"`
	PatientName   string        `json:"patientName" yaml:"patientName"`
	Items         []ItemDose    `json:"items" yaml:"items"`
	Date          time.Time     `json:"date" yaml:"date"`
	Status        SessionStatus `json:"status" yaml:"status"`
	AppliedAt     *time.Time    `json:"appliedAt" yaml:"appliedAt"`
	SessionIndex  int           `json:"sessionIndex" yaml:"sessionIndex"`
	SessionsTotal int           `json:"sessionsTotal" yaml:"sessionsTotal"`
	CreatedAt     time.Time     `json:"createdAt" yaml:"createdAt"`
}

// IsPending reports whether the session still awaits administration
func (s ScheduleSession) IsPending() bool {
	return s.Status == StatusScheduled
}

// References reports whether any dose line points at the item
func (s ScheduleSession) References(id ItemID) bool {
	for _, line := range s.Items {
		if line.SupplyItemID == id {
			return true
		}
	}
	return false
}

// IsLate reports whether a pending session's date is before today
func (s ScheduleSession) IsLate(today time.Time) bool {
	return s.IsPending() && s.Date.Before(CalendarDate(today))
}

// HasPatient compares patient names ignoring surrounding whitespace
func (s ScheduleSession) HasPatient(name string) bool {
	return strings.TrimSpace(s.PatientName) == strings.TrimSpace(name)
}

// Clone returns a deep copy so callers never share the items slice or appliedAt pointer
func (s ScheduleSession) Clone() ScheduleSession {
	out := s
	if s.Items != nil {
		out.Items = make([]ItemDose, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.AppliedAt != nil {
		at := *s.AppliedAt
		out.AppliedAt = &at
	}
	return out
}
