package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// MissingItemLabel is shown in place of an item that no longer exists
const MissingItemLabel = "Insumo removido"

// Summary holds the headline counters of the clinic dashboard
type Summary struct {
	Today             time.Time `json:"today" yaml:"today"`
	Items             int       `json:"items" yaml:"items"`
	PendingSessions   int       `json:"pendingSessions" yaml:"pendingSessions"`
	AppliedToday      int       `json:"appliedToday" yaml:"appliedToday"`
	LateSessions      int       `json:"lateSessions" yaml:"lateSessions"`
	CriticalStock     int       `json:"criticalStock" yaml:"criticalStock"`
	ProjectedCritical int       `json:"projectedCritical" yaml:"projectedCritical"`
	ProjectedWarning  int       `json:"projectedWarning" yaml:"projectedWarning"`
}

// DoseLine is a session item resolved for display
type DoseLine struct {
	ItemID   entities.ItemID `json:"itemId" yaml:"itemId"`
	ItemName string          `json:"itemName" yaml:"itemName"`
	Unit     string          `json:"unit,omitempty" yaml:"unit,omitempty"`
	Dose     decimal.Decimal `json:"dose" yaml:"dose"`
	Missing  bool            `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// SessionView is a schedule session with its lines resolved against the catalog
type SessionView struct {
	Session entities.ScheduleSession `json:"session" yaml:"session"`
	Lines   []DoseLine               `json:"lines" yaml:"lines"`
	Late    bool                     `json:"late" yaml:"late"`
}

// SessionFilter narrows a session listing; zero values match everything
type SessionFilter struct {
	Status  entities.SessionStatus
	Patient string
}
