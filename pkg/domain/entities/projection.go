package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus classifies an item's projected balance against pending sessions
type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockWarning  StockStatus = "warning"
	StockOK       StockStatus = "ok"
)

// Rank orders statuses from most to least urgent
func (s StockStatus) Rank() int {
	switch s {
	case StockCritical:
		return 0
	case StockWarning:
		return 1
	default:
		return 2
	}
}

// ConsumptionEvent is one pending dose of an item on a session date
type ConsumptionEvent struct {
	SessionID   SessionID       `json:"sessionId" yaml:"sessionId"`
	PatientName string          `json:"patientName" yaml:"patientName"`
	Date        time.Time       `json:"date" yaml:"date"`
	Dose        decimal.Decimal `json:"dose" yaml:"dose"`
}

// ItemProjection is the forward-looking stock assessment for a single item
type ItemProjection struct {
	ItemID           ItemID             `json:"itemId" yaml:"itemId"`
	Name             string             `json:"name" yaml:"name"`
	Unit             string             `json:"unit" yaml:"unit"`
	CurrentQuantity  decimal.Decimal    `json:"currentQuantity" yaml:"currentQuantity"`
	MinStock         decimal.Decimal    `json:"minStock" yaml:"minStock"`
	ScheduledUsage   decimal.Decimal    `json:"scheduledUsage" yaml:"scheduledUsage"`
	ProjectedBalance decimal.Decimal    `json:"projectedBalance" yaml:"projectedBalance"`
	Status           StockStatus        `json:"status" yaml:"status"`
	DepletionDate    *time.Time         `json:"depletionDate" yaml:"depletionDate"`
	DepletionSession SessionID          `json:"depletionSessionId,omitempty" yaml:"depletionSessionId,omitempty"`
	Events           []ConsumptionEvent `json:"events" yaml:"events"`
}

// WillDeplete reports whether the running balance goes negative on some pending date
func (p ItemProjection) WillDeplete() bool {
	return p.DepletionDate != nil
}
