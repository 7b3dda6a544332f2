package services

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// ProjectionEngine forecasts stock sufficiency against pending sessions.
// It holds no state; Project is a pure function of its inputs.
type ProjectionEngine struct{}

// NewProjectionEngine creates a projection engine
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{}
}

// Project returns one ItemProjection per supply item.
//
// Only scheduled sessions count. Dose lines pointing at unknown items are skipped.
// Results are ordered critical, warning, ok; within a status by catalog order
// (creation time, then name, then id). Consumption events on the same date are
// walked in session id order.
func (pe *ProjectionEngine) Project(items []entities.SupplyItem, sessions []entities.ScheduleSession) []entities.ItemProjection {
	catalog := make([]entities.SupplyItem, len(items))
	copy(catalog, items)
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalogLess(catalog[i], catalog[j])
	})

	projections := make([]entities.ItemProjection, len(catalog))
	byID := make(map[entities.ItemID]int, len(catalog))
	for i, item := range catalog {
		byID[item.ID] = i
		projections[i] = entities.ItemProjection{
			ItemID:          item.ID,
			Name:            item.Name,
			Unit:            item.Unit,
			CurrentQuantity: item.Quantity,
			MinStock:        item.MinStock,
			ScheduledUsage:  decimal.Zero,
			Events:          []entities.ConsumptionEvent{},
		}
	}

	for _, session := range sessions {
		if !session.IsPending() {
			continue
		}
		for _, line := range session.Items {
			idx, ok := byID[line.SupplyItemID]
			if !ok || !line.Dose.IsPositive() {
				continue
			}
			p := &projections[idx]
			p.ScheduledUsage = p.ScheduledUsage.Add(line.Dose)
			p.Events = append(p.Events, entities.ConsumptionEvent{
				SessionID:   session.ID,
				PatientName: session.PatientName,
				Date:        session.Date,
				Dose:        line.Dose,
			})
		}
	}

	for i := range projections {
		classify(&projections[i])
	}

	rank := make(map[entities.ItemID]int, len(projections))
	for i, p := range projections {
		rank[p.ItemID] = i
	}
	sort.SliceStable(projections, func(i, j int) bool {
		ri, rj := projections[i].Status.Rank(), projections[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return rank[projections[i].ItemID] < rank[projections[j].ItemID]
	})

	return projections
}

// classify computes balance, status and the first date the running balance goes negative
func classify(p *entities.ItemProjection) {
	p.ProjectedBalance = p.CurrentQuantity.Sub(p.ScheduledUsage)
	switch {
	case p.ProjectedBalance.IsNegative():
		p.Status = entities.StockCritical
	case p.ProjectedBalance.LessThan(p.MinStock):
		p.Status = entities.StockWarning
	default:
		p.Status = entities.StockOK
	}

	sort.SliceStable(p.Events, func(i, j int) bool {
		a, b := p.Events[i], p.Events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.SessionID < b.SessionID
	})

	running := p.CurrentQuantity
	for _, event := range p.Events {
		running = running.Sub(event.Dose)
		if running.IsNegative() {
			date := event.Date
			p.DepletionDate = &date
			p.DepletionSession = event.SessionID
			return
		}
	}
}

func catalogLess(a, b entities.SupplyItem) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if na, nb := strings.ToLower(a.Name), strings.ToLower(b.Name); na != nb {
		return na < nb
	}
	return a.ID < b.ID
}
