package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

const dateLayout = entities.DateLayout

func rule(widths ...int) []any {
	out := make([]any, len(widths))
	for i, w := range widths {
		out[i] = strings.Repeat("-", w)
	}
	return out
}

// WriteItems prints the catalog
func WriteItems(w io.Writer, items []entities.SupplyItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No supply items.")
		return err
	}
	const row = "%-36s %-24s %-6s %10s %10s%s\n"
	fmt.Fprintf(w, row, "ID", "Name", "Unit", "Quantity", "Min", "")
	fmt.Fprintf(w, row, append(rule(36, 24, 6, 10, 10), "")...)
	for _, item := range items {
		marker := ""
		if item.IsAtOrBelowMinimum() {
			marker = " ⚠️"
		}
		fmt.Fprintf(w, row, item.ID, item.Name, item.Unit, item.Quantity, item.MinStock, marker)
	}
	return nil
}

// WriteItem prints one item after a change
func WriteItem(w io.Writer, verb string, item *entities.SupplyItem) error {
	_, err := fmt.Fprintf(w, "%s %s (%s): %s %s\n", verb, item.Name, item.ID, item.Quantity, item.Unit)
	return err
}

// WriteProjection prints the stock forecast, most urgent first
func WriteProjection(w io.Writer, projections []entities.ItemProjection) error {
	fmt.Fprintf(w, "📊 Stock Projection\n")
	fmt.Fprintf(w, "===================\n\n")
	if len(projections) == 0 {
		_, err := fmt.Fprintln(w, "No supply items.")
		return err
	}

	const row = "%-20s %-6s %9s %9s %9s  %-8s %s\n"
	fmt.Fprintf(w, row, "Item", "Unit", "Current", "Scheduled", "Balance", "Status", "Depletion")
	fmt.Fprintf(w, row, rule(20, 6, 9, 9, 9, 8, 10)...)
	for _, p := range projections {
		depletion := "-"
		if p.DepletionDate != nil {
			depletion = p.DepletionDate.Format(dateLayout)
		}
		fmt.Fprintf(w, row, p.Name, p.Unit, p.CurrentQuantity, p.ScheduledUsage, p.ProjectedBalance, p.Status, depletion)
	}
	return nil
}

// WriteSummary prints the dashboard counters
func WriteSummary(w io.Writer, s *dto.Summary) error {
	fmt.Fprintf(w, "📋 Clinic Summary (%s)\n", s.Today.Format(dateLayout))
	fmt.Fprintf(w, "==============================\n\n")
	fmt.Fprintf(w, "Supply items:        %d\n", s.Items)
	fmt.Fprintf(w, "At or below minimum: %d\n", s.CriticalStock)
	fmt.Fprintf(w, "Pending sessions:    %d\n", s.PendingSessions)
	fmt.Fprintf(w, "Late sessions:       %d\n", s.LateSessions)
	fmt.Fprintf(w, "Applied today:       %d\n", s.AppliedToday)
	fmt.Fprintf(w, "Projected critical:  %d\n", s.ProjectedCritical)
	_, err := fmt.Fprintf(w, "Projected warning:   %d\n", s.ProjectedWarning)
	return err
}

// WriteSessions prints sessions with their resolved dose lines
func WriteSessions(w io.Writer, views []dto.SessionView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No sessions.")
		return err
	}
	for _, v := range views {
		s := v.Session
		state := string(s.Status)
		if v.Late {
			state += " (late)"
		}
		if s.AppliedAt != nil {
			state += " on " + s.AppliedAt.Format(dateLayout)
		}
		fmt.Fprintf(w, "%s  %s  %s  %d/%d  %s\n", s.Date.Format(dateLayout), s.ID, s.PatientName, s.SessionIndex, s.SessionsTotal, state)
		for _, line := range v.Lines {
			fmt.Fprintf(w, "    - %s %s %s\n", line.ItemName, line.Dose, line.Unit)
		}
	}
	return nil
}

// WriteSession prints one session after a transition
func WriteSession(w io.Writer, verb string, s *entities.ScheduleSession) error {
	_, err := fmt.Fprintf(w, "%s session %s for %s (%s)\n", verb, s.ID, s.PatientName, s.Status)
	return err
}

// WriteSchedule prints the sessions created for a protocol
func WriteSchedule(w io.Writer, sessions []entities.ScheduleSession, dropped int) error {
	for _, s := range sessions {
		fmt.Fprintf(w, "Scheduled %s  %s  %s  %d/%d\n", s.ID, s.Date.Format(dateLayout), s.PatientName, s.SessionIndex, s.SessionsTotal)
	}
	if dropped > 0 {
		fmt.Fprintf(w, "⚠️  %d item lines were dropped\n", dropped)
	}
	return nil
}

// WriteHistory prints ledger movements newest first
func WriteHistory(w io.Writer, entries []entities.LedgerEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No stock movements.")
		return err
	}
	const row = "%-20s %-9s %10s  %-24s %s\n"
	fmt.Fprintf(w, row, "When", "Type", "Quantity", "Item", "Session")
	fmt.Fprintf(w, row, rule(20, 9, 10, 24, 7)...)
	for _, e := range entries {
		fmt.Fprintf(w, row, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Type, e.SignedQuantity(), e.ItemName, e.SessionID)
	}
	return nil
}

// WriteImport prints an import result
func WriteImport(w io.Writer, r *dto.ImportResult) error {
	fmt.Fprintf(w, "Imported %d %s records\n", r.Created, r.Kind)
	for _, s := range r.Skipped {
		fmt.Fprintf(w, "  line %d skipped: %s\n", s.Line, s.Reason)
	}
	if len(r.Unmatched) > 0 {
		fmt.Fprintf(w, "Items not found in stock: %s\n", strings.Join(r.Unmatched, ", "))
	}
	return nil
}

// WritePatients prints one patient name per line
func WritePatients(w io.Writer, names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No patients.")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
