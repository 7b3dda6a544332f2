package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

// DefaultMinStock is the reorder threshold assigned when an inventory row leaves it blank
var DefaultMinStock = decimal.NewFromInt(5)

// InventoryRow is one parsed line of an inventory import: name, unit, quantity[, minStock]
type InventoryRow struct {
	Line     int
	Name     string
	Unit     string
	Quantity decimal.Decimal
	MinStock decimal.Decimal
	// Problem is non-empty when the line cannot become a supply item
	Problem string
}

// ScheduleRow is one parsed line of a schedule import: patient, item name, dose, date
type ScheduleRow struct {
	Line        int
	PatientName string
	ItemName    string
	Dose        decimal.Decimal
	Date        time.Time
	// Short marks a line with too few columns to carry an item name
	Short bool
	// Problem is non-empty when the dose, date or patient is unusable
	Problem string
}

// Loader parses clinic import files
type Loader struct {
	defaultUnit     string
	defaultMinStock decimal.Decimal
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithDefaultMinStock overrides the threshold used for blank or unparsable minStock cells
func WithDefaultMinStock(min decimal.Decimal) LoaderOption {
	return func(l *Loader) { l.defaultMinStock = min }
}

// WithDefaultUnit overrides the unit used for blank unit cells
func WithDefaultUnit(unit string) LoaderOption {
	return func(l *Loader) { l.defaultUnit = unit }
}

// NewLoader creates a new CSV loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{defaultUnit: entities.DefaultUnit, defaultMinStock: DefaultMinStock}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseInventory reads inventory rows. Rows with fewer than three columns or a blank name
// are returned with a Problem; numeric cells fall back to defaults instead of failing.
func (l *Loader) ParseInventory(r io.Reader) ([]InventoryRow, error) {
	var rows []InventoryRow
	err := readRecords(r, func(line int, record []string) {
		row := InventoryRow{Line: line}
		if len(record) < 3 {
			row.Problem = fmt.Sprintf("expected at least 3 columns, got %d", len(record))
			rows = append(rows, row)
			return
		}

		row.Name = record[0]
		row.Unit = record[1]
		if row.Unit == "" {
			row.Unit = l.defaultUnit
		}
		row.Quantity = parseDecimalOr(record[2], decimal.Zero)
		row.MinStock = l.defaultMinStock
		if len(record) > 3 {
			row.MinStock = parseDecimalOr(record[3], l.defaultMinStock)
		}

		switch {
		case row.Name == "":
			row.Problem = "empty item name"
		case row.Quantity.IsNegative():
			row.Problem = fmt.Sprintf("negative quantity %s", row.Quantity)
		case row.MinStock.IsNegative():
			row.Problem = fmt.Sprintf("negative minimum stock %s", row.MinStock)
		}
		rows = append(rows, row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory CSV: %w", err)
	}
	return rows, nil
}

// ParseSchedule reads schedule rows. Item names are left unresolved; dose and date
// problems are recorded on the row so the caller can resolve names first.
func (l *Loader) ParseSchedule(r io.Reader) ([]ScheduleRow, error) {
	var rows []ScheduleRow
	err := readRecords(r, func(line int, record []string) {
		row := ScheduleRow{Line: line}
		if len(record) < 4 {
			row.Short = true
			row.Problem = fmt.Sprintf("expected at least 4 columns, got %d", len(record))
			rows = append(rows, row)
			return
		}

		row.PatientName = record[0]
		row.ItemName = record[1]

		dose, err := decimal.NewFromString(record[2])
		switch {
		case err != nil:
			row.Problem = fmt.Sprintf("invalid dose %q", record[2])
		case !dose.IsPositive():
			row.Problem = fmt.Sprintf("dose must be positive, got %s", dose)
		default:
			row.Dose = dose
		}

		if row.Problem == "" {
			date, err := time.Parse(entities.DateLayout, record[3])
			if err != nil {
				row.Problem = fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", record[3])
			} else {
				row.Date = date
			}
		}
		if row.Problem == "" && row.PatientName == "" {
			row.Problem = "empty patient name"
		}
		rows = append(rows, row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule CSV: %w", err)
	}
	return rows, nil
}

// readRecords walks comma separated records, trimming every cell. Blank lines never reach fn.
func readRecords(r io.Reader, fn func(line int, record []string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line, _ := reader.FieldPos(0)
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if isBlank(record) {
			continue
		}
		fn(line, record)
	}
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

func parseDecimalOr(s string, fallback decimal.Decimal) decimal.Decimal {
	if s == "" {
		return fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback
	}
	return d
}
