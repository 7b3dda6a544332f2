package commands

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
)

func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, usageError("invalid %s %q: expected a number", name, value)
	}
	return d, nil
}

func parseDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, usageError("invalid %s %q: expected YYYY-MM-DD", name, value)
	}
	return t, nil
}

// parseDoses reads repeated ITEM_ID:DOSE flag values
func parseDoses(values []string) ([]entities.ItemDose, error) {
	doses := make([]entities.ItemDose, 0, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, ":")
		if i <= 0 || i == len(v)-1 {
			return nil, usageError("invalid --item %q: expected ITEM_ID:DOSE", v)
		}
		dose, err := parseDecimal("dose", v[i+1:])
		if err != nil {
			return nil, err
		}
		doses = append(doses, entities.ItemDose{SupplyItemID: entities.ItemID(strings.TrimSpace(v[:i])), Dose: dose})
	}
	return doses, nil
}
