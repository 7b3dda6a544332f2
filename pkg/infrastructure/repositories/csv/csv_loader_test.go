package csv

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInventory(t *testing.T) {
	input := strings.Join([]string{
		"Ácido hialurônico, ml, 10, 2",
		"",
		"Gaze,,abc",
		"Luva, par",
		" , un, 3",
		"Agulha, un, 4, ",
		"Seringa, un, 4, 0",
		"Álcool, ml, -1",
	}, "\n")

	rows, err := NewLoader().ParseInventory(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	first := rows[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "Ácido hialurônico", first.Name)
	assert.Equal(t, "ml", first.Unit)
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, first.MinStock.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, first.Problem)

	gaze := rows[1]
	assert.Equal(t, 3, gaze.Line)
	assert.Equal(t, "un", gaze.Unit)
	assert.True(t, gaze.Quantity.IsZero(), "unparsable quantity falls back to zero")
	assert.True(t, gaze.MinStock.Equal(DefaultMinStock))

	assert.Equal(t, 4, rows[2].Line)
	assert.NotEmpty(t, rows[2].Problem, "two columns are not enough")
	assert.Equal(t, "empty item name", rows[3].Problem)
	assert.True(t, rows[4].MinStock.Equal(DefaultMinStock), "blank minStock uses the default")
	assert.True(t, rows[5].MinStock.IsZero(), "explicit zero minStock is kept")
	assert.Contains(t, rows[6].Problem, "negative quantity")
}

func TestParseInventory_DefaultMinStockOption(t *testing.T) {
	rows, err := NewLoader(WithDefaultMinStock(decimal.NewFromInt(8))).ParseInventory(strings.NewReader("Gaze,un,1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].MinStock.Equal(decimal.NewFromInt(8)))
}

func TestParseSchedule(t *testing.T) {
	input := strings.Join([]string{
		"Ana, Gaze, 2, 2024-03-01",
		"Bia, Luva, 1",
		"Caio, Gaze, 0, 2024-03-01",
		"Davi, Gaze, x, 2024-03-01",
		"Eva, Gaze, 1, 01/03/2024",
		", Gaze, 1, 2024-03-01",
		"Fabio, \"Soro, fisiológico\", 1.5, 2024-03-02",
	}, "\r\n")

	rows, err := NewLoader().ParseSchedule(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	ok := rows[0]
	assert.Empty(t, ok.Problem)
	assert.Equal(t, "Ana", ok.PatientName)
	assert.Equal(t, "Gaze", ok.ItemName)
	assert.True(t, ok.Dose.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ok.Date)

	assert.True(t, rows[1].Short)
	assert.Contains(t, rows[2].Problem, "positive")
	assert.Equal(t, "Gaze", rows[2].ItemName, "item name survives a dose problem")
	assert.Contains(t, rows[3].Problem, "invalid dose")
	assert.Contains(t, rows[4].Problem, "invalid date")
	assert.Equal(t, "empty patient name", rows[5].Problem)
	assert.Equal(t, "Soro, fisiológico", rows[6].ItemName)
	assert.Equal(t, 7, rows[6].Line)
}

func TestParseInventory_DefaultUnitOption(t *testing.T) {
	rows, err := NewLoader(WithDefaultUnit("ml")).ParseInventory(strings.NewReader("Soro,,100\nGaze,cx,1"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ml", rows[0].Unit)
	assert.Equal(t, "cx", rows[1].Unit)
}
