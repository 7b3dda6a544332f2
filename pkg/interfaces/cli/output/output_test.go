package output

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/application/dto"
	"github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/entities"
	domainservices "github.com/alphatheskincompany/controle-estoque-clinica/pkg/domain/services"
	th "github.com/alphatheskincompany/controle-estoque-clinica/pkg/infrastructure/testing"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func projectionFixture() []entities.ItemProjection {
	gaze := th.Item("a", "Gaze", "10", "2")
	luva := th.Item("b", "Luva", "3", "5")
	luva.Unit = "par"
	soro := th.Item("c", "Soro fisiologico", "100", "10")
	soro.Unit = "ml"

	sessions := []entities.ScheduleSession{
		th.Session("s1", "Ana", "2024-01-01", th.Dose("a", "4")),
		th.Session("s2", "Bia", "2024-01-02", th.Dose("c", "20")),
		th.Session("s3", "Caio", "2024-01-03", th.Dose("a", "8")),
	}
	return domainservices.NewProjectionEngine().Project([]entities.SupplyItem{soro, luva, gaze}, sessions)
}

func TestWriteProjection_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProjection(&buf, projectionFixture()))
	newGoldie(t).Assert(t, "projection", buf.Bytes())
}

func TestWriteSummary_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, &dto.Summary{
		Today:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Items:             3,
		PendingSessions:   3,
		CriticalStock:     1,
		ProjectedCritical: 1,
		ProjectedWarning:  1,
	}))
	newGoldie(t).Assert(t, "summary", buf.Bytes())
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{Format: FormatJSON, Writer: &buf}
	require.NoError(t, r.Render(projectionFixture(), func(io.Writer) error {
		t.Fatal("text renderer must not run for json")
		return nil
	}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "critical", decoded[0]["status"])
	assert.Equal(t, "-2", decoded[0]["projectedBalance"])
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{Format: FormatYAML, Writer: &buf}
	require.NoError(t, r.Render(&dto.ImportResult{Kind: "schedule", Created: 2, Unmatched: []string{"Toxina"}}, nil))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "schedule", decoded["kind"])
	assert.Equal(t, 2, decoded["created"])
	assert.Equal(t, []any{"Toxina"}, decoded["unmatched"])
}

func TestRenderer_Text(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{Format: FormatText, Writer: &buf}
	require.NoError(t, r.Render([]string{"Ana"}, func(w io.Writer) error { return WritePatients(w, []string{"Ana"}) }))
	assert.Equal(t, "Ana\n", buf.String())

	err := Renderer{Format: "xml", Writer: &buf}.Render(nil, nil)
	assert.Error(t, err)
	assert.False(t, IsValidFormat("xml"))
	assert.True(t, IsValidFormat(FormatYAML))
}

func TestWriteSessions_MissingItem(t *testing.T) {
	session := th.Session("s1", "Ana", "2024-01-02", th.Dose("gone", "2"))
	var buf bytes.Buffer
	require.NoError(t, WriteSessions(&buf, []dto.SessionView{{
		Session: session,
		Lines:   []dto.DoseLine{{ItemID: "gone", ItemName: dto.MissingItemLabel, Dose: th.Qty("2"), Missing: true}},
		Late:    true,
	}}))
	assert.Equal(t, "2024-01-02  s1  Ana  1/1  scheduled (late)\n    - Insumo removido 2 \n", buf.String())
}

func TestWriteImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteImport(&buf, &dto.ImportResult{
		Kind:      "schedule",
		Created:   1,
		Skipped:   []dto.SkippedLine{{Line: 3, Reason: "invalid dose \"x\""}},
		Unmatched: []string{"Toxina", "Soro"},
	}))
	assert.Equal(t, "Imported 1 schedule records\n  line 3 skipped: invalid dose \"x\"\nItems not found in stock: Toxina, Soro\n", buf.String())
}
