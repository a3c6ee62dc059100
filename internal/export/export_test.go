package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/peakops/snowplan-cli/internal/series"
	"github.com/peakops/snowplan-cli/internal/snow"
)

func sampleAnalysis(t *testing.T) *series.Analysis {
	t.Helper()

	in := snow.ScenarioInput{
		SlopeArea:          10000,
		TargetDepth:        0.5,
		WaterRatio:         200,
		EnergyRatio:        5,
		WaterPrice:         0.002,
		EnergyPrice:        0.25,
		AdditiveEfficiency: 0.2,
	}

	records := []series.Record{
		{Time: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), Depth: 0.2},
		{Time: time.Date(2030, time.February, 1, 0, 0, 0, 0, time.UTC), Depth: 0.3},
	}

	a, err := series.Analyze(records, in, series.Options{})
	require.NoError(t, err)
	return a
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleAnalysis(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 months

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "2030-01", rows[1][0])
	assert.Equal(t, "3000", rows[1][3]) // demand m³ for 0.3 m shortfall
	assert.Equal(t, "2030-02", rows[2][0])
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	require.NoError(t, WriteXLSX(path, sampleAnalysis(t)))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	monthly, ok := f.Sheet["Monthly"]
	require.True(t, ok)
	assert.Len(t, monthly.Rows, 3)

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "months", summary.Rows[0].Cells[0].String())
}
