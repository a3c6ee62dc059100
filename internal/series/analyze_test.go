package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakops/snowplan-cli/internal/snow"
)

func testInput() snow.ScenarioInput {
	return snow.ScenarioInput{
		SlopeArea:          10000,
		TargetDepth:        0.5,
		SeasonStart:        time.November,
		SeasonEnd:          time.March,
		WaterRatio:         200,
		EnergyRatio:        5,
		WaterPrice:         0.002,
		EnergyPrice:        0.25,
		AdditiveEfficiency: 0.2,
	}
}

func rec(year int, month time.Month, depth float64) Record {
	return Record{
		Time:  time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		Depth: depth,
	}
}

func TestSeasonWindow_Contains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window SeasonWindow
		month  time.Month
		want   bool
	}{
		{name: "simple range inside", window: SeasonWindow{time.January, time.April}, month: time.March, want: true},
		{name: "simple range outside", window: SeasonWindow{time.January, time.April}, month: time.June, want: false},
		{name: "wrap-around december", window: SeasonWindow{time.November, time.March}, month: time.December, want: true},
		{name: "wrap-around february", window: SeasonWindow{time.November, time.March}, month: time.February, want: true},
		{name: "wrap-around summer excluded", window: SeasonWindow{time.November, time.March}, month: time.July, want: false},
		{name: "boundary start", window: SeasonWindow{time.November, time.March}, month: time.November, want: true},
		{name: "boundary end", window: SeasonWindow{time.November, time.March}, month: time.March, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Contains(tt.month))
		})
	}
}

func TestAnalyze_ShortfallAndClamping(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(2030, time.January, 0.2),  // 0.3 m short → 3000 m³
		rec(2030, time.February, 0.8), // above target → no demand
	}

	a, err := Analyze(records, testInput(), Options{})
	require.NoError(t, err)
	require.Len(t, a.Rows, 2)

	jan := a.Rows[0]
	assert.InDelta(t, 0.3, jan.Shortfall, 1e-9)
	assert.InDelta(t, 3000, jan.Baseline.SnowVolume, 1e-9)
	assert.InDelta(t, 3000*200, jan.Baseline.Water, 1e-6)
	assert.InDelta(t, 3000*5, jan.Baseline.Energy, 1e-9)

	feb := a.Rows[1]
	assert.Zero(t, feb.Shortfall)
	assert.Zero(t, feb.Baseline.SnowVolume)
	assert.Zero(t, feb.Baseline.TotalCost)
}

func TestAnalyze_GridCellsAveragedPerMonth(t *testing.T) {
	t.Parallel()

	month := time.Date(2031, time.December, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{Time: month, Lat: 46.80, Lng: 9.15, Depth: 0.1},
		{Time: month, Lat: 46.81, Lng: 9.16, Depth: 0.3},
		{Time: month, Lat: 46.82, Lng: 9.17, Depth: 0.5},
	}

	a, err := Analyze(records, testInput(), Options{})
	require.NoError(t, err)
	require.Len(t, a.Rows, 1)
	assert.InDelta(t, 0.3, a.Rows[0].MeanDepth, 1e-9)
	assert.InDelta(t, 0.2, a.Rows[0].Shortfall, 1e-9)
}

func TestAnalyze_SeasonAndScenarioFilters(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(2030, time.January, 0.2),
		rec(2030, time.July, 0.0), // out of season, would dominate demand
	}
	records[0].Scenario = "ssp245"
	records[1].Scenario = "ssp245"
	records = append(records, Record{
		Time:     time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC),
		Depth:    0.0,
		Scenario: "ssp585",
	})

	a, err := Analyze(records, testInput(), Options{Scenario: "ssp245"})
	require.NoError(t, err)
	require.Len(t, a.Rows, 1)
	assert.Equal(t, time.January, a.Rows[0].Month.Month())
	// The ssp585 record was excluded from the January mean.
	assert.InDelta(t, 0.2, a.Rows[0].MeanDepth, 1e-9)
}

func TestAnalyze_PeriodFilter(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(2030, time.January, 0.2),
		rec(2031, time.January, 0.2),
		rec(2032, time.January, 0.2),
	}

	opts := Options{
		Period: Period{
			Start: time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2031, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	a, err := Analyze(records, testInput(), opts)
	require.NoError(t, err)
	require.Len(t, a.Rows, 1)
	assert.Equal(t, 2031, a.Rows[0].Month.Year())
}

func TestAnalyze_SummaryTotalsAndSavings(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(2030, time.January, 0.2),
		rec(2030, time.December, 0.4),
	}

	a, err := Analyze(records, testInput(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, a.Summary.Months)
	// 3000 + 1000 m³ of demand.
	assert.InDelta(t, 4000, a.Summary.TotalDemand, 1e-9)
	assert.InDelta(t, 3200, a.Summary.TotalAssistedDemand, 1e-9)
	assert.Greater(t, a.Summary.BaselineCost, a.Summary.AssistedCost)
	assert.InDelta(t, a.Summary.BaselineCost-a.Summary.AssistedCost, a.Summary.Savings, 1e-9)
	require.True(t, a.Summary.SavingsPercentValid)
	assert.InDelta(t, 20, a.Summary.SavingsPercent, 1e-9)
}

func TestAnalyze_ZeroBaselineFlagged(t *testing.T) {
	t.Parallel()

	// Snow everywhere above target: zero demand, zero baseline cost.
	records := []Record{rec(2030, time.January, 2.0)}

	a, err := Analyze(records, testInput(), Options{})
	require.NoError(t, err)
	assert.False(t, a.Summary.SavingsPercentValid)
}

func TestAnalyze_NoMatchingRecords(t *testing.T) {
	t.Parallel()

	records := []Record{rec(2030, time.July, 0.0)} // summer only

	_, err := Analyze(records, testInput(), Options{})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestAnalyze_InvalidInputRejected(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.SlopeArea = -1

	_, err := Analyze([]Record{rec(2030, time.January, 0.2)}, in, Options{})
	assert.Error(t, err)
}

func TestAnalyzeBatch(t *testing.T) {
	t.Parallel()

	sets := []SourceSet{
		{Name: "ok", Records: []Record{rec(2030, time.January, 0.2)}},
		{Name: "empty", Records: nil},
	}

	results, err := AnalyzeBatch(context.Background(), sets, testInput(), Options{}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "ok", results[0].Name)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 1, results[0].Analysis.Summary.Months)

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Analysis)
}
