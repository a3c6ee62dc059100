package series

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peakops/snowplan-cli/internal/snow"
)

// ErrNoRecords flags an analysis whose filters matched no records.
// Callers match with errors.Is.
var ErrNoRecords = eris.New("series: no records match the requested scenario, period, and season")

// Options filters the records fed into an analysis.
type Options struct {
	// Scenario restricts records to one climate scenario label
	// (e.g. "ssp245"). Empty matches everything.
	Scenario string `json:"scenario,omitempty"`
	// Period bounds the forecast window.
	Period Period `json:"period,omitempty"`
	// Season restricts the analysis to ski-season months. The zero
	// value means no season filtering.
	Season SeasonWindow `json:"season,omitempty"`
}

// MonthRow is the analysis result for one calendar month: the mean
// snow depth across grid cells and the production demand and cost it
// implies under both operating modes.
type MonthRow struct {
	Month     time.Time           `json:"month"`
	MeanDepth float64             `json:"mean_depth_m"`
	Shortfall float64             `json:"shortfall_m"`
	Baseline  snow.ScenarioResult `json:"baseline"`
	Assisted  snow.ScenarioResult `json:"assisted"`
	Savings   float64             `json:"savings"`
}

// Summary aggregates an analysis across all months.
type Summary struct {
	Months              int     `json:"months"`
	TotalDemand         float64 `json:"total_demand_m3"`
	TotalAssistedDemand float64 `json:"total_assisted_demand_m3"`
	TotalWater          float64 `json:"total_water"`
	TotalAssistedWater  float64 `json:"total_assisted_water"`
	TotalEnergy         float64 `json:"total_energy_kwh"`
	TotalAssistedEnergy float64 `json:"total_assisted_energy_kwh"`
	BaselineCost        float64 `json:"baseline_cost"`
	AssistedCost        float64 `json:"assisted_cost"`
	Savings             float64 `json:"savings"`
	SavingsPercent      float64 `json:"savings_percent"`
	SavingsPercentValid bool    `json:"savings_percent_valid"`
}

// Analysis is the full result of one scenario applied to one depth series.
type Analysis struct {
	Input   snow.ScenarioInput `json:"input"`
	Rows    []MonthRow         `json:"rows"`
	Summary Summary            `json:"summary"`
}

// Analyze evaluates the scenario against a depth series. For each month
// with at least one matching record, the mean depth across grid cells is
// compared to the target depth; the shortfall (clamped at zero when
// natural snow already covers the target) sized by the slope area gives
// the machine-made snow demand, which is costed under both modes.
func Analyze(records []Record, in snow.ScenarioInput, opts Options) (*Analysis, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	season := opts.Season
	if season.Start == 0 && season.End == 0 {
		season = SeasonWindow{Start: in.SeasonStart, End: in.SeasonEnd}
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*bucket)

	for _, r := range records {
		if opts.Scenario != "" && r.Scenario != opts.Scenario {
			continue
		}
		if !opts.Period.contains(r.Time) {
			continue
		}
		if season.Start != 0 && !season.Contains(r.Time.Month()) {
			continue
		}
		month := time.Date(r.Time.Year(), r.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
		b := buckets[month]
		if b == nil {
			b = &bucket{}
			buckets[month] = b
		}
		b.sum += r.Depth
		b.count++
	}

	if len(buckets) == 0 {
		return nil, ErrNoRecords
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	a := &Analysis{Input: in, Rows: make([]MonthRow, 0, len(months))}
	for _, m := range months {
		b := buckets[m]
		mean := b.sum / float64(b.count)

		row, err := analyzeMonth(m, mean, in)
		if err != nil {
			return nil, eris.Wrapf(err, "series: month %s", m.Format("2006-01"))
		}
		a.Rows = append(a.Rows, *row)

		a.Summary.TotalDemand += row.Baseline.SnowVolume
		a.Summary.TotalAssistedDemand += row.Assisted.SnowVolume
		a.Summary.TotalWater += row.Baseline.Water
		a.Summary.TotalAssistedWater += row.Assisted.Water
		a.Summary.TotalEnergy += row.Baseline.Energy
		a.Summary.TotalAssistedEnergy += row.Assisted.Energy
		a.Summary.BaselineCost += row.Baseline.TotalCost
		a.Summary.AssistedCost += row.Assisted.TotalCost
	}

	a.Summary.Months = len(a.Rows)
	a.Summary.Savings = a.Summary.BaselineCost - a.Summary.AssistedCost
	if pct, err := snow.SavingsPercent(a.Summary.BaselineCost, a.Summary.Savings); err == nil {
		a.Summary.SavingsPercent = pct
		a.Summary.SavingsPercentValid = true
	}

	return a, nil
}

// analyzeMonth costs the shortfall for a single month under both modes.
func analyzeMonth(month time.Time, meanDepth float64, in snow.ScenarioInput) (*MonthRow, error) {
	shortfall := in.TargetDepth - meanDepth
	if shortfall < 0 {
		shortfall = 0
	}

	demand, err := snow.Volume(in.SlopeArea, shortfall)
	if err != nil {
		return nil, err
	}

	cmp, err := snow.CompareVolume(demand, in)
	if err != nil {
		return nil, err
	}

	return &MonthRow{
		Month:     month,
		MeanDepth: meanDepth,
		Shortfall: shortfall,
		Baseline:  cmp.Baseline,
		Assisted:  cmp.Assisted,
		Savings:   cmp.SavingsAbsolute,
	}, nil
}

// SourceSet names one depth series to analyze in a batch.
type SourceSet struct {
	Name    string
	Records []Record
}

// BatchResult pairs a source name with its analysis or error.
type BatchResult struct {
	Name     string
	Analysis *Analysis
	Err      error
}

// AnalyzeBatch runs Analyze over several sources with bounded
// concurrency. Per-source failures are reported in the results rather
// than aborting the batch.
func AnalyzeBatch(ctx context.Context, sets []SourceSet, in snow.ScenarioInput, opts Options, concurrency int) ([]BatchResult, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]BatchResult, len(sets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, set := range sets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "series: batch cancelled")
			}
			a, err := Analyze(set.Records, in, opts)
			results[i] = BatchResult{Name: set.Name, Analysis: a, Err: err}
			if err != nil {
				zap.L().Warn("series: source analysis failed",
					zap.String("source", set.Name),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
