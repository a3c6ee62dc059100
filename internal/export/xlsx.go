package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/peakops/snowplan-cli/internal/series"
)

// WriteXLSX writes a two-sheet workbook: the monthly table and a
// summary sheet with the season totals.
func WriteXLSX(path string, a *series.Analysis) error {
	f := xlsx.NewFile()

	monthly, err := f.AddSheet("Monthly")
	if err != nil {
		return eris.Wrap(err, "export: add monthly sheet")
	}

	header := monthly.AddRow()
	for _, h := range csvHeader {
		header.AddCell().SetString(h)
	}
	for _, row := range a.Rows {
		r := monthly.AddRow()
		r.AddCell().SetString(row.Month.Format("2006-01"))
		for _, v := range []float64{
			row.MeanDepth,
			row.Shortfall,
			row.Baseline.SnowVolume,
			row.Assisted.SnowVolume,
			row.Baseline.Water,
			row.Assisted.Water,
			row.Baseline.Energy,
			row.Assisted.Energy,
			row.Baseline.TotalCost,
			row.Assisted.TotalCost,
			row.Savings,
		} {
			r.AddCell().SetFloat(v)
		}
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	addSummaryRow := func(label string, v float64) {
		r := summary.AddRow()
		r.AddCell().SetString(label)
		r.AddCell().SetFloat(v)
	}
	addSummaryRow("months", float64(a.Summary.Months))
	addSummaryRow("total_demand_m3", a.Summary.TotalDemand)
	addSummaryRow("total_assisted_demand_m3", a.Summary.TotalAssistedDemand)
	addSummaryRow("total_water", a.Summary.TotalWater)
	addSummaryRow("total_assisted_water", a.Summary.TotalAssistedWater)
	addSummaryRow("total_energy_kwh", a.Summary.TotalEnergy)
	addSummaryRow("total_assisted_energy_kwh", a.Summary.TotalAssistedEnergy)
	addSummaryRow("baseline_cost", a.Summary.BaselineCost)
	addSummaryRow("assisted_cost", a.Summary.AssistedCost)
	addSummaryRow("savings", a.Summary.Savings)
	if a.Summary.SavingsPercentValid {
		addSummaryRow("savings_percent", a.Summary.SavingsPercent)
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
