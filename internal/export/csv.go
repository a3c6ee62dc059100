// Package export writes analysis results to CSV and XLSX for the
// resort's own spreadsheets.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/peakops/snowplan-cli/internal/series"
)

// csvHeader is the column layout of the monthly export.
var csvHeader = []string{
	"month",
	"mean_depth_m",
	"shortfall_m",
	"demand_m3",
	"assisted_demand_m3",
	"water",
	"assisted_water",
	"energy_kwh",
	"assisted_energy_kwh",
	"baseline_cost",
	"assisted_cost",
	"savings",
}

// WriteCSV writes the monthly analysis table to w.
func WriteCSV(w io.Writer, a *series.Analysis) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, row := range a.Rows {
		record := []string{
			row.Month.Format("2006-01"),
			ftoa(row.MeanDepth),
			ftoa(row.Shortfall),
			ftoa(row.Baseline.SnowVolume),
			ftoa(row.Assisted.SnowVolume),
			ftoa(row.Baseline.Water),
			ftoa(row.Assisted.Water),
			ftoa(row.Baseline.Energy),
			ftoa(row.Assisted.Energy),
			ftoa(row.Baseline.TotalCost),
			ftoa(row.Assisted.TotalCost),
			ftoa(row.Savings),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", record[0])
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
