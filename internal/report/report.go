// Package report renders human-readable summaries of comparisons and
// demand analyses.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/peakops/snowplan-cli/internal/series"
	"github.com/peakops/snowplan-cli/internal/snow"
)

var printer = message.NewPrinter(language.English)

// FormatComparison renders a one-shot scenario comparison, including a
// short explanation of each formula so the numbers can be audited by
// hand.
func FormatComparison(in snow.ScenarioInput, cmp *snow.Comparison) string {
	var b strings.Builder

	b.WriteString("# Snow Production Cost Comparison\n\n")

	b.WriteString("## Inputs\n")
	printer.Fprintf(&b, "- Slope area: %.0f m²\n", in.SlopeArea)
	printer.Fprintf(&b, "- Target depth: %.2f m\n", in.TargetDepth)
	printer.Fprintf(&b, "- Water ratio: %.2f per m³ snow\n", in.WaterRatio)
	printer.Fprintf(&b, "- Energy ratio: %.2f kWh per m³ snow\n", in.EnergyRatio)
	printer.Fprintf(&b, "- Water price: %.4f per unit\n", in.WaterPrice)
	printer.Fprintf(&b, "- Energy price: %.4f per kWh\n", in.EnergyPrice)
	printer.Fprintf(&b, "- Additive efficiency: %.0f%%\n", in.AdditiveEfficiency*100)
	if in.AdditiveCostPerM3 > 0 {
		printer.Fprintf(&b, "- Additive cost: %.2f per m³\n", in.AdditiveCostPerM3)
	}
	b.WriteString("\n")

	b.WriteString("## Baseline (no additive)\n")
	writeResult(&b, cmp.Baseline)
	b.WriteString("\n## With additive\n")
	writeResult(&b, cmp.Assisted)

	b.WriteString("\n## Savings\n")
	printer.Fprintf(&b, "- Absolute: %.2f\n", cmp.SavingsAbsolute)
	if cmp.SavingsPercentValid {
		printer.Fprintf(&b, "- Relative: %.1f%%\n", cmp.SavingsPercent)
	} else {
		b.WriteString("- Relative: not applicable (baseline cost is zero)\n")
	}

	b.WriteString("\n## Formulas\n")
	b.WriteString("- snow volume = area × depth\n")
	b.WriteString("- water = volume × water ratio × (1 − efficiency)\n")
	b.WriteString("- energy = volume × energy ratio × (1 − efficiency)\n")
	b.WriteString("- cost = water × water price + energy × energy price (+ additive × effective volume)\n")

	return b.String()
}

func writeResult(b *strings.Builder, r snow.ScenarioResult) {
	printer.Fprintf(b, "- Snow volume: %.1f m³\n", r.SnowVolume)
	printer.Fprintf(b, "- Water: %.1f\n", r.Water)
	printer.Fprintf(b, "- Energy: %.1f kWh\n", r.Energy)
	if r.AdditiveCost > 0 {
		printer.Fprintf(b, "- Resource cost: %.2f\n", r.ResourceCost)
		printer.Fprintf(b, "- Additive cost: %.2f\n", r.AdditiveCost)
	}
	printer.Fprintf(b, "- Total cost: %.2f\n", r.TotalCost)
}

// FormatAnalysis renders a demand analysis: season totals followed by
// the monthly table.
func FormatAnalysis(a *series.Analysis) string {
	var b strings.Builder

	b.WriteString("# Snow Demand Analysis\n\n")

	b.WriteString("## Summary\n")
	printer.Fprintf(&b, "- Months analyzed: %d\n", a.Summary.Months)
	printer.Fprintf(&b, "- Snow demand: %.1f m³ (with additive: %.1f m³)\n",
		a.Summary.TotalDemand, a.Summary.TotalAssistedDemand)
	printer.Fprintf(&b, "- Water: %.1f (with additive: %.1f)\n",
		a.Summary.TotalWater, a.Summary.TotalAssistedWater)
	printer.Fprintf(&b, "- Energy: %.1f kWh (with additive: %.1f kWh)\n",
		a.Summary.TotalEnergy, a.Summary.TotalAssistedEnergy)
	printer.Fprintf(&b, "- Cost: %.2f baseline, %.2f with additive\n",
		a.Summary.BaselineCost, a.Summary.AssistedCost)
	printer.Fprintf(&b, "- Savings: %.2f", a.Summary.Savings)
	if a.Summary.SavingsPercentValid {
		printer.Fprintf(&b, " (%.1f%%)", a.Summary.SavingsPercent)
	} else {
		b.WriteString(" (percentage not applicable: baseline cost is zero)")
	}
	b.WriteString("\n\n")

	b.WriteString("## Monthly\n")
	for _, row := range a.Rows {
		fmt.Fprintf(&b, "- %s: ", row.Month.Format("2006-01"))
		printer.Fprintf(&b, "depth %.2f m, demand %.1f m³, cost %.2f vs %.2f, saves %.2f\n",
			row.MeanDepth, row.Baseline.SnowVolume,
			row.Baseline.TotalCost, row.Assisted.TotalCost, row.Savings)
	}

	return b.String()
}
