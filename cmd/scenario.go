package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/peakops/snowplan-cli/internal/snow"
)

// addScenarioFlags registers the shared scenario override flags. Values
// not set on the command line come from the preset (if any) or the
// config file defaults.
func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("area", 0, "slope area in m² (default from config)")
	f.Float64("depth", 0, "target snow depth in m (default from config)")
	f.Float64("water-ratio", 0, "water per m³ of snow")
	f.Float64("energy-ratio", 0, "energy in kWh per m³ of snow")
	f.Float64("water-price", 0, "price per unit of water")
	f.Float64("energy-price", 0, "price per kWh")
	f.Float64("efficiency", -1, "additive efficiency in [0,1)")
	f.Float64("additive-cost", -1, "additive cost per m³ of snow produced")
	f.Int("season-start", 0, "ski season start month (1-12)")
	f.Int("season-end", 0, "ski season end month (1-12)")
	f.String("preset", "", "named scenario preset")
	f.String("presets-file", "presets.yaml", "path to the presets file")
}

// scenarioFromFlags layers command-line flags over a preset or the
// configured defaults.
func scenarioFromFlags(cmd *cobra.Command) (snow.ScenarioInput, error) {
	f := cmd.Flags()
	in := cfg.Scenario

	if preset, _ := f.GetString("preset"); preset != "" {
		path, _ := f.GetString("presets-file")
		presets, err := snow.LoadPresets(path)
		if err != nil {
			return in, err
		}
		p, ok := presets[preset]
		if !ok {
			return in, eris.Errorf("unknown preset %q (known: %v)", preset, snow.PresetNames(presets))
		}
		in = p
	}

	if f.Changed("area") {
		in.SlopeArea, _ = f.GetFloat64("area")
	}
	if f.Changed("depth") {
		in.TargetDepth, _ = f.GetFloat64("depth")
	}
	if f.Changed("water-ratio") {
		in.WaterRatio, _ = f.GetFloat64("water-ratio")
	}
	if f.Changed("energy-ratio") {
		in.EnergyRatio, _ = f.GetFloat64("energy-ratio")
	}
	if f.Changed("water-price") {
		in.WaterPrice, _ = f.GetFloat64("water-price")
	}
	if f.Changed("energy-price") {
		in.EnergyPrice, _ = f.GetFloat64("energy-price")
	}
	if f.Changed("efficiency") {
		in.AdditiveEfficiency, _ = f.GetFloat64("efficiency")
	}
	if f.Changed("additive-cost") {
		in.AdditiveCostPerM3, _ = f.GetFloat64("additive-cost")
	}
	if f.Changed("season-start") {
		m, _ := f.GetInt("season-start")
		in.SeasonStart = time.Month(m)
	}
	if f.Changed("season-end") {
		m, _ := f.GetInt("season-end")
		in.SeasonEnd = time.Month(m)
	}

	return in, nil
}
