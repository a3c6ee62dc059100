// Package snow implements the artificial snow production cost model:
// deterministic formulas relating slope area, target depth, and unit
// prices to water, energy, and monetary cost, evaluated with and
// without a nucleating additive.
package snow

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
)

// Error kinds surfaced by the model. Callers match with errors.Is.
var (
	// ErrInvalidInput flags a negative or non-finite input value.
	ErrInvalidInput = eris.New("invalid input")
	// ErrDivisionByZero flags a savings percentage against a zero baseline cost.
	ErrDivisionByZero = eris.New("division by zero")
)

// ScenarioInput holds the scalar parameters for one evaluation. Ratios
// are per m³ of machine-made snow; prices are per unit of the matching
// resource. All values are metric and immutable for one calculation.
type ScenarioInput struct {
	SlopeArea          float64    `json:"slope_area_m2" yaml:"slope_area_m2" mapstructure:"slope_area_m2"`
	TargetDepth        float64    `json:"target_depth_m" yaml:"target_depth_m" mapstructure:"target_depth_m"`
	SeasonStart        time.Month `json:"season_start_month" yaml:"season_start_month" mapstructure:"season_start_month"`
	SeasonEnd          time.Month `json:"season_end_month" yaml:"season_end_month" mapstructure:"season_end_month"`
	WaterRatio         float64    `json:"water_ratio" yaml:"water_ratio" mapstructure:"water_ratio"`
	EnergyRatio        float64    `json:"energy_ratio_kwh" yaml:"energy_ratio_kwh" mapstructure:"energy_ratio_kwh"`
	WaterPrice         float64    `json:"water_price" yaml:"water_price" mapstructure:"water_price"`
	EnergyPrice        float64    `json:"energy_price_kwh" yaml:"energy_price_kwh" mapstructure:"energy_price_kwh"`
	AdditiveEfficiency float64    `json:"additive_efficiency" yaml:"additive_efficiency" mapstructure:"additive_efficiency"`
	AdditiveCostPerM3  float64    `json:"additive_cost_per_m3" yaml:"additive_cost_per_m3" mapstructure:"additive_cost_per_m3"`
}

// ScenarioResult holds the computed resource and cost figures for one
// operating mode.
type ScenarioResult struct {
	SnowVolume   float64 `json:"snow_volume_m3"`
	Water        float64 `json:"water"`
	Energy       float64 `json:"energy_kwh"`
	ResourceCost float64 `json:"resource_cost"`
	AdditiveCost float64 `json:"additive_cost"`
	TotalCost    float64 `json:"total_cost"`
}

// Comparison holds baseline and additive-assisted results plus the
// derived savings. SavingsPercentValid is false when the baseline cost
// is zero and the percentage is undefined.
type Comparison struct {
	Baseline            ScenarioResult `json:"baseline"`
	Assisted            ScenarioResult `json:"assisted"`
	SavingsAbsolute     float64        `json:"savings_absolute"`
	SavingsPercent      float64        `json:"savings_percent"`
	SavingsPercentValid bool           `json:"savings_percent_valid"`
}

// Validate rejects negative, non-finite, or out-of-range inputs before
// any formula is evaluated.
func (in ScenarioInput) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"slope_area_m2", in.SlopeArea},
		{"target_depth_m", in.TargetDepth},
		{"water_ratio", in.WaterRatio},
		{"energy_ratio_kwh", in.EnergyRatio},
		{"water_price", in.WaterPrice},
		{"energy_price_kwh", in.EnergyPrice},
		{"additive_cost_per_m3", in.AdditiveCostPerM3},
	} {
		if err := checkNonNegative(f.name, f.val); err != nil {
			return err
		}
	}
	return checkEfficiency(in.AdditiveEfficiency)
}

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return eris.Wrapf(ErrInvalidInput, "%s is not a number", name)
	}
	if v < 0 {
		return eris.Wrapf(ErrInvalidInput, "%s must be non-negative, got %g", name, v)
	}
	return nil
}

func checkEfficiency(e float64) error {
	if math.IsNaN(e) || e < 0 || e >= 1 {
		return eris.Wrapf(ErrInvalidInput, "additive_efficiency must be in [0,1), got %g", e)
	}
	return nil
}

// Volume returns the snow volume in m³ required to cover area (m²) at
// depth (m).
func Volume(area, depth float64) (float64, error) {
	if err := checkNonNegative("area", area); err != nil {
		return 0, err
	}
	if err := checkNonNegative("depth", depth); err != nil {
		return 0, err
	}
	return area * depth, nil
}

// WaterDemand returns the water needed for volume m³ of snow at ratio
// units of water per m³, reduced by the additive efficiency factor.
func WaterDemand(volume, ratio, efficiency float64) (float64, error) {
	return demand("water", volume, ratio, efficiency)
}

// EnergyDemand returns the energy in kWh needed for volume m³ of snow
// at ratio kWh per m³, reduced by the additive efficiency factor.
func EnergyDemand(volume, ratio, efficiency float64) (float64, error) {
	return demand("energy", volume, ratio, efficiency)
}

func demand(name string, volume, ratio, efficiency float64) (float64, error) {
	if err := checkNonNegative(name+" volume", volume); err != nil {
		return 0, err
	}
	if err := checkNonNegative(name+" ratio", ratio); err != nil {
		return 0, err
	}
	if err := checkEfficiency(efficiency); err != nil {
		return 0, err
	}
	return volume * ratio * (1 - efficiency), nil
}

// Cost returns the monetary cost of the given water and energy amounts
// at the given unit prices.
func Cost(water, energy, waterPrice, energyPrice float64) (float64, error) {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"water", water}, {"energy", energy},
		{"water price", waterPrice}, {"energy price", energyPrice},
	} {
		if err := checkNonNegative(f.name, f.val); err != nil {
			return 0, err
		}
	}
	return water*waterPrice + energy*energyPrice, nil
}

// SavingsPercent returns savings as a percentage of the baseline cost.
// Returns ErrDivisionByZero when the baseline cost is zero.
func SavingsPercent(baselineCost, savings float64) (float64, error) {
	if baselineCost == 0 {
		return 0, eris.Wrap(ErrDivisionByZero, "baseline cost is zero")
	}
	return savings / baselineCost * 100, nil
}

// Compare evaluates the input under both operating modes and derives
// the savings. The assisted mode applies the additive efficiency to
// water and energy demand and pays the additive surcharge on the
// reduced snow volume. A zero baseline cost flags the percentage as
// invalid rather than failing the comparison.
func Compare(in ScenarioInput) (*Comparison, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	volume, err := Volume(in.SlopeArea, in.TargetDepth)
	if err != nil {
		return nil, err
	}
	return CompareVolume(volume, in)
}

// CompareVolume is Compare for callers that already know the required
// snow volume in m³ (e.g. a shortfall computed from observed depths).
func CompareVolume(volume float64, in ScenarioInput) (*Comparison, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := checkNonNegative("volume", volume); err != nil {
		return nil, err
	}

	baseline, err := evaluate(volume, in, 0)
	if err != nil {
		return nil, err
	}
	assisted, err := evaluate(volume, in, in.AdditiveEfficiency)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Baseline:        *baseline,
		Assisted:        *assisted,
		SavingsAbsolute: baseline.TotalCost - assisted.TotalCost,
	}

	pct, err := SavingsPercent(baseline.TotalCost, cmp.SavingsAbsolute)
	if err == nil {
		cmp.SavingsPercent = pct
		cmp.SavingsPercentValid = true
	}

	return cmp, nil
}

// evaluate computes one ScenarioResult for the given efficiency. The
// additive surcharge applies only when efficiency > 0 (assisted mode).
func evaluate(volume float64, in ScenarioInput, efficiency float64) (*ScenarioResult, error) {
	water, err := WaterDemand(volume, in.WaterRatio, efficiency)
	if err != nil {
		return nil, err
	}
	energy, err := EnergyDemand(volume, in.EnergyRatio, efficiency)
	if err != nil {
		return nil, err
	}
	resourceCost, err := Cost(water, energy, in.WaterPrice, in.EnergyPrice)
	if err != nil {
		return nil, err
	}

	effVolume := volume * (1 - efficiency)
	var additiveCost float64
	if efficiency > 0 {
		additiveCost = effVolume * in.AdditiveCostPerM3
	}

	return &ScenarioResult{
		SnowVolume:   effVolume,
		Water:        water,
		Energy:       energy,
		ResourceCost: resourceCost,
		AdditiveCost: additiveCost,
		TotalCost:    resourceCost + additiveCost,
	}, nil
}

// DefaultInput returns the default scenario parameters: a 50,000 m²
// slope held at 0.5 m over a November–March season, 200 l water and
// 5 kWh per m³ of snow at €0.002/l and €0.25/kWh, with a 20% effective
// additive costing €2/m³.
func DefaultInput() ScenarioInput {
	return ScenarioInput{
		SlopeArea:          50000,
		TargetDepth:        0.5,
		SeasonStart:        time.November,
		SeasonEnd:          time.March,
		WaterRatio:         200,
		EnergyRatio:        5,
		WaterPrice:         0.002,
		EnergyPrice:        0.25,
		AdditiveEfficiency: 0.2,
		AdditiveCostPerM3:  2.0,
	}
}
