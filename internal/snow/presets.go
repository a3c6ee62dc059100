package snow

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// presetFile is the on-disk shape: a top-level "presets" key mapping
// preset names to partial scenario inputs.
type presetFile struct {
	Presets map[string]ScenarioInput `yaml:"presets"`
}

// LoadPresets reads named scenario presets from a YAML file. Zero
// scalar fields are interpreted as unset and filled from DefaultInput,
// so a preset only needs to name what it changes; a zero area, depth,
// ratio, or price cannot be expressed in a preset. The one exception is
// additive_efficiency, where zero means "no additive" and is kept.
func LoadPresets(path string) (map[string]ScenarioInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "presets: read %s", path)
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, eris.Wrap(err, "presets: parse yaml")
	}
	if len(pf.Presets) == 0 {
		return nil, eris.Errorf("presets: no presets in %s", path)
	}

	def := DefaultInput()
	out := make(map[string]ScenarioInput, len(pf.Presets))
	for name, in := range pf.Presets {
		out[name] = fillDefaults(in, def)
	}
	return out, nil
}

// fillDefaults replaces zero-valued fields with the defaults. A zero
// additive efficiency is kept as-is: "no additive" is a meaningful
// preset value, not an omission.
func fillDefaults(in, def ScenarioInput) ScenarioInput {
	if in.SlopeArea == 0 {
		in.SlopeArea = def.SlopeArea
	}
	if in.TargetDepth == 0 {
		in.TargetDepth = def.TargetDepth
	}
	if in.SeasonStart == 0 {
		in.SeasonStart = def.SeasonStart
	}
	if in.SeasonEnd == 0 {
		in.SeasonEnd = def.SeasonEnd
	}
	if in.WaterRatio == 0 {
		in.WaterRatio = def.WaterRatio
	}
	if in.EnergyRatio == 0 {
		in.EnergyRatio = def.EnergyRatio
	}
	if in.WaterPrice == 0 {
		in.WaterPrice = def.WaterPrice
	}
	if in.EnergyPrice == 0 {
		in.EnergyPrice = def.EnergyPrice
	}
	if in.AdditiveCostPerM3 == 0 {
		in.AdditiveCostPerM3 = def.AdditiveCostPerM3
	}
	return in
}

// PresetNames returns the preset names in sorted order.
func PresetNames(presets map[string]ScenarioInput) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
