// Package series analyzes snow depth time series from climate model
// extractions against a production scenario: per-month shortfall,
// resource demand, and cost with and without the nucleating additive.
package series

import "time"

// Record is one grid-cell snow depth observation from a climate model
// extraction. Model, Scenario, and Realization carry the CMIP filename
// metadata when present.
type Record struct {
	Time        time.Time `json:"time"`
	Lat         float64   `json:"latitude"`
	Lng         float64   `json:"longitude"`
	Depth       float64   `json:"depth_m"`
	Model       string    `json:"model,omitempty"`
	Scenario    string    `json:"scenario,omitempty"`
	Realization string    `json:"realization,omitempty"`
}

// SeasonWindow is an inclusive month range. Windows that cross the year
// boundary (November through March) are supported.
type SeasonWindow struct {
	Start time.Month `json:"start" yaml:"start" mapstructure:"start"`
	End   time.Month `json:"end" yaml:"end" mapstructure:"end"`
}

// Contains reports whether the given month falls inside the window.
func (w SeasonWindow) Contains(m time.Month) bool {
	if w.Start <= w.End {
		return m >= w.Start && m <= w.End
	}
	// Wrap-around season, e.g. November–March.
	return m >= w.Start || m <= w.End
}

// Period is an inclusive time range filter. Zero bounds are open.
type Period struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

func (p Period) contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}
