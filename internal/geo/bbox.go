// Package geo handles the resort geometry: bounding-box clipping of
// depth-series grid cells and slope area derivation from boundary
// shapefiles.
package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/peakops/snowplan-cli/internal/series"
)

// BBox is a geographic bounding box in lon/lat degrees.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// ParseBBox parses "minLng,minLat,maxLng,maxLat".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, eris.Errorf("geo: bbox needs 4 comma-separated values, got %q", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BBox{}, eris.Errorf("geo: invalid bbox value %q", p)
		}
		vals[i] = v
	}
	b := BBox{MinLng: vals[0], MinLat: vals[1], MaxLng: vals[2], MaxLat: vals[3]}
	return b, b.Validate()
}

// Validate checks that the box is non-degenerate and within range.
func (b BBox) Validate() error {
	if b.MinLng >= b.MaxLng || b.MinLat >= b.MaxLat {
		return eris.Errorf("geo: degenerate bbox %s", b)
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLng < -180 || b.MaxLng > 180 {
		return eris.Errorf("geo: bbox out of range %s", b)
	}
	return nil
}

// Contains reports whether the point falls inside the box (inclusive).
func (b BBox) Contains(lng, lat float64) bool {
	return lng >= b.MinLng && lng <= b.MaxLng && lat >= b.MinLat && lat <= b.MaxLat
}

// Clip returns the records whose grid cell falls inside the box.
// Records without coordinates (zero lat and lng) are kept: point-scale
// exports carry no grid.
func (b BBox) Clip(records []series.Record) []series.Record {
	out := make([]series.Record, 0, len(records))
	for _, r := range records {
		if r.Lat == 0 && r.Lng == 0 {
			out = append(out, r)
			continue
		}
		if b.Contains(r.Lng, r.Lat) {
			out = append(out, r)
		}
	}
	return out
}

func (b BBox) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
}
