// Package fetcher downloads and parses snow depth series from CSV,
// XLSX, HTTP, and FTP sources.
package fetcher

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/peakops/snowplan-cli/internal/series"
)

// columnAliases maps recognized header spellings to canonical columns.
// The extraction pipeline and hand-edited exports disagree on naming.
var columnAliases = map[string]string{
	"time":         "time",
	"date":         "time",
	"datetime":     "time",
	"latitude":     "lat",
	"lat":          "lat",
	"longitude":    "lng",
	"lon":          "lng",
	"lng":          "lng",
	"depth":        "depth",
	"depth_m":      "depth",
	"snow_depth":   "depth",
	"snow_depth_m": "depth",
	"snd":          "depth",
	"model":        "model",
	"scenario":     "scenario",
	"realization":  "realization",
}

// timeLayouts are tried in order when parsing the time column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"200601",
}

// headerMap resolves a header row to canonical column indexes. The
// time and depth columns are mandatory; everything else is optional.
type headerMap map[string]int

func mapHeader(header []string) (headerMap, error) {
	hm := make(headerMap, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canon, ok := columnAliases[key]; ok {
			if _, dup := hm[canon]; !dup {
				hm[canon] = i
			}
		}
	}
	if _, ok := hm["time"]; !ok {
		return nil, eris.New("fetcher: no time column in header")
	}
	if _, ok := hm["depth"]; !ok {
		return nil, eris.New("fetcher: no depth column in header")
	}
	return hm, nil
}

func (hm headerMap) field(row []string, col string) string {
	idx, ok := hm[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// record converts one data row. Numeric fields are parsed strictly so
// malformed exports are rejected at the boundary instead of producing
// silent zeros.
func (hm headerMap) record(row []string) (series.Record, error) {
	var r series.Record

	ts, err := parseTime(hm.field(row, "time"))
	if err != nil {
		return r, err
	}
	r.Time = ts

	r.Depth, err = parseFloat("depth", hm.field(row, "depth"))
	if err != nil {
		return r, err
	}

	if v := hm.field(row, "lat"); v != "" {
		if r.Lat, err = parseFloat("latitude", v); err != nil {
			return r, err
		}
	}
	if v := hm.field(row, "lng"); v != "" {
		if r.Lng, err = parseFloat("longitude", v); err != nil {
			return r, err
		}
	}

	r.Model = hm.field(row, "model")
	r.Scenario = hm.field(row, "scenario")
	r.Realization = hm.field(row, "realization")
	return r, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, eris.New("fetcher: empty time value")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, eris.Errorf("fetcher: unrecognized time value %q", s)
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Errorf("fetcher: invalid %s value %q", name, s)
	}
	return v, nil
}
