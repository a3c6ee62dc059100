package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peakops/snowplan-cli/internal/export"
	"github.com/peakops/snowplan-cli/internal/fetcher"
	"github.com/peakops/snowplan-cli/internal/geo"
	"github.com/peakops/snowplan-cli/internal/report"
	"github.com/peakops/snowplan-cli/internal/series"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <series-file> [series-file...]",
	Short: "Analyze snow depth series against a production scenario",
	Long:  "Reads climate snow-depth exports (CSV or XLSX), averages depth per month, and costs the shortfall below the target depth under both operating modes.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		in, err := scenarioFromFlags(cmd)
		if err != nil {
			return err
		}

		opts, err := analyzeOptions(cmd)
		if err != nil {
			return err
		}

		var bbox geo.BBox
		haveBBox := false
		if s, _ := f.GetString("bbox"); s != "" {
			bbox, err = geo.ParseBBox(s)
			if err != nil {
				return err
			}
			haveBBox = true
		}
		if path, _ := f.GetString("boundary"); path != "" {
			boundary, err := geo.LoadBoundary(path)
			if err != nil {
				return err
			}
			bbox = boundary.BBox()
			haveBBox = true
			if !f.Changed("area") {
				in.SlopeArea = boundary.AreaM2()
				zap.L().Info("slope area taken from boundary shapefile",
					zap.Float64("area_m2", in.SlopeArea),
				)
			}
		}

		sheet, _ := f.GetString("sheet")
		sets := make([]series.SourceSet, 0, len(args))
		for _, path := range args {
			records, err := loadRecords(ctx, path, sheet)
			if err != nil {
				return eris.Wrapf(err, "analyze: read %s", path)
			}
			if haveBBox {
				records = bbox.Clip(records)
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			sets = append(sets, series.SourceSet{Name: name, Records: records})
		}

		results, err := series.AnalyzeBatch(ctx, sets, in, opts, cfg.Analyze.Concurrency)
		if err != nil {
			return err
		}

		jsonOut, _ := f.GetBool("json")
		save, _ := f.GetBool("save")
		label, _ := f.GetString("label")
		csvOut, _ := f.GetString("csv-out")
		xlsxOut, _ := f.GetString("xlsx-out")
		if (csvOut != "" || xlsxOut != "") && len(results) != 1 {
			return eris.New("analyze: --csv-out and --xlsx-out require a single input file")
		}

		var failed []string
		for _, res := range results {
			if res.Err != nil {
				failed = append(failed, res.Name)
				continue
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res.Analysis); err != nil {
					return err
				}
			} else {
				if len(results) > 1 {
					fmt.Fprintf(os.Stdout, "=== %s ===\n", res.Name)
				}
				fmt.Fprint(os.Stdout, report.FormatAnalysis(res.Analysis))
			}

			if csvOut != "" {
				if err := writeCSVFile(csvOut, res.Analysis); err != nil {
					return err
				}
			}
			if xlsxOut != "" {
				if err := export.WriteXLSX(xlsxOut, res.Analysis); err != nil {
					return err
				}
			}

			if save {
				runLabel := label
				if runLabel == "" {
					runLabel = res.Name
				}
				if err := saveRun(ctx, runLabel, res); err != nil {
					return err
				}
			}
		}

		if len(failed) > 0 {
			return eris.Errorf("analyze: %d of %d sources failed: %s",
				len(failed), len(results), strings.Join(failed, ", "))
		}
		return nil
	},
}

// analyzeOptions parses the record filters.
func analyzeOptions(cmd *cobra.Command) (series.Options, error) {
	f := cmd.Flags()
	var opts series.Options

	opts.Scenario, _ = f.GetString("scenario")

	if s, _ := f.GetString("from"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return opts, eris.Wrap(err, "analyze: --from")
		}
		opts.Period.Start = t
	}
	if s, _ := f.GetString("to"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return opts, eris.Wrap(err, "analyze: --to")
		}
		opts.Period.End = t
	}

	return opts, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Errorf("invalid date %q (want YYYY-MM-DD or YYYY-MM)", s)
}

// loadRecords reads one series export, dispatching on the file extension.
func loadRecords(ctx context.Context, path, sheet string) ([]series.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "open series file")
		}
		defer f.Close()
		return fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{})
	}
}

func writeCSVFile(path string, a *series.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create csv output")
	}
	defer f.Close()
	return export.WriteCSV(f, a)
}

// saveRun persists one completed analysis.
func saveRun(ctx context.Context, label string, res series.BatchResult) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	run, err := st.CreateRun(ctx, label, res.Analysis.Input)
	if err != nil {
		return err
	}
	if err := st.CompleteRun(ctx, run.ID, res.Analysis); err != nil {
		return err
	}
	zap.L().Info("analysis saved", zap.String("run_id", run.ID), zap.String("label", label))
	return nil
}

func init() {
	addScenarioFlags(analyzeCmd)
	f := analyzeCmd.Flags()
	f.String("scenario", "", "restrict records to one climate scenario (e.g. ssp245)")
	f.String("from", "", "earliest record date (YYYY-MM-DD or YYYY-MM)")
	f.String("to", "", "latest record date (YYYY-MM-DD or YYYY-MM)")
	f.String("bbox", "", "clip records to bounding box minLng,minLat,maxLng,maxLat")
	f.String("boundary", "", "resort boundary shapefile; sets bbox and slope area")
	f.String("sheet", "", "XLSX sheet name (default: first sheet)")
	f.String("csv-out", "", "write the monthly table to a CSV file")
	f.String("xlsx-out", "", "write the monthly table and summary to an XLSX file")
	f.Bool("save", false, "persist the analysis to the run store")
	f.String("label", "", "label for the saved run (default: input file name)")
	f.Bool("json", false, "emit JSON instead of the text report")
	rootCmd.AddCommand(analyzeCmd)
}
