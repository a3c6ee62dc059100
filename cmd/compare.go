package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peakops/snowplan-cli/internal/report"
	"github.com/peakops/snowplan-cli/internal/snow"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare production cost with and without additive",
	Long:  "Costs a fixed snow production scenario under the baseline and the additive-assisted mode and reports the savings.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := scenarioFromFlags(cmd)
		if err != nil {
			return err
		}

		cmp, err := snow.Compare(in)
		if err != nil {
			return eris.Wrap(err, "compare")
		}

		zap.L().Info("comparison complete",
			zap.Float64("baseline_cost", cmp.Baseline.TotalCost),
			zap.Float64("assisted_cost", cmp.Assisted.TotalCost),
			zap.Float64("savings", cmp.SavingsAbsolute),
		)

		if compareJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Input snow.ScenarioInput `json:"input"`
				*snow.Comparison
			}{in, cmp})
		}

		fmt.Fprint(os.Stdout, report.FormatComparison(in, cmp))
		return nil
	},
}

func init() {
	addScenarioFlags(compareCmd)
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "emit JSON instead of the text report")
	rootCmd.AddCommand(compareCmd)
}
