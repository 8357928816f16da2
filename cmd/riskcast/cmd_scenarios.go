package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quantlab-id/riskcast/internal/domain/scenario"
)

var scenariosConfigDir string

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the available economic scenarios",
	Long: `List every scenario in the catalog with its adjustment parameters.
The built-in catalog can be replaced or extended with a scenarios.yaml file
in the --config directory.`,
	RunE: runScenarios,
}

func init() {
	scenariosCmd.Flags().StringVar(&scenariosConfigDir, "config", "", "Directory with scenarios.yaml / sectors.yaml overrides")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	catalog, _, err := scenario.LoadConfig(scenariosConfigDir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Scenario\tReturn Adj\tVol Mult\tCorr Adj\tDD Adj\tSector Impacts\n")
	for _, name := range catalog.Names() {
		params, err := catalog.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%+.2f\t%.2fx\t%+.2f\t%+.2f\t%d\n",
			params.Name, params.ReturnsAdjustment, params.VolatilityAdjustment,
			params.CorrelationAdjustment, params.DrawdownAdjustment, len(params.ImpactFactor))
		if params.Description != "" {
			fmt.Fprintf(w, "  %s\t\t\t\t\t\n", params.Description)
		}
	}
	return w.Flush()
}
