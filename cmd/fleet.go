package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/taxifleet/config"
	coremetrics "github.com/kilianp07/taxifleet/core/metrics"
	"github.com/kilianp07/taxifleet/pkg/export"
	"github.com/kilianp07/taxifleet/simulator"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var statusFormat string

var fleetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the fleet as it would start from the configuration",
	RunE:  runFleetStatus,
}

func init() {
	fleetStatusCmd.Flags().StringVarP(&statusFormat, "format", "f", "json", "output format: json or csv")
	fleetCmd.AddCommand(fleetStatusCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	world, err := simulator.NewWorld(*cfg, coremetrics.NopSink{}, nil, nil)
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}
	snap := world.Snapshot()
	switch statusFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), snap)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), snap)
	default:
		return fmt.Errorf("unknown format %q", statusFormat)
	}
}
