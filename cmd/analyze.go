package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshwise/meshcost/internal/inventory"
	"github.com/meshwise/meshcost/internal/orchestrator"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the sidecar vs. ambient cost comparison",
	Long: `Runs the cost model over the inventory snapshot: derives and prices
instance buckets, computes the sidecar baseline and ambient scenarios on
both reserved and limit bases, projects 3-year ROI, and writes the
report.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.Bool("fetch-prices", false, "auto-price unpriced buckets before computing")
	f.String("output", "", "output format: table, json, markdown")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if f, _ := cmd.Flags().GetString("output"); f != "" {
		cfg.Output.Format = f
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inv, err := inventory.LoadSnapshot(cfg.Snapshot.Path)
	if err != nil {
		return err
	}
	if inv.CustomerName != "" && cfg.Scenario.CustomerName == "" {
		cfg.Scenario.CustomerName = inv.CustomerName
	}

	orch := orchestrator.New(cfg)

	if doFetch, _ := cmd.Flags().GetBool("fetch-prices"); doFetch {
		provider, err := newAWSProvider(ctx, false)
		if err != nil {
			return err
		}
		orch.Pricing = provider
		orch.VCPUs = provider
	}

	w := os.Stdout
	if outFile, _ := cmd.Flags().GetString("output-file"); outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	orch.Writer = w

	_, err = orch.Analyze(ctx, inv)
	return err
}
