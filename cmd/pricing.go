package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	awspkg "github.com/meshwise/meshcost/internal/aws"
	"github.com/meshwise/meshcost/internal/inventory"
	"github.com/meshwise/meshcost/internal/orchestrator"
	"github.com/meshwise/meshcost/internal/pricing"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Derive and price instance buckets from the snapshot",
	Long: `Groups the snapshot's nodes into (instance type, region) buckets,
keeping any prices already entered, and optionally auto-prices the rest
from the cloud provider's price list. Prices can also be set manually
with --set.`,
	RunE: runPricing,
}

func init() {
	f := pricingCmd.Flags()
	f.Bool("fetch", false, "auto-price unpriced buckets via the cloud pricing API")
	f.StringSlice("set", nil, "set a price manually: 'type|region=monthly' (repeatable)")
	f.Bool("no-cache", false, "disable the pricing cache")

	rootCmd.AddCommand(pricingCmd)
}

func runPricing(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	inv, err := inventory.LoadSnapshot(cfg.Snapshot.Path)
	if err != nil {
		return err
	}

	orch := orchestrator.New(cfg)
	if doFetch, _ := cmd.Flags().GetBool("fetch"); doFetch {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		provider, err := newAWSProvider(ctx, noCache)
		if err != nil {
			return err
		}
		orch.Pricing = provider
		orch.VCPUs = provider
	}

	buckets, err := orch.PriceBuckets(ctx, inv)
	if err != nil {
		return err
	}

	sets, _ := cmd.Flags().GetStringSlice("set")
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, want 'type|region=monthly'", s)
		}
		monthly, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid price in --set %q: %w", s, err)
		}
		if !pricing.SetPrice(buckets, key, monthly) {
			return fmt.Errorf("no instance bucket with key %q", key)
		}
	}

	inv.Prices = buckets
	if err := inventory.SaveSnapshot(cfg.Snapshot.Path, inv); err != nil {
		return err
	}

	fmt.Printf("%-40s %6s %6s %12s\n", "KEY", "vCPU", "COUNT", "$/MONTH")
	fmt.Println(strings.Repeat("-", 68))
	for _, b := range buckets {
		price := fmt.Sprintf("%12.2f", b.MonthlyPrice)
		if b.MonthlyPrice == 0 {
			price = fmt.Sprintf("%12s", "unpriced")
		}
		fmt.Printf("%-40s %6d %6d %s\n", b.Key, b.CPUs, b.Count, price)
	}
	fmt.Printf("\n%d buckets (%d unpriced) saved to %s\n",
		len(buckets), len(pricing.Unpriced(buckets)), cfg.Snapshot.Path)
	return nil
}

// newAWSProvider builds the AWS pricing provider, honoring the
// configured cloud. Non-AWS clouds have no automatic pricing backend.
func newAWSProvider(ctx context.Context, noCache bool) (*awspkg.AWSProvider, error) {
	if !awspkg.Supports(cfg.Scenario.CloudProvider) {
		return nil, fmt.Errorf("automatic pricing is only available for aws, not %q; enter prices with --set",
			cfg.Scenario.CloudProvider)
	}

	cacheDir := cfg.Pricing.CacheDir
	if cacheDir == "" && !noCache {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".cache", "meshcost")
	}
	if noCache {
		cacheDir = ""
	}

	return awspkg.NewAWSProvider(ctx, cfg.Pricing.Region, cacheDir, cfg.Pricing.CacheTTL)
}
