package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/meshwise/meshcost/internal/aws"
	"github.com/meshwise/meshcost/internal/config"
	"github.com/meshwise/meshcost/internal/costmodel"
	"github.com/meshwise/meshcost/internal/model"
	"github.com/meshwise/meshcost/internal/pricing"
	"github.com/meshwise/meshcost/internal/report"
)

// ErrInsufficientData means the snapshot lacks namespace or node rows;
// callers should prompt for more input instead of showing a zeroed
// report.
var ErrInsufficientData = errors.New("not enough inventory to compute: need at least one namespace row and one node row")

// Orchestrator coordinates the end-to-end pipeline: derive pricing
// buckets, auto-price them when a provider is available, run the cost
// model, and report.
type Orchestrator struct {
	Pricing aws.PricingProvider // nil = manual pricing only
	VCPUs   aws.VCPUResolver    // nil = trust inventory core counts
	Config  config.Config
	Writer  io.Writer
}

// New creates an orchestrator with the given configuration.
func New(cfg config.Config) *Orchestrator {
	return &Orchestrator{
		Config: cfg,
		Writer: os.Stdout,
	}
}

// PriceBuckets derives the instance buckets for the snapshot, carrying
// over any prices it already holds, and auto-prices the rest via the
// pricing provider when one is configured. The returned buckets replace
// inv.Prices on the caller's side.
func (o *Orchestrator) PriceBuckets(ctx context.Context, inv model.Inventory) ([]model.InstancePrice, error) {
	buckets := pricing.Derive(inv.Nodes, inv.Prices)
	if len(buckets) == 0 {
		return buckets, nil
	}

	if o.VCPUs != nil {
		if err := o.fillMissingVCPUs(ctx, buckets); err != nil {
			fmt.Fprintf(o.Writer, "Warning: could not resolve vCPU counts: %v\n", err)
		}
	}

	if o.Pricing == nil {
		return buckets, nil
	}

	unpriced := pricing.Unpriced(buckets)
	if len(unpriced) == 0 {
		return buckets, nil
	}

	fmt.Fprintf(o.Writer, "Auto-pricing %d instance buckets...\n", len(unpriced))

	pairs := make([]aws.TypeRegion, 0, len(unpriced))
	for _, b := range unpriced {
		pairs = append(pairs, aws.TypeRegion{Type: b.Type, Region: b.Region})
	}

	looked, err := o.Pricing.LookupMonthlyPrices(ctx, pairs)
	if err != nil {
		// Pricing failures never block the pipeline; unpriced buckets
		// stay at 0 for manual entry.
		fmt.Fprintf(o.Writer, "Warning: price lookup failed: %v\n", err)
		return buckets, nil
	}

	priced := 0
	for i := range buckets {
		if buckets[i].MonthlyPrice != 0 {
			continue
		}
		if p := looked.Get(buckets[i].Type, buckets[i].Region); p > 0 {
			buckets[i].MonthlyPrice = p
			priced++
		}
	}
	fmt.Fprintf(o.Writer, "Priced %d of %d buckets\n", priced, len(unpriced))

	return buckets, nil
}

// fillMissingVCPUs resolves per-instance core counts for buckets whose
// node rows carried none.
func (o *Orchestrator) fillMissingVCPUs(ctx context.Context, buckets []model.InstancePrice) error {
	var missing []string
	seen := make(map[string]bool)
	for _, b := range buckets {
		if b.CPUs == 0 && b.Type != "" && !seen[b.Type] {
			seen[b.Type] = true
			missing = append(missing, b.Type)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	vcpus, err := o.VCPUs.ResolveVCPUs(ctx, missing)
	if err != nil {
		return err
	}
	for i := range buckets {
		if buckets[i].CPUs == 0 {
			buckets[i].CPUs = int(vcpus[buckets[i].Type])
		}
	}
	return nil
}

// Analyze runs the full pipeline over a snapshot and writes the report.
func (o *Orchestrator) Analyze(ctx context.Context, inv model.Inventory) (*model.Results, error) {
	cfg := o.Config

	fmt.Fprintf(o.Writer, "Analyzing %d namespace rows and %d node rows...\n",
		len(inv.Namespaces), len(inv.Nodes))

	buckets, err := o.PriceBuckets(ctx, inv)
	if err != nil {
		return nil, err
	}

	results := costmodel.Compute(cfg.Scenario, inv.Namespaces, inv.Nodes, buckets)
	if results == nil {
		return nil, ErrInsufficientData
	}

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	meta := report.ReportMeta{
		CustomerName:  cfg.Scenario.CustomerName,
		CloudProvider: cfg.Scenario.CloudProvider,
		GeneratedAt:   time.Now(),
	}
	if err := reporter.Report(ctx, results, meta); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	return results, nil
}
