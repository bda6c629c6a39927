package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/meshwise/meshcost/internal/model"
)

// TableReporter outputs the comparison as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, res *model.Results, meta ReportMeta) error {
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "Ambient Cost Comparison\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 64))
	if meta.CustomerName != "" {
		fmt.Fprintf(r.w, "Customer:    %s\n", meta.CustomerName)
	}
	fmt.Fprintf(r.w, "Cloud:       %s\n", meta.CloudProvider)
	fmt.Fprintf(r.w, "Clusters:    %d (%d nodes, %d namespaces)\n",
		res.TotalClusters, res.TotalNodes, res.TotalNamespaces)
	fmt.Fprintf(r.w, "Workloads:   %d pods, %d services\n", res.TotalPods, res.TotalServices)
	fmt.Fprintf(r.w, "Pricing:     %d cores, $%.0f/mo, $%.2f/core/mo\n",
		res.TotalCPUs, res.TotalMonthlySpend, res.AvgCostPerCoreMonthly)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 64))

	fmt.Fprintf(r.w, "%-28s %10s %10s %12s %9s\n",
		"Scenario", "Cores", "Cores(lim)", "$/year", "Reduct")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 76))
	fmt.Fprintf(r.w, "%-28s %10.1f %10.1f %12.0f %9s\n",
		"Sidecars (current)",
		res.SidecarCoresReserved, res.SidecarCoresLimit, res.SidecarCostReserved, "-")
	printScenario(r.w, "Waypoints per namespace", res.Waypoints)
	if res.SharedWaypoints != nil {
		printScenario(r.w, "Shared waypoints", *res.SharedWaypoints)
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 76))

	fmt.Fprintf(r.w, "\nAnnual savings (reserved basis): $%.0f\n", res.Waypoints.SavingsReserved)
	fmt.Fprintf(r.w, "Ztunnel overhead: %.1f cores across %d nodes\n",
		res.ZtunnelCores, res.TotalNodes)

	fmt.Fprintf(r.w, "\nROI projection\n")
	fmt.Fprintf(r.w, "%-6s %14s %14s %8s\n", "Year", "Investment", "Savings", "ROI")
	for _, y := range res.ROISchedule {
		fmt.Fprintf(r.w, "%-6d %14.0f %14.0f %7.2fx\n",
			y.Year, y.CumInvestment, y.CumSavings, y.ROI)
	}
	fmt.Fprintf(r.w, "Breakeven: %s\n\n", formatBreakeven(res.Breakeven))

	return nil
}

func printScenario(w io.Writer, label string, sc model.ScenarioCosts) {
	fmt.Fprintf(w, "%-28s %10.1f %10.1f %12.0f %8.1f%%\n",
		label, sc.CoresReserved, sc.CoresLimit, sc.CostReserved, sc.ReductionReserved*100)
}

func formatBreakeven(b model.Breakeven) string {
	if b.Never {
		return "never (no projected savings)"
	}
	return fmt.Sprintf("%.1f months", b.Months)
}
