package report

import (
	"context"
	"fmt"
	"io"

	"github.com/meshwise/meshcost/internal/model"
)

// MarkdownReporter outputs the comparison as a Markdown document,
// suitable for pasting into a readiness summary or exporting to PDF.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, res *model.Results, meta ReportMeta) error {
	fmt.Fprintf(r.w, "# Ambient Cost Comparison\n\n")
	if meta.CustomerName != "" {
		fmt.Fprintf(r.w, "**Customer:** %s  \n", meta.CustomerName)
	}
	fmt.Fprintf(r.w, "**Cloud:** %s  \n", meta.CloudProvider)
	fmt.Fprintf(r.w, "**Generated:** %s\n\n", meta.GeneratedAt.Format("2006-01-02"))

	fmt.Fprintf(r.w, "## Inventory\n\n")
	fmt.Fprintf(r.w, "| Clusters | Nodes | Namespaces | Pods | Services |\n")
	fmt.Fprintf(r.w, "|---|---|---|---|---|\n")
	fmt.Fprintf(r.w, "| %d | %d | %d | %d | %d |\n\n",
		res.TotalClusters, res.TotalNodes, res.TotalNamespaces, res.TotalPods, res.TotalServices)

	fmt.Fprintf(r.w, "## Scenarios\n\n")
	fmt.Fprintf(r.w, "| Scenario | Cores (reserved) | Cores (limit) | Annual cost | Reduction | Annual savings |\n")
	fmt.Fprintf(r.w, "|---|---|---|---|---|---|\n")
	fmt.Fprintf(r.w, "| Sidecars (current) | %.1f | %.1f | $%.0f | - | - |\n",
		res.SidecarCoresReserved, res.SidecarCoresLimit, res.SidecarCostReserved)
	mdScenario(r.w, "Waypoints per namespace", res.Waypoints)
	if res.SharedWaypoints != nil {
		mdScenario(r.w, "Shared waypoints", *res.SharedWaypoints)
	}

	fmt.Fprintf(r.w, "\n## ROI\n\n")
	fmt.Fprintf(r.w, "| Year | Cumulative investment | Cumulative savings | ROI |\n")
	fmt.Fprintf(r.w, "|---|---|---|---|\n")
	for _, y := range res.ROISchedule {
		fmt.Fprintf(r.w, "| %d | $%.0f | $%.0f | %.2fx |\n",
			y.Year, y.CumInvestment, y.CumSavings, y.ROI)
	}
	fmt.Fprintf(r.w, "\n**Breakeven:** %s\n", formatBreakeven(res.Breakeven))

	return nil
}

func mdScenario(w io.Writer, label string, sc model.ScenarioCosts) {
	fmt.Fprintf(w, "| %s | %.1f | %.1f | $%.0f | %.1f%% | $%.0f |\n",
		label, sc.CoresReserved, sc.CoresLimit, sc.CostReserved,
		sc.ReductionReserved*100, sc.SavingsReserved)
}
