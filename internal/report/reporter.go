package report

import (
	"context"
	"io"
	"time"

	"github.com/meshwise/meshcost/internal/model"
)

// Reporter formats and writes a computed cost comparison.
type Reporter interface {
	Report(ctx context.Context, results *model.Results, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	CustomerName  string              `json:"customer_name"`
	CloudProvider model.CloudProvider `json:"cloud_provider"`
	GeneratedAt   time.Time           `json:"generated_at"`
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
