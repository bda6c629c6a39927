package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/meshwise/meshcost/internal/model"
)

// JSONReporter outputs the comparison as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonOutput struct {
	Meta    ReportMeta     `json:"meta"`
	Results *model.Results `json:"results"`
}

func (r *JSONReporter) Report(ctx context.Context, results *model.Results, meta ReportMeta) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonOutput{Meta: meta, Results: results}); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
