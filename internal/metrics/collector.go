// Package metrics collects namespace-level mesh inventory from a
// Prometheus-compatible backend, as an alternative to pasting
// spreadsheet exports. It depends on kube-state-metrics series being
// scraped; sidecar figures come from the istio-proxy container.
package metrics

import (
	"context"
	"errors"

	"github.com/meshwise/meshcost/internal/model"
)

var (
	ErrPrometheusUnreachable = errors.New("prometheus endpoint unreachable")
	ErrNoInventoryFound      = errors.New("no namespace inventory found; is kube-state-metrics scraped?")
)

// InventoryCollector gathers namespace inventory rows from a metrics
// backend.
type InventoryCollector interface {
	Collect(ctx context.Context, opts CollectOptions) ([]model.NamespaceRow, error)

	// Ping validates connectivity to the backend.
	Ping(ctx context.Context) error

	// BackendType returns a label for the backend, e.g. "prometheus".
	BackendType() string
}

// CollectOptions configures inventory collection.
type CollectOptions struct {
	ClusterName       string
	ExcludeNamespaces []string // namespaces to drop from the result
}
