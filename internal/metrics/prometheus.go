package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	prommodel "github.com/prometheus/common/model"

	"github.com/meshwise/meshcost/internal/model"
)

const bytesPerGiB = 1024 * 1024 * 1024

// PrometheusCollector collects inventory from Prometheus, Thanos, or
// Cortex.
type PrometheusCollector struct {
	api      promv1.API
	endpoint string
	backend  string
	timeout  time.Duration
}

// PrometheusOption configures the collector.
type PrometheusOption func(*PrometheusCollector)

// WithTimeout sets the query timeout.
func WithTimeout(d time.Duration) PrometheusOption {
	return func(c *PrometheusCollector) { c.timeout = d }
}

// NewPrometheusCollector creates a collector connected to the given
// endpoint.
func NewPrometheusCollector(endpoint string, opts ...PrometheusOption) (*PrometheusCollector, error) {
	client, err := promapi.NewClient(promapi.Config{Address: endpoint})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}

	c := &PrometheusCollector{
		api:      promv1.NewAPI(client),
		endpoint: endpoint,
		backend:  "prometheus",
		timeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping checks connectivity with a trivial query.
func (c *PrometheusCollector) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := c.api.Query(ctx, "up", time.Now()); err != nil {
		return fmt.Errorf("%w: %v", ErrPrometheusUnreachable, err)
	}
	return nil
}

// BackendType returns the backend label.
func (c *PrometheusCollector) BackendType() string {
	return c.backend
}

// Collect gathers per-namespace inventory. Rows are returned sorted by
// namespace name so repeated collections of the same data line up.
func (c *PrometheusCollector) Collect(ctx context.Context, opts CollectOptions) ([]model.NamespaceRow, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	byNS := make(map[string]*model.NamespaceRow)
	row := func(ns string) *model.NamespaceRow {
		if r, ok := byNS[ns]; ok {
			return r
		}
		r := &model.NamespaceRow{Cluster: opts.ClusterName, Namespace: ns}
		byNS[ns] = r
		return r
	}

	type metricTarget struct {
		query string
		apply func(r *model.NamespaceRow, v float64)
	}

	targets := []metricTarget{
		{queryRunningPods(), func(r *model.NamespaceRow, v float64) { r.Pods = int(v) }},
		{queryServices(), func(r *model.NamespaceRow, v float64) { r.Services = int(v) }},
		{queryContainers(), func(r *model.NamespaceRow, v float64) { r.Containers = int(v) }},
		{querySidecarProxies(), func(r *model.NamespaceRow, v float64) { r.SidecarProxies = int(v) }},
		{queryWorkloadResources("requests", "cpu"), func(r *model.NamespaceRow, v float64) { r.ReqCores = v }},
		{queryWorkloadResources("limits", "cpu"), func(r *model.NamespaceRow, v float64) { r.LimitCores = v }},
		{queryWorkloadResources("requests", "memory"), func(r *model.NamespaceRow, v float64) { r.ReqMem = v / bytesPerGiB }},
		{queryWorkloadResources("limits", "memory"), func(r *model.NamespaceRow, v float64) { r.LimitMem = v / bytesPerGiB }},
		{querySidecarResources("requests", "cpu"), func(r *model.NamespaceRow, v float64) { r.SidecarReqCPU = v }},
		{querySidecarResources("limits", "cpu"), func(r *model.NamespaceRow, v float64) { r.SidecarLimitCPU = v }},
		{querySidecarResources("requests", "memory"), func(r *model.NamespaceRow, v float64) { r.SidecarReqMem = v / bytesPerGiB }},
		{querySidecarResources("limits", "memory"), func(r *model.NamespaceRow, v float64) { r.SidecarLimitMem = v / bytesPerGiB }},
	}

	for _, t := range targets {
		values, err := c.queryByNamespace(ctx, t.query)
		if err != nil {
			return nil, err
		}
		for ns, v := range values {
			t.apply(row(ns), v)
		}
	}

	excluded := make(map[string]bool, len(opts.ExcludeNamespaces))
	for _, ns := range opts.ExcludeNamespaces {
		excluded[ns] = true
	}

	names := make([]string, 0, len(byNS))
	for ns := range byNS {
		if !excluded[ns] {
			names = append(names, ns)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, ErrNoInventoryFound
	}

	rows := make([]model.NamespaceRow, 0, len(names))
	for _, ns := range names {
		rows = append(rows, *byNS[ns])
	}
	return rows, nil
}

// queryByNamespace evaluates an instant vector query and keys the
// result by the namespace label.
func (c *PrometheusCollector) queryByNamespace(ctx context.Context, query string) (map[string]float64, error) {
	result, _, err := c.api.Query(ctx, query, time.Now())
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", query, err)
	}

	vector, ok := result.(prommodel.Vector)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T for %q", result, query)
	}

	values := make(map[string]float64, len(vector))
	for _, sample := range vector {
		ns := string(sample.Metric["namespace"])
		if ns == "" {
			continue
		}
		values[ns] = float64(sample.Value)
	}
	return values, nil
}
