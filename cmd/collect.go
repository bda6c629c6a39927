package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshwise/meshcost/internal/inventory"
	"github.com/meshwise/meshcost/internal/kube"
	"github.com/meshwise/meshcost/internal/metrics"
	"github.com/meshwise/meshcost/internal/model"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect inventory live from a cluster",
	Long: `Builds the inventory snapshot directly from a running cluster: node
rows from the Kubernetes API (instance type and placement from the
well-known node labels) and namespace rows from a Prometheus-compatible
backend scraping kube-state-metrics.`,
	RunE: runCollect,
}

func init() {
	f := collectCmd.Flags()
	f.String("cluster-name", "", "cluster name recorded on collected rows")
	f.String("prometheus-url", "", "Prometheus/Thanos endpoint URL")
	f.String("kubeconfig", "", "path to kubeconfig file")
	f.String("kube-context", "", "Kubernetes context name")
	f.StringSlice("exclude-namespaces", nil, "namespaces to exclude")
	f.Bool("nodes-only", false, "collect node inventory only (skip Prometheus)")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	kubeconfig := cfg.Kubernetes.Kubeconfig
	if k, _ := cmd.Flags().GetString("kubeconfig"); k != "" {
		kubeconfig = k
	}
	kubeContext := cfg.Kubernetes.Context
	if k, _ := cmd.Flags().GetString("kube-context"); k != "" {
		kubeContext = k
	}

	client, currentContext, err := kube.NewClient(kubeconfig, kubeContext)
	if err != nil {
		return err
	}

	clusterName, _ := cmd.Flags().GetString("cluster-name")
	if clusterName == "" {
		clusterName = currentContext
	}

	fmt.Printf("Collecting node inventory from context %q...\n", currentContext)
	nodes, err := kube.CollectNodeRows(ctx, client, clusterName)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d nodes\n", len(nodes))

	var namespaces []model.NamespaceRow
	nodesOnly, _ := cmd.Flags().GetBool("nodes-only")
	if !nodesOnly {
		promURL := cfg.Prometheus.URL
		if u, _ := cmd.Flags().GetString("prometheus-url"); u != "" {
			promURL = u
		}
		if promURL == "" {
			return fmt.Errorf("no Prometheus endpoint configured; use --prometheus-url or --nodes-only")
		}

		collector, err := metrics.NewPrometheusCollector(promURL,
			metrics.WithTimeout(cfg.Prometheus.Timeout))
		if err != nil {
			return err
		}
		if err := collector.Ping(ctx); err != nil {
			return fmt.Errorf("connecting to Prometheus: %w", err)
		}

		exclude, _ := cmd.Flags().GetStringSlice("exclude-namespaces")
		fmt.Printf("Collecting namespace inventory from %s backend...\n", collector.BackendType())
		namespaces, err = collector.Collect(ctx, metrics.CollectOptions{
			ClusterName:       clusterName,
			ExcludeNamespaces: exclude,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Found %d namespaces\n", len(namespaces))
	}

	inv := model.Inventory{}
	if existing, err := inventory.LoadSnapshot(cfg.Snapshot.Path); err == nil {
		inv = existing
	}
	store := inventory.FromInventory(inv)
	store.AddNamespaceRows(namespaces)
	store.AddNodeRows(nodes)

	out := store.Snapshot()
	out.CustomerName = inv.CustomerName
	out.CloudProvider = inv.CloudProvider
	out.Prices = inv.Prices

	if err := inventory.SaveSnapshot(cfg.Snapshot.Path, out); err != nil {
		return err
	}
	fmt.Printf("Snapshot written to %s (%d namespaces, %d nodes)\n",
		cfg.Snapshot.Path, len(out.Namespaces), len(out.Nodes))
	return nil
}
