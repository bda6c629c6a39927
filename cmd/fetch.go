package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshwise/meshcost/internal/bundle"
	"github.com/meshwise/meshcost/internal/inventory"
	"github.com/meshwise/meshcost/internal/model"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Import diagnostic bundles via the bulk-import service",
	Long: `Submits one or more bundle download links to the bulk-import service,
waits for the job to finish, and merges the parsed namespace/node rows
into the inventory snapshot.

Links are given as URL or URL,PASSWORD.`,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringSlice("link", nil, "bundle link (repeatable): URL or URL,PASSWORD")
	f.String("service", "", "bulk-import service base URL")

	_ = fetchCmd.MarkFlagRequired("link")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	serviceURL := cfg.Import.ServiceURL
	if s, _ := cmd.Flags().GetString("service"); s != "" {
		serviceURL = s
	}
	if serviceURL == "" {
		return fmt.Errorf("no import service configured; set import.service_url or --service")
	}

	rawLinks, _ := cmd.Flags().GetStringSlice("link")
	links := make([]bundle.Link, 0, len(rawLinks))
	for _, raw := range rawLinks {
		link := bundle.Link{URL: raw}
		if i := strings.IndexByte(raw, ','); i >= 0 {
			link.URL, link.Password = raw[:i], raw[i+1:]
		}
		links = append(links, link)
	}

	client := bundle.NewClient(serviceURL, cfg.Import.Timeout)

	jobID, err := client.Submit(ctx, links)
	if err != nil {
		return err
	}
	fmt.Printf("Submitted import job %s (%d links)\n", jobID, len(links))

	ctx, cancel := context.WithTimeout(ctx, cfg.Import.Timeout)
	defer cancel()

	status, err := client.Wait(ctx, jobID, cfg.Import.PollInterval, func(processed, total int) {
		fmt.Printf("  processing %d/%d links...\n", processed, total)
	})
	if err != nil {
		return err
	}

	inv := model.Inventory{}
	if existing, err := inventory.LoadSnapshot(cfg.Snapshot.Path); err == nil {
		inv = existing
	}
	store := inventory.FromInventory(inv)

	var nsTotal, nodeTotal int
	for _, batch := range status.Batches {
		store.AddNamespaceRows(batch.Namespaces)
		store.AddNodeRows(batch.Nodes)
		nsTotal += len(batch.Namespaces)
		nodeTotal += len(batch.Nodes)
	}

	out := store.Snapshot()
	out.CustomerName = inv.CustomerName
	out.CloudProvider = inv.CloudProvider
	out.Prices = inv.Prices

	if err := inventory.SaveSnapshot(cfg.Snapshot.Path, out); err != nil {
		return err
	}
	fmt.Printf("Merged %d namespace rows and %d node rows from %d bundles into %s\n",
		nsTotal, nodeTotal, len(status.Batches), cfg.Snapshot.Path)
	return nil
}
