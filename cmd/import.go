package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshwise/meshcost/internal/inventory"
	"github.com/meshwise/meshcost/internal/model"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import pasted namespace/node inventory into the snapshot",
	Long: `Reads tab-separated namespace and node inventory (as exported from a
spreadsheet, with or without a header row) and merges it into the
inventory snapshot. Repeated imports append; they do not merge rows.`,
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("namespaces", "", "path to namespace rows TSV ('-' for stdin)")
	f.String("nodes", "", "path to node rows TSV ('-' for stdin)")
	f.Bool("replace", false, "replace the snapshot instead of appending")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	nsPath, _ := cmd.Flags().GetString("namespaces")
	nodePath, _ := cmd.Flags().GetString("nodes")
	if nsPath == "" && nodePath == "" {
		return fmt.Errorf("nothing to import: provide --namespaces and/or --nodes")
	}

	replace, _ := cmd.Flags().GetBool("replace")
	inv := model.Inventory{}
	if !replace {
		if existing, err := inventory.LoadSnapshot(cfg.Snapshot.Path); err == nil {
			inv = existing
		}
	}

	store := inventory.FromInventory(inv)

	if nsPath != "" {
		text, err := readInput(nsPath)
		if err != nil {
			return err
		}
		rows := inventory.ParseNamespaceRows(text)
		store.AddNamespaceRows(rows)
		fmt.Printf("Imported %d namespace rows\n", len(rows))
	}

	if nodePath != "" {
		text, err := readInput(nodePath)
		if err != nil {
			return err
		}
		rows := inventory.ParseNodeRows(text)
		store.AddNodeRows(rows)
		fmt.Printf("Imported %d node rows\n", len(rows))
	}

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

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input file: %w", err)
	}
	return string(data), nil
}
