package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshwise/meshcost/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meshcost",
	Short: "Infrastructure cost calculator for sidecar vs. ambient mesh",
	Long: `Meshcost turns cluster inventory (namespaces, nodes) and instance
pricing into a deterministic cost comparison between a sidecar proxy
mesh and ambient alternatives, plus a multi-year ROI projection.

Inventory comes from pasted spreadsheet exports, diagnostic bundle
imports, or live collection from a cluster.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: meshcost.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	// Global flags that map to config. Flag defaults mirror
	// config.Default() so an unchanged flag never shadows a config
	// file value through the viper binding.
	d := config.Default()
	rootCmd.PersistentFlags().String("snapshot", d.Snapshot.Path, "inventory snapshot file")
	rootCmd.PersistentFlags().String("customer", "", "customer name for reports")
	rootCmd.PersistentFlags().String("cloud-provider", string(d.Scenario.CloudProvider), "cloud provider: aws, gcp, azure, other")
	rootCmd.PersistentFlags().Int("waypoint-replicas", d.Scenario.WaypointReplicas, "ambient gateway replicas per namespace")
	rootCmd.PersistentFlags().Float64("ztunnel-tax", d.Scenario.ZtunnelTax, "cores reserved per node for ztunnel")
	rootCmd.PersistentFlags().Float64("fleet-rps", 0, "fleet request rate; > 0 enables the shared-waypoint scenario")
	rootCmd.PersistentFlags().Float64("discount", 0, "discount off on-demand pricing (0-100)")
	rootCmd.PersistentFlags().String("region", d.Pricing.Region, "AWS region for the pricing client")

	_ = viper.BindPFlag("snapshot.path", rootCmd.PersistentFlags().Lookup("snapshot"))
	_ = viper.BindPFlag("scenario.customer_name", rootCmd.PersistentFlags().Lookup("customer"))
	_ = viper.BindPFlag("scenario.cloud_provider", rootCmd.PersistentFlags().Lookup("cloud-provider"))
	_ = viper.BindPFlag("scenario.waypoint_replicas", rootCmd.PersistentFlags().Lookup("waypoint-replicas"))
	_ = viper.BindPFlag("scenario.ztunnel_tax", rootCmd.PersistentFlags().Lookup("ztunnel-tax"))
	_ = viper.BindPFlag("scenario.fleet_rps", rootCmd.PersistentFlags().Lookup("fleet-rps"))
	_ = viper.BindPFlag("scenario.discount_pct", rootCmd.PersistentFlags().Lookup("discount"))
	_ = viper.BindPFlag("pricing.region", rootCmd.PersistentFlags().Lookup("region"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("meshcost")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.meshcost")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("MESHCOST")
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return cfg.Validate()
}
