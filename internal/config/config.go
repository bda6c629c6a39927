package config

import (
	"fmt"
	"os"
	"time"

	"github.com/meshwise/meshcost/internal/model"
)

// Config is the top-level configuration for meshcost. Viper decodes by
// the mapstructure tags; the yaml tags document the file shape.
type Config struct {
	Scenario   model.ScenarioParams `mapstructure:"scenario" yaml:"scenario"`
	Snapshot   SnapshotConfig       `mapstructure:"snapshot" yaml:"snapshot"`
	Pricing    PricingConfig        `mapstructure:"pricing" yaml:"pricing"`
	Kubernetes KubernetesConfig     `mapstructure:"kubernetes" yaml:"kubernetes"`
	Prometheus PrometheusConfig     `mapstructure:"prometheus" yaml:"prometheus"`
	Import     ImportConfig         `mapstructure:"import" yaml:"import"`
	Output     OutputConfig         `mapstructure:"output" yaml:"output"`
}

// SnapshotConfig locates the inventory snapshot file the commands
// exchange.
type SnapshotConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type PricingConfig struct {
	// Region used for AWS client configuration; individual buckets
	// carry their own region for the lookup itself.
	Region   string        `mapstructure:"region" yaml:"region"`
	CacheDir string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

type KubernetesConfig struct {
	Kubeconfig string `mapstructure:"kubeconfig" yaml:"kubeconfig"`
	Context    string `mapstructure:"context" yaml:"context"`
}

type PrometheusConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ImportConfig points at the bulk-import service that downloads and
// parses diagnostic bundles remotely.
type ImportConfig struct {
	ServiceURL   string        `mapstructure:"service_url" yaml:"service_url"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Scenario: model.DefaultScenarioParams(),
		Snapshot: SnapshotConfig{
			Path: "meshcost-inventory.json",
		},
		Pricing: PricingConfig{
			Region:   detectRegion(),
			CacheTTL: 24 * time.Hour,
		},
		Prometheus: PrometheusConfig{
			Timeout: 60 * time.Second,
		},
		Import: ImportConfig{
			PollInterval: 5 * time.Second,
			Timeout:      10 * time.Minute,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	s := c.Scenario
	if s.WaypointReplicas < 1 {
		return fmt.Errorf("waypoint_replicas must be at least 1, got %d", s.WaypointReplicas)
	}
	if s.ZtunnelTax < 0 {
		return fmt.Errorf("ztunnel_tax must be non-negative, got %v", s.ZtunnelTax)
	}
	if s.FleetRPS < 0 {
		return fmt.Errorf("fleet_rps must be non-negative, got %v", s.FleetRPS)
	}
	if s.DiscountPct < 0 || s.DiscountPct > 100 {
		return fmt.Errorf("discount_pct must be between 0 and 100, got %v", s.DiscountPct)
	}
	validProviders := map[model.CloudProvider]bool{
		model.ProviderAWS: true, model.ProviderGCP: true,
		model.ProviderAzure: true, model.ProviderOther: true,
	}
	if !validProviders[s.CloudProvider] {
		return fmt.Errorf("cloud_provider must be aws, gcp, azure, or other, got %q", s.CloudProvider)
	}
	validFormats := map[string]bool{"table": true, "json": true, "markdown": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, or markdown, got %q", c.Output.Format)
	}
	if c.Import.PollInterval <= 0 {
		c.Import.PollInterval = 5 * time.Second
	}
	return nil
}

// detectRegion checks environment variables for the AWS region.
func detectRegion() string {
	if r := os.Getenv("AWS_REGION"); r != "" {
		return r
	}
	if r := os.Getenv("AWS_DEFAULT_REGION"); r != "" {
		return r
	}
	return "us-east-1"
}
