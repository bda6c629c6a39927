package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/meshwise/meshcost/internal/model"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Scenario.WaypointReplicas != 2 {
		t.Errorf("default waypoint replicas: got %d", cfg.Scenario.WaypointReplicas)
	}
	if cfg.Scenario.ZtunnelTax != 0.25 {
		t.Errorf("default ztunnel tax: got %v", cfg.Scenario.ZtunnelTax)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("default output format: got %q", cfg.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero waypoint replicas",
			mutate:  func(c *Config) { c.Scenario.WaypointReplicas = 0 },
			wantErr: "waypoint_replicas",
		},
		{
			name:    "negative ztunnel tax",
			mutate:  func(c *Config) { c.Scenario.ZtunnelTax = -0.1 },
			wantErr: "ztunnel_tax",
		},
		{
			name:    "negative fleet rps",
			mutate:  func(c *Config) { c.Scenario.FleetRPS = -1 },
			wantErr: "fleet_rps",
		},
		{
			name:    "discount above 100",
			mutate:  func(c *Config) { c.Scenario.DiscountPct = 101 },
			wantErr: "discount_pct",
		},
		{
			name:    "unknown cloud provider",
			mutate:  func(c *Config) { c.Scenario.CloudProvider = "digitalocean" },
			wantErr: "cloud_provider",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "yaml" },
			wantErr: "output format",
		},
		{
			name:   "azure is accepted",
			mutate: func(c *Config) { c.Scenario.CloudProvider = model.ProviderAzure },
		},
		{
			name:   "full discount is accepted",
			mutate: func(c *Config) { c.Scenario.DiscountPct = 100 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

// TestLoadFromFile runs the same viper path the root command uses and
// asserts the snake_case keys actually land on the struct fields; the
// scenario knobs are useless if the file or flag values never decode.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshcost.yaml")
	content := `
scenario:
  customer_name: acme
  cloud_provider: gcp
  waypoint_replicas: 7
  ztunnel_tax: 0.5
  fleet_rps: 5000
  discount_pct: 30
snapshot:
  path: /tmp/inv.json
pricing:
  cache_dir: /tmp/cache
  cache_ttl: 1h
import:
  service_url: http://importer.internal
  poll_interval: 2s
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("reading config: %v", err)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshaling config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}

	s := cfg.Scenario
	if s.CustomerName != "acme" || s.CloudProvider != model.ProviderGCP {
		t.Errorf("identity fields not decoded: %+v", s)
	}
	if s.WaypointReplicas != 7 {
		t.Errorf("waypoint_replicas not decoded: got %d, want 7", s.WaypointReplicas)
	}
	if s.ZtunnelTax != 0.5 {
		t.Errorf("ztunnel_tax not decoded: got %v, want 0.5", s.ZtunnelTax)
	}
	if s.FleetRPS != 5000 {
		t.Errorf("fleet_rps not decoded: got %v, want 5000", s.FleetRPS)
	}
	if s.DiscountPct != 30 {
		t.Errorf("discount_pct not decoded: got %v, want 30", s.DiscountPct)
	}

	if cfg.Snapshot.Path != "/tmp/inv.json" {
		t.Errorf("snapshot path: got %q", cfg.Snapshot.Path)
	}
	if cfg.Pricing.CacheDir != "/tmp/cache" || cfg.Pricing.CacheTTL != time.Hour {
		t.Errorf("pricing not decoded: %+v", cfg.Pricing)
	}
	if cfg.Import.ServiceURL != "http://importer.internal" || cfg.Import.PollInterval != 2*time.Second {
		t.Errorf("import not decoded: %+v", cfg.Import)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("output format: got %q", cfg.Output.Format)
	}
}

func TestLoadFromFile_UnsetKeysKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshcost.yaml")
	if err := os.WriteFile(path, []byte("scenario:\n  fleet_rps: 1200\n"), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Scenario.FleetRPS != 1200 {
		t.Errorf("fleet_rps not decoded: got %v", cfg.Scenario.FleetRPS)
	}
	if cfg.Scenario.WaypointReplicas != 2 || cfg.Scenario.ZtunnelTax != 0.25 {
		t.Errorf("defaults clobbered by partial file: %+v", cfg.Scenario)
	}
}

func TestValidate_FixesPollInterval(t *testing.T) {
	cfg := Default()
	cfg.Import.PollInterval = 0
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Import.PollInterval != 5*time.Second {
		t.Errorf("poll interval not defaulted: %v", cfg.Import.PollInterval)
	}
}
