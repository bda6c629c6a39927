package model

// CloudProvider identifies where the cluster nodes run. Only AWS has an
// automatic pricing backend; the others take manually entered prices.
type CloudProvider string

const (
	ProviderAWS   CloudProvider = "aws"
	ProviderGCP   CloudProvider = "gcp"
	ProviderAzure CloudProvider = "azure"
	ProviderOther CloudProvider = "other"
)

// ScenarioParams are the user-supplied modeling knobs for one cost
// comparison run. The mapstructure tags are what viper decodes by; the
// yaml tags only document the config file shape.
type ScenarioParams struct {
	CustomerName  string        `mapstructure:"customer_name" yaml:"customer_name" json:"customer_name"`
	CloudProvider CloudProvider `mapstructure:"cloud_provider" yaml:"cloud_provider" json:"cloud_provider"`

	// WaypointReplicas is the number of ambient gateway replicas assumed
	// per namespace (>= 1).
	WaypointReplicas int `mapstructure:"waypoint_replicas" yaml:"waypoint_replicas" json:"waypoint_replicas"`

	// ZtunnelTax is the cores reserved per node for the ambient
	// data-plane daemon, charged regardless of scenario.
	ZtunnelTax float64 `mapstructure:"ztunnel_tax" yaml:"ztunnel_tax" json:"ztunnel_tax"`

	// FleetRPS is the aggregate request rate across the fleet. A value
	// > 0 enables the shared-waypoint scenario.
	FleetRPS float64 `mapstructure:"fleet_rps" yaml:"fleet_rps" json:"fleet_rps"`

	// DiscountPct is the negotiated discount off on-demand pricing,
	// 0-100.
	DiscountPct float64 `mapstructure:"discount_pct" yaml:"discount_pct" json:"discount_pct"`
}

// DefaultScenarioParams returns the starting scenario assumptions.
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		CloudProvider:    ProviderAWS,
		WaypointReplicas: 2,
		ZtunnelTax:       0.25,
		DiscountPct:      0,
	}
}
