package model

// ScenarioCosts holds the cores, annual cost, savings, and reduction
// figures for one ambient scenario, on both accounting bases.
// Reductions are fractions (0.42 = 42%). Invariants maintained by the
// cost model: savings = sidecar cost - scenario cost exactly, and
// reduction = 1 - scenario cores / sidecar cores when sidecar cores > 0.
type ScenarioCosts struct {
	CoresReserved float64 `json:"cores_reserved"`
	CoresLimit    float64 `json:"cores_limit"`

	CostReserved float64 `json:"annual_cost_reserved"`
	CostLimit    float64 `json:"annual_cost_limit"`

	SavingsReserved float64 `json:"annual_savings_reserved"`
	SavingsLimit    float64 `json:"annual_savings_limit"`

	ReductionReserved float64 `json:"reduction_reserved"`
	ReductionLimit    float64 `json:"reduction_limit"`
}

// ROIYear is one row of the return-on-investment schedule.
type ROIYear struct {
	Year          int     `json:"year"`
	CumInvestment float64 `json:"cumulative_investment"`
	CumSavings    float64 `json:"cumulative_savings"`
	ROI           float64 `json:"roi"` // cumSavings / cumInvestment
}

// Breakeven is the point where cumulative savings cover the platform
// investment. Never is set when annual savings are zero or negative;
// Months is only meaningful when Never is false.
type Breakeven struct {
	Never  bool    `json:"never"`
	Months float64 `json:"months,omitempty"`
}

// BreakevenAfter returns a breakeven at the given number of months.
func BreakevenAfter(months float64) Breakeven {
	return Breakeven{Months: months}
}

// BreakevenNever is the "savings never cover the investment" result.
func BreakevenNever() Breakeven {
	return Breakeven{Never: true}
}

// Results is the complete computed cost comparison. It is recomputed in
// full on every input change and never partially mutated. Every numeric
// field is finite whenever Results is non-nil.
type Results struct {
	// Inventory totals
	TotalClusters          int `json:"total_clusters"`
	TotalNodes             int `json:"total_nodes"`
	TotalNamespaces        int `json:"total_namespaces"`
	TotalPods              int `json:"total_pods"`
	TotalServices          int `json:"total_services"`
	NamespacesWithSidecars int `json:"namespaces_with_sidecars"`

	// Pricing aggregation
	TotalCPUs             int     `json:"total_cpus"`
	TotalMonthlySpend     float64 `json:"total_monthly_spend"`
	AvgCoresPerInstance   float64 `json:"avg_cores_per_instance"`
	AvgCostPerCoreMonthly float64 `json:"avg_cost_per_core_monthly"`
	AnnualCostPerCore     float64 `json:"annual_cost_per_core"`

	// Sidecar baseline (current state)
	SidecarCoresReserved float64 `json:"sidecar_cores_reserved"`
	SidecarCoresLimit    float64 `json:"sidecar_cores_limit"`
	SidecarCostReserved  float64 `json:"sidecar_annual_cost_reserved"`
	SidecarCostLimit     float64 `json:"sidecar_annual_cost_limit"`

	// Derived model inputs
	AvgPodsPerNamespace float64 `json:"avg_pods_per_namespace"`
	EnvoyReduction      float64 `json:"envoy_reduction"` // fraction
	ZtunnelCores        float64 `json:"ztunnel_cores"`

	// Ambient scenario A: one waypoint deployment per namespace
	Waypoints ScenarioCosts `json:"waypoints"`

	// Ambient scenario B: fleet-wide shared waypoints, sized by
	// throughput. Nil when the scenario is not applicable (no fleet RPS
	// supplied), which is distinct from computed-to-zero savings.
	SharedWaypoints *ScenarioCosts `json:"shared_waypoints,omitempty"`

	// 3-year ROI schedule for the waypoint-per-namespace scenario,
	// reserved basis.
	ROISchedule []ROIYear `json:"roi_schedule"`
	Breakeven   Breakeven `json:"breakeven"`
}

// HasSharedScenario reports whether the shared-waypoint scenario was
// computed.
func (r *Results) HasSharedScenario() bool {
	return r.SharedWaypoints != nil
}
