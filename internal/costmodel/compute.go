// Package costmodel is the deterministic comparison engine: given the
// scenario parameters, namespace and node inventory, and priced
// instance buckets, it produces a complete Results aggregate comparing
// sidecar-mesh infrastructure cost against the ambient alternatives.
//
// Everything here is a pure function over its inputs. Identical inputs
// produce bit-identical outputs: sums run in slice order and no map
// iteration feeds a numeric result. Every division guards a zero
// denominator with a defined fallback instead of an error, so no
// Results field is ever NaN or infinite.
package costmodel

import "github.com/meshwise/meshcost/internal/model"

// SharedWaypointRPSPerCore is the throughput assumption for the
// shared-waypoint scenario: one gateway core serves 3,000 requests/sec.
// Held as a constant pending a product decision on making it tunable.
const SharedWaypointRPSPerCore = 3000.0

// Compute runs the full cost model. It returns nil when either row set
// is empty: there is not enough data to say anything, and a zeroed
// report with a misleading 0% reduction would be worse than no report.
func Compute(
	params model.ScenarioParams,
	namespaces []model.NamespaceRow,
	nodes []model.NodeRow,
	prices []model.InstancePrice,
) *model.Results {
	if len(namespaces) == 0 || len(nodes) == 0 {
		return nil
	}

	r := &model.Results{
		TotalNodes:      len(nodes),
		TotalNamespaces: len(namespaces),
	}

	// Inventory totals
	clusters := make(map[string]struct{})
	for _, n := range nodes {
		clusters[n.Cluster] = struct{}{}
	}
	for _, ns := range namespaces {
		if _, ok := clusters[ns.Cluster]; !ok {
			clusters[ns.Cluster] = struct{}{}
		}
	}
	r.TotalClusters = len(clusters)

	for _, ns := range namespaces {
		r.TotalPods += ns.Pods
		r.TotalServices += ns.Services
		if ns.SidecarProxies > 0 {
			r.NamespacesWithSidecars++
		}
	}
	// Without any sidecar counts, treat every namespace as meshed so
	// the per-namespace averages below stay well-defined.
	if r.NamespacesWithSidecars == 0 {
		r.NamespacesWithSidecars = r.TotalNamespaces
	}

	// Pricing aggregation
	for _, p := range prices {
		r.TotalCPUs += p.CPUs * p.Count
		r.TotalMonthlySpend += p.MonthlyPrice * float64(p.Count)
	}
	r.AvgCoresPerInstance = safeDiv(float64(r.TotalCPUs), float64(r.TotalNodes))
	if r.TotalCPUs > 0 {
		r.AvgCostPerCoreMonthly = r.TotalMonthlySpend / float64(r.TotalCPUs) *
			(1 - params.DiscountPct/100)
	}
	r.AnnualCostPerCore = r.AvgCostPerCoreMonthly * 12

	// Sidecar baseline
	for _, ns := range namespaces {
		r.SidecarCoresReserved += ns.SidecarReqCPU
		r.SidecarCoresLimit += ns.SidecarLimitCPU
	}
	r.SidecarCostReserved = r.SidecarCoresReserved * r.AnnualCostPerCore
	r.SidecarCostLimit = r.SidecarCoresLimit * r.AnnualCostPerCore

	// Replacing one proxy per pod with a fixed number of waypoint
	// replicas per namespace removes this fraction of the envoy fleet.
	r.AvgPodsPerNamespace = safeDiv(float64(r.TotalPods), float64(r.NamespacesWithSidecars))
	if r.AvgPodsPerNamespace > 0 {
		r.EnvoyReduction = (r.AvgPodsPerNamespace - float64(params.WaypointReplicas)) /
			r.AvgPodsPerNamespace
	}

	// Flat per-node data-plane tax, charged in every ambient scenario.
	r.ZtunnelCores = float64(r.TotalNodes) * params.ZtunnelTax

	r.Waypoints = waypointScenario(r, r.EnvoyReduction)

	if params.FleetRPS > 0 {
		shared := sharedScenario(r, params.FleetRPS)
		r.SharedWaypoints = &shared
	}

	r.ROISchedule, r.Breakeven = ProjectROI(AnnualPlatformInvestment, r.Waypoints.SavingsReserved)

	return r
}

// waypointScenario prices ambient scenario A: waypoints per namespace.
// For each basis the sidecar fleet shrinks by the envoy reduction and
// pays the ztunnel tax back.
func waypointScenario(r *model.Results, envoyReduction float64) model.ScenarioCosts {
	coresReserved := r.SidecarCoresReserved -
		(r.SidecarCoresReserved*envoyReduction - r.ZtunnelCores)
	coresLimit := r.SidecarCoresLimit -
		(r.SidecarCoresLimit*envoyReduction - r.ZtunnelCores)
	return scenarioCosts(r, coresReserved, coresLimit)
}

// sharedScenario prices ambient scenario B: a fleet-wide shared waypoint
// pool sized purely by throughput. Reserved and limit collapse to the
// same core count because the pool is request-bound, not
// reservation-bound.
func sharedScenario(r *model.Results, fleetRPS float64) model.ScenarioCosts {
	cores := r.ZtunnelCores + fleetRPS/SharedWaypointRPSPerCore
	return scenarioCosts(r, cores, cores)
}

// scenarioCosts derives cost, savings, and reduction for a scenario
// from its core counts. Savings are exactly the sidecar cost minus the
// scenario cost and the reduction is exactly 1 - scenario/sidecar
// cores; nothing is estimated independently, so the figures can never
// disagree with each other.
func scenarioCosts(r *model.Results, coresReserved, coresLimit float64) model.ScenarioCosts {
	sc := model.ScenarioCosts{
		CoresReserved: coresReserved,
		CoresLimit:    coresLimit,
		CostReserved:  coresReserved * r.AnnualCostPerCore,
		CostLimit:     coresLimit * r.AnnualCostPerCore,
	}
	sc.SavingsReserved = r.SidecarCostReserved - sc.CostReserved
	sc.SavingsLimit = r.SidecarCostLimit - sc.CostLimit
	if r.SidecarCoresReserved > 0 {
		sc.ReductionReserved = 1 - sc.CoresReserved/r.SidecarCoresReserved
	}
	if r.SidecarCoresLimit > 0 {
		sc.ReductionLimit = 1 - sc.CoresLimit/r.SidecarCoresLimit
	}
	return sc
}

// safeDiv divides, substituting 0 for a zero denominator.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
