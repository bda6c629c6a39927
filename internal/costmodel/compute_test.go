package costmodel

import (
	"math"
	"reflect"
	"testing"

	"github.com/meshwise/meshcost/internal/model"
)

const eps = 1e-9

func baseParams() model.ScenarioParams {
	return model.ScenarioParams{
		CloudProvider:    model.ProviderAWS,
		WaypointReplicas: 3,
		ZtunnelTax:       0.3,
		FleetRPS:         0,
		DiscountPct:      0,
	}
}

func meshedNamespace() model.NamespaceRow {
	return model.NamespaceRow{
		Cluster:         "prod",
		Namespace:       "payments",
		Services:        5,
		Pods:            20,
		Containers:      40,
		SidecarProxies:  20,
		SidecarReqCPU:   10,
		SidecarLimitCPU: 20,
	}
}

func m5Nodes(n int) []model.NodeRow {
	nodes := make([]model.NodeRow, n)
	for i := range nodes {
		nodes[i] = model.NodeRow{
			Cluster: "prod",
			Name:    "node",
			Type:    "m5.xlarge",
			Region:  "us-east-1",
			CPUs:    4,
		}
	}
	return nodes
}

func m5Prices(monthly float64) []model.InstancePrice {
	return []model.InstancePrice{{
		Key:          "m5.xlarge|us-east-1",
		Type:         "m5.xlarge",
		Region:       "us-east-1",
		CPUs:         4,
		Count:        5,
		MonthlyPrice: monthly,
	}}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCompute_WorkedExample(t *testing.T) {
	r := Compute(baseParams(), []model.NamespaceRow{meshedNamespace()}, m5Nodes(5), m5Prices(100))
	if r == nil {
		t.Fatal("expected results")
	}

	if r.TotalCPUs != 20 {
		t.Errorf("TotalCPUs = %d, want 20", r.TotalCPUs)
	}
	approx(t, "AvgCostPerCoreMonthly", r.AvgCostPerCoreMonthly, 25)
	approx(t, "AnnualCostPerCore", r.AnnualCostPerCore, 300)
	approx(t, "SidecarCostReserved", r.SidecarCostReserved, 3000)
	approx(t, "ZtunnelCores", r.ZtunnelCores, 1.5)

	// 20 pods in one meshed namespace, 3 waypoint replicas
	approx(t, "AvgPodsPerNamespace", r.AvgPodsPerNamespace, 20)
	approx(t, "EnvoyReduction", r.EnvoyReduction, 0.85)

	// reserved: 10 - (10*0.85 - 1.5) = 3 cores
	approx(t, "Waypoints.CoresReserved", r.Waypoints.CoresReserved, 3)
	approx(t, "Waypoints.CostReserved", r.Waypoints.CostReserved, 900)
	approx(t, "Waypoints.SavingsReserved", r.Waypoints.SavingsReserved, 2100)
	approx(t, "Waypoints.ReductionReserved", r.Waypoints.ReductionReserved, 0.7)

	// limit: 20 - (20*0.85 - 1.5) = 4.5 cores
	approx(t, "Waypoints.CoresLimit", r.Waypoints.CoresLimit, 4.5)
	approx(t, "Waypoints.ReductionLimit", r.Waypoints.ReductionLimit, 0.775)

	if r.SharedWaypoints != nil {
		t.Error("shared scenario should be absent when fleet RPS is 0")
	}
}

func TestCompute_NilOnEmpty(t *testing.T) {
	ns := []model.NamespaceRow{meshedNamespace()}
	nodes := m5Nodes(5)

	if Compute(baseParams(), nil, nodes, nil) != nil {
		t.Error("expected nil without namespace rows")
	}
	if Compute(baseParams(), ns, nil, nil) != nil {
		t.Error("expected nil without node rows")
	}
	if Compute(baseParams(), ns, nodes, nil) == nil {
		t.Error("expected results with both row sets, even unpriced")
	}
}

func TestCompute_Deterministic(t *testing.T) {
	params := baseParams()
	params.FleetRPS = 4500
	ns := []model.NamespaceRow{meshedNamespace(), {Cluster: "stage", Namespace: "web", Pods: 7}}
	nodes := m5Nodes(5)
	prices := m5Prices(100)

	first := Compute(params, ns, nodes, prices)
	for i := 0; i < 10; i++ {
		again := Compute(params, ns, nodes, prices)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestCompute_SharedScenario(t *testing.T) {
	params := baseParams()
	params.FleetRPS = 6000 // 2 waypoint cores at 3000 RPS/core

	r := Compute(params, []model.NamespaceRow{meshedNamespace()}, m5Nodes(5), m5Prices(100))
	if r.SharedWaypoints == nil {
		t.Fatal("expected shared scenario when fleet RPS > 0")
	}

	sc := *r.SharedWaypoints
	// ztunnel 1.5 + 6000/3000 = 3.5 cores, identical on both bases
	approx(t, "CoresReserved", sc.CoresReserved, 3.5)
	approx(t, "CoresLimit", sc.CoresLimit, 3.5)
	approx(t, "CostReserved", sc.CostReserved, 1050)
	approx(t, "SavingsReserved", sc.SavingsReserved, 1950)
	approx(t, "ReductionReserved", sc.ReductionReserved, 0.65)
	approx(t, "ReductionLimit", sc.ReductionLimit, 1-3.5/20)
}

func TestCompute_SavingsAndReductionIdentities(t *testing.T) {
	params := baseParams()
	params.FleetRPS = 12000
	params.DiscountPct = 15

	ns := []model.NamespaceRow{
		meshedNamespace(),
		{Cluster: "prod", Namespace: "batch", Pods: 50, SidecarProxies: 10, SidecarReqCPU: 4.5, SidecarLimitCPU: 9},
	}
	r := Compute(params, ns, m5Nodes(8), m5Prices(137.5))
	if r == nil {
		t.Fatal("expected results")
	}

	scenarios := []model.ScenarioCosts{r.Waypoints, *r.SharedWaypoints}
	for i, sc := range scenarios {
		if got := r.SidecarCostReserved - sc.CostReserved; math.Abs(sc.SavingsReserved-got) > eps {
			t.Errorf("scenario %d: reserved savings %v != sidecar-scenario %v", i, sc.SavingsReserved, got)
		}
		if got := r.SidecarCostLimit - sc.CostLimit; math.Abs(sc.SavingsLimit-got) > eps {
			t.Errorf("scenario %d: limit savings %v != sidecar-scenario %v", i, sc.SavingsLimit, got)
		}
		if got := 1 - sc.CoresReserved/r.SidecarCoresReserved; math.Abs(sc.ReductionReserved-got) > eps {
			t.Errorf("scenario %d: reserved reduction %v != identity %v", i, sc.ReductionReserved, got)
		}
		if got := 1 - sc.CoresLimit/r.SidecarCoresLimit; math.Abs(sc.ReductionLimit-got) > eps {
			t.Errorf("scenario %d: limit reduction %v != identity %v", i, sc.ReductionLimit, got)
		}
	}
}

func TestCompute_ZeroSidecarCoresReportsZeroReduction(t *testing.T) {
	ns := []model.NamespaceRow{{Cluster: "c", Namespace: "n", Pods: 10}}
	r := Compute(baseParams(), ns, m5Nodes(2), m5Prices(100))
	if r == nil {
		t.Fatal("expected results")
	}
	if r.Waypoints.ReductionReserved != 0 || r.Waypoints.ReductionLimit != 0 {
		t.Errorf("reduction should be 0 with no sidecar cores, got %v / %v",
			r.Waypoints.ReductionReserved, r.Waypoints.ReductionLimit)
	}
	// ztunnel tax still shows up as scenario cores
	approx(t, "CoresReserved", r.Waypoints.CoresReserved, r.ZtunnelCores)
}

func TestCompute_AllZeroInputsStayFinite(t *testing.T) {
	params := model.ScenarioParams{CloudProvider: model.ProviderOther, WaypointReplicas: 1}
	ns := []model.NamespaceRow{{}}
	nodes := []model.NodeRow{{}}

	r := Compute(params, ns, nodes, nil)
	if r == nil {
		t.Fatal("expected results for single all-zero rows")
	}

	checkFinite(t, reflect.ValueOf(*r), "Results")
}

// checkFinite walks every float field and fails on NaN or Inf.
func checkFinite(t *testing.T, v reflect.Value, path string) {
	t.Helper()
	switch v.Kind() {
	case reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("%s is not finite: %v", path, f)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			checkFinite(t, v.Field(i), path+"."+v.Type().Field(i).Name)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			checkFinite(t, v.Index(i), path)
		}
	case reflect.Ptr:
		if !v.IsNil() {
			checkFinite(t, v.Elem(), path)
		}
	}
}

func TestCompute_DiscountAppliesToCorePrice(t *testing.T) {
	params := baseParams()
	params.DiscountPct = 20

	r := Compute(params, []model.NamespaceRow{meshedNamespace()}, m5Nodes(5), m5Prices(100))
	approx(t, "AvgCostPerCoreMonthly", r.AvgCostPerCoreMonthly, 20)
	approx(t, "AnnualCostPerCore", r.AnnualCostPerCore, 240)
}

func TestCompute_NamespacesWithSidecarsFallback(t *testing.T) {
	ns := []model.NamespaceRow{
		{Cluster: "c", Namespace: "a", Pods: 10},
		{Cluster: "c", Namespace: "b", Pods: 20},
	}
	r := Compute(baseParams(), ns, m5Nodes(1), nil)
	if r.NamespacesWithSidecars != 2 {
		t.Errorf("expected fallback to total namespaces, got %d", r.NamespacesWithSidecars)
	}
	approx(t, "AvgPodsPerNamespace", r.AvgPodsPerNamespace, 15)
}

func TestCompute_CountsDistinctClusters(t *testing.T) {
	ns := []model.NamespaceRow{
		{Cluster: "east", Namespace: "a", SidecarProxies: 1, SidecarReqCPU: 1},
		{Cluster: "west", Namespace: "a", SidecarProxies: 1, SidecarReqCPU: 1},
	}
	nodes := []model.NodeRow{
		{Cluster: "east", Name: "n1", Type: "m5.xlarge", Region: "us-east-1", CPUs: 4},
		{Cluster: "central", Name: "n2", Type: "m5.xlarge", Region: "us-central-1", CPUs: 4},
	}
	r := Compute(baseParams(), ns, nodes, nil)
	if r.TotalClusters != 3 {
		t.Errorf("TotalClusters = %d, want 3", r.TotalClusters)
	}
}
