package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/meshwise/meshcost/internal/aws"
	"github.com/meshwise/meshcost/internal/config"
	"github.com/meshwise/meshcost/internal/model"
)

type fakePricer struct {
	prices aws.MonthlyPrices
	err    error
	pairs  []aws.TypeRegion
}

func (f *fakePricer) LookupMonthlyPrices(ctx context.Context, pairs []aws.TypeRegion) (aws.MonthlyPrices, error) {
	f.pairs = pairs
	return f.prices, f.err
}

type fakeResolver struct {
	vcpus map[string]int32
}

func (f *fakeResolver) ResolveVCPUs(ctx context.Context, types []string) (map[string]int32, error) {
	return f.vcpus, nil
}

func testInventory() model.Inventory {
	return model.Inventory{
		Namespaces: []model.NamespaceRow{{
			Cluster: "prod", Namespace: "web",
			Pods: 20, SidecarProxies: 20,
			SidecarReqCPU: 10, SidecarLimitCPU: 20,
		}},
		Nodes: []model.NodeRow{
			{Cluster: "prod", Name: "n1", Type: "m5.xlarge", Region: "us-east-1", CPUs: 4},
			{Cluster: "prod", Name: "n2", Type: "m5.xlarge", Region: "us-east-1", CPUs: 4},
		},
	}
}

func newTestOrchestrator() (*Orchestrator, *bytes.Buffer) {
	var buf bytes.Buffer
	o := New(config.Default())
	o.Writer = &buf
	return o, &buf
}

func TestPriceBuckets_AutoPricesUnpriced(t *testing.T) {
	o, _ := newTestOrchestrator()
	pricer := &fakePricer{prices: aws.MonthlyPrices{
		"m5.xlarge": {"us-east-1": 140.16},
	}}
	o.Pricing = pricer

	buckets, err := o.PriceBuckets(context.Background(), testInventory())
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].MonthlyPrice != 140.16 {
		t.Errorf("bucket not auto-priced: %+v", buckets[0])
	}
	if len(pricer.pairs) != 1 {
		t.Errorf("expected 1 lookup pair, got %v", pricer.pairs)
	}
}

func TestPriceBuckets_SkipsAlreadyPriced(t *testing.T) {
	o, _ := newTestOrchestrator()
	pricer := &fakePricer{prices: aws.MonthlyPrices{
		"m5.xlarge": {"us-east-1": 999},
	}}
	o.Pricing = pricer

	inv := testInventory()
	inv.Prices = []model.InstancePrice{{Key: "m5.xlarge|us-east-1", MonthlyPrice: 120}}

	buckets, err := o.PriceBuckets(context.Background(), inv)
	if err != nil {
		t.Fatal(err)
	}
	if buckets[0].MonthlyPrice != 120 {
		t.Errorf("manual price overwritten: %+v", buckets[0])
	}
	if pricer.pairs != nil {
		t.Errorf("no lookup should happen when everything is priced: %v", pricer.pairs)
	}
}

func TestPriceBuckets_LookupFailureIsNonFatal(t *testing.T) {
	o, buf := newTestOrchestrator()
	o.Pricing = &fakePricer{err: errors.New("no credentials")}

	buckets, err := o.PriceBuckets(context.Background(), testInventory())
	if err != nil {
		t.Fatalf("lookup failure must not fail the pipeline: %v", err)
	}
	if buckets[0].MonthlyPrice != 0 {
		t.Errorf("bucket should stay unpriced: %+v", buckets[0])
	}
	if !strings.Contains(buf.String(), "Warning") {
		t.Errorf("expected a warning line, got %q", buf.String())
	}
}

func TestPriceBuckets_FillsMissingVCPUs(t *testing.T) {
	o, _ := newTestOrchestrator()
	o.VCPUs = &fakeResolver{vcpus: map[string]int32{"m5.xlarge": 4}}

	inv := testInventory()
	for i := range inv.Nodes {
		inv.Nodes[i].CPUs = 0
	}

	buckets, err := o.PriceBuckets(context.Background(), inv)
	if err != nil {
		t.Fatal(err)
	}
	if buckets[0].CPUs != 4 {
		t.Errorf("vCPU count not backfilled: %+v", buckets[0])
	}
}

func TestAnalyze_WritesReport(t *testing.T) {
	o, buf := newTestOrchestrator()
	o.Pricing = &fakePricer{prices: aws.MonthlyPrices{
		"m5.xlarge": {"us-east-1": 250},
	}}

	results, err := o.Analyze(context.Background(), testInventory())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if results.TotalCPUs != 8 {
		t.Errorf("total cpus: got %d, want 8", results.TotalCPUs)
	}
	out := buf.String()
	if !strings.Contains(out, "Sidecar") {
		t.Errorf("report missing from output:\n%s", out)
	}
}

func TestAnalyze_InsufficientData(t *testing.T) {
	o, _ := newTestOrchestrator()

	_, err := o.Analyze(context.Background(), model.Inventory{})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
