package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type fakeEC2API struct {
	vcpus map[string]int32
	calls int
}

func (f *fakeEC2API) DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error) {
	f.calls++
	out := &ec2.DescribeInstanceTypesOutput{}
	for _, it := range params.InstanceTypes {
		n, ok := f.vcpus[string(it)]
		if !ok {
			continue
		}
		out.InstanceTypes = append(out.InstanceTypes, ec2types.InstanceTypeInfo{
			InstanceType: it,
			VCpuInfo:     &ec2types.VCpuInfo{DefaultVCpus: awssdk.Int32(n)},
		})
	}
	return out, nil
}

func TestResolveVCPUs(t *testing.T) {
	fake := &fakeEC2API{vcpus: map[string]int32{
		"m5.xlarge":  4,
		"c5.2xlarge": 8,
	}}
	p := &AWSProvider{ec2Client: fake}

	got, err := p.ResolveVCPUs(context.Background(), []string{"m5.xlarge", "c5.2xlarge", "made.up"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["m5.xlarge"] != 4 || got["c5.2xlarge"] != 8 {
		t.Errorf("unexpected vcpu map: %v", got)
	}
	if _, ok := got["made.up"]; ok {
		t.Error("unknown type should be absent, not zero")
	}
}

func TestResolveVCPUs_Batches(t *testing.T) {
	types := make([]string, 0, describeBatchSize+1)
	vcpus := make(map[string]int32, describeBatchSize+1)
	for i := 0; i < describeBatchSize+1; i++ {
		name := "t3.size" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		types = append(types, name)
		vcpus[name] = 2
	}

	fake := &fakeEC2API{vcpus: vcpus}
	p := &AWSProvider{ec2Client: fake}

	got, err := p.ResolveVCPUs(context.Background(), types)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(types) {
		t.Errorf("resolved %d of %d types", len(got), len(types))
	}
	if fake.calls != 2 {
		t.Errorf("expected 2 batched calls, got %d", fake.calls)
	}
}
