package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// describeBatchSize is the EC2 DescribeInstanceTypes per-call limit.
const describeBatchSize = 100

// ResolveVCPUs looks up the default vCPU count for each instance type.
// Node exports from some bundles omit core counts; the pricing buckets
// built from them would otherwise price against 0 CPUs. Unknown types
// are absent from the result rather than an error.
func (p *AWSProvider) ResolveVCPUs(ctx context.Context, instanceTypes []string) (map[string]int32, error) {
	vcpus := make(map[string]int32, len(instanceTypes))

	for start := 0; start < len(instanceTypes); start += describeBatchSize {
		end := start + describeBatchSize
		if end > len(instanceTypes) {
			end = len(instanceTypes)
		}

		batch := make([]ec2types.InstanceType, 0, end-start)
		for _, t := range instanceTypes[start:end] {
			batch = append(batch, ec2types.InstanceType(t))
		}

		var nextToken *string
		for {
			// MaxResults cannot be combined with an explicit
			// InstanceTypes list.
			output, err := p.ec2Client.DescribeInstanceTypes(ctx, &ec2.DescribeInstanceTypesInput{
				InstanceTypes: batch,
				NextToken:     nextToken,
			})
			if err != nil {
				return nil, fmt.Errorf("describing instance types: %w", err)
			}

			for _, it := range output.InstanceTypes {
				if it.VCpuInfo != nil && it.VCpuInfo.DefaultVCpus != nil {
					vcpus[string(it.InstanceType)] = *it.VCpuInfo.DefaultVCpus
				}
			}

			if output.NextToken == nil {
				break
			}
			nextToken = output.NextToken
		}
	}

	return vcpus, nil
}
