package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/pricing"

	"github.com/meshwise/meshcost/internal/model"
)

const credentialCheckTimeout = 3 * time.Second

var ErrAWSCredentials = errors.New("AWS credentials not found; set AWS_PROFILE, run 'aws sso login', or configure ~/.aws/credentials")

// TypeRegion identifies one priceable (instance type, region) pair.
type TypeRegion struct {
	Type   string
	Region string
}

// MonthlyPrices maps instance type -> region -> on-demand monthly price.
// A missing or zero entry means the pair could not be auto-priced and
// is left for manual entry; it is not a failure.
type MonthlyPrices map[string]map[string]float64

// Get returns the price for a pair, 0 when absent.
func (m MonthlyPrices) Get(instanceType, region string) float64 {
	return m[instanceType][region]
}

func (m MonthlyPrices) set(instanceType, region string, price float64) {
	if m[instanceType] == nil {
		m[instanceType] = make(map[string]float64)
	}
	m[instanceType][region] = price
}

// PricingProvider abstracts on-demand price lookup for instance
// type/region pairs.
type PricingProvider interface {
	LookupMonthlyPrices(ctx context.Context, pairs []TypeRegion) (MonthlyPrices, error)
}

// VCPUResolver fills per-instance core counts for instance types whose
// inventory rows carried none.
type VCPUResolver interface {
	ResolveVCPUs(ctx context.Context, instanceTypes []string) (map[string]int32, error)
}

// ec2API is a minimal interface for the EC2 calls we need.
type ec2API interface {
	DescribeInstanceTypes(ctx context.Context, params *ec2.DescribeInstanceTypesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceTypesOutput, error)
}

// pricingAPI is a minimal interface for the Pricing API calls we need.
type pricingAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// AWSProvider implements PricingProvider and VCPUResolver using the AWS
// SDK.
type AWSProvider struct {
	ec2Client     ec2API
	pricingClient pricingAPI
	region        string
	cache         *FileCache
	cacheTTL      time.Duration
}

// NewAWSProvider creates a provider using the default AWS SDK config
// chain. IMDS (EC2 metadata) is disabled to avoid long timeouts when
// running locally. On EC2, use environment variables or an instance
// profile via AWS_PROFILE.
func NewAWSProvider(ctx context.Context, region, cacheDir string, cacheTTL time.Duration) (*AWSProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithEC2IMDSClientEnableState(imds.ClientDisabled),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAWSCredentials, err)
	}

	// Verify credentials are available before making any API calls
	credCtx, cancel := context.WithTimeout(ctx, credentialCheckTimeout)
	defer cancel()
	if _, err := cfg.Credentials.Retrieve(credCtx); err != nil {
		return nil, ErrAWSCredentials
	}

	ec2Client := ec2.NewFromConfig(cfg)

	// Pricing API is only available in us-east-1
	pricingCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithEC2IMDSClientEnableState(imds.ClientDisabled),
	)
	if err != nil {
		return nil, fmt.Errorf("loading pricing config: %w", err)
	}
	pricingClient := pricing.NewFromConfig(pricingCfg)

	var cache *FileCache
	if cacheDir != "" {
		cache = NewFileCache(cacheDir)
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	return &AWSProvider{
		ec2Client:     ec2Client,
		pricingClient: pricingClient,
		region:        region,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}, nil
}

// Region returns the AWS region the provider was configured with.
func (p *AWSProvider) Region() string {
	return p.region
}

// Supports reports whether this provider can auto-price the given
// cloud. Only AWS; other clouds take manually entered prices.
func Supports(provider model.CloudProvider) bool {
	return provider == model.ProviderAWS
}
