package aws

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"github.com/meshwise/meshcost/internal/model"
)

var errNoPriceData = errors.New("no pricing data returned")

// LookupMonthlyPrices resolves on-demand monthly prices for the given
// (type, region) pairs via the AWS Pricing API. Pairs that cannot be
// priced are simply absent from the result; the caller leaves their
// buckets at 0 for manual entry. Only a total API failure (e.g. bad
// credentials) returns an error.
func (p *AWSProvider) LookupMonthlyPrices(ctx context.Context, pairs []TypeRegion) (MonthlyPrices, error) {
	prices := make(MonthlyPrices)

	for _, pair := range pairs {
		if pair.Type == "" || pair.Region == "" {
			continue
		}

		cacheKey := "od-" + pair.Type + "-" + pair.Region
		var monthly float64
		if p.cache != nil && p.cache.Get(cacheKey, p.cacheTTL, &monthly) {
			prices.set(pair.Type, pair.Region, monthly)
			continue
		}

		hourly, err := p.fetchOnDemandHourly(ctx, pair)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue // unpriced, not fatal
		}
		if hourly <= 0 {
			continue
		}

		monthly = hourly * model.HoursPerMonth
		prices.set(pair.Type, pair.Region, monthly)
		if p.cache != nil {
			_ = p.cache.Set(cacheKey, monthly)
		}
	}

	return prices, nil
}

// fetchOnDemandHourly queries the Pricing API for the Linux on-demand
// hourly rate of one instance type in one region.
func (p *AWSProvider) fetchOnDemandHourly(ctx context.Context, pair TypeRegion) (float64, error) {
	input := &pricing.GetProductsInput{
		ServiceCode:   awssdk.String("AmazonEC2"),
		FormatVersion: awssdk.String("aws_v1"),
		MaxResults:    awssdk.Int32(1),
		Filters: []pricingtypes.Filter{
			termMatch("instanceType", pair.Type),
			termMatch("regionCode", pair.Region),
			termMatch("operatingSystem", "Linux"),
			termMatch("tenancy", "Shared"),
			termMatch("preInstalledSw", "NA"),
			termMatch("capacitystatus", "Used"),
		},
	}

	output, err := p.pricingClient.GetProducts(ctx, input)
	if err != nil {
		return 0, err
	}
	if len(output.PriceList) == 0 {
		return 0, errNoPriceData
	}

	return onDemandHourlyUSD([]byte(output.PriceList[0]))
}

func termMatch(field, value string) pricingtypes.Filter {
	return pricingtypes.Filter{
		Type:  pricingtypes.FilterTypeTermMatch,
		Field: awssdk.String(field),
		Value: awssdk.String(value),
	}
}

// priceListEntry mirrors the slice of the Pricing API price list
// document we need: terms -> OnDemand -> offer -> priceDimensions ->
// dimension -> pricePerUnit.USD.
type priceListEntry struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// onDemandHourlyUSD extracts the USD hourly rate from one price list
// document. The offer and dimension keys are opaque identifiers, so the
// first USD-priced hourly dimension wins.
func onDemandHourlyUSD(doc []byte) (float64, error) {
	var entry priceListEntry
	if err := json.Unmarshal(doc, &entry); err != nil {
		return 0, err
	}

	for _, offer := range entry.Terms.OnDemand {
		for _, dim := range offer.PriceDimensions {
			usd, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(usd, 64)
			if err != nil || v <= 0 {
				continue
			}
			return v, nil
		}
	}
	return 0, errNoPriceData
}
