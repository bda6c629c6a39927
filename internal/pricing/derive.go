// Package pricing derives priceable instance buckets from node
// inventory. Buckets are re-derived from scratch on every node-set
// change; previously entered prices are preserved by key lookup rather
// than patched incrementally, which keeps repeated derivation safe and
// drift-free.
package pricing

import "github.com/meshwise/meshcost/internal/model"

// Derive groups node rows into one InstancePrice bucket per distinct
// (type, region) pair, in first-seen order. The per-instance core count
// comes from the first node observed with the key. Keys present in
// previous keep their monthly price; new keys start unpriced (0).
func Derive(nodes []model.NodeRow, previous []model.InstancePrice) []model.InstancePrice {
	prior := make(map[string]float64, len(previous))
	for _, p := range previous {
		prior[p.Key] = p.MonthlyPrice
	}

	var buckets []model.InstancePrice
	index := make(map[string]int, len(nodes))

	for _, n := range nodes {
		key := n.PriceKey()
		if i, ok := index[key]; ok {
			buckets[i].Count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, model.InstancePrice{
			Key:          key,
			Type:         n.Type,
			Region:       n.Region,
			CPUs:         n.CPUs,
			Count:        1,
			MonthlyPrice: prior[key],
		})
	}

	return buckets
}

// SetPrice sets the monthly price on the bucket with the given key,
// returning false when the key is absent.
func SetPrice(buckets []model.InstancePrice, key string, monthly float64) bool {
	for i := range buckets {
		if buckets[i].Key == key {
			buckets[i].MonthlyPrice = monthly
			return true
		}
	}
	return false
}

// Unpriced returns the buckets that still have no monthly price.
func Unpriced(buckets []model.InstancePrice) []model.InstancePrice {
	var out []model.InstancePrice
	for _, b := range buckets {
		if b.MonthlyPrice == 0 {
			out = append(out, b)
		}
	}
	return out
}
