// Package model defines the core data types shared across the mining pipeline.
package model

import "sort"

// FeatureType is the discrete label attached to spatial instances
// (e.g., "Restaurant", "Hotel", or a single letter in test datasets).
type FeatureType = string

// InstanceID uniquely identifies a spatial instance across the dataset.
// IDs are generated at load time as FeatureType + instance number ("A1", "B2").
type InstanceID = string

// Instance is a georeferenced feature instance. Instances are immutable
// after loading; all derived structures refer to them by index into the
// loaded instance slice.
type Instance struct {
	Type FeatureType `json:"type"`
	ID   InstanceID  `json:"id"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

// Less reports whether i precedes other in the canonical instance order:
// feature type first, instance ID as tie-break. This order orients the
// BN/SN neighbor split and the clique sequences emitted by the miner.
func (i *Instance) Less(other *Instance) bool {
	if i.Type != other.Type {
		return i.Type < other.Type
	}
	return i.ID < other.ID
}

// DistSq returns the squared Euclidean distance to other. Neighbor checks
// compare against the squared threshold so no square root is taken.
func (i *Instance) DistSq(other *Instance) float64 {
	dx := i.X - other.X
	dy := i.Y - other.Y
	return dx*dx + dy*dy
}

// CountByFeature counts instances per feature type over the whole input
// set. The prevalence filter uses these totals as the PR denominators.
func CountByFeature(instances []Instance) map[FeatureType]int {
	counts := make(map[FeatureType]int)
	for i := range instances {
		counts[instances[i].Type]++
	}
	return counts
}

// CanonicalRank assigns each instance its position in the canonical order.
// Ranks let neighbor lists be sorted and intersected with integer
// comparisons instead of repeated (type, id) string comparisons.
func CanonicalRank(instances []Instance) []int {
	order := make([]int, len(instances))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return instances[order[a]].Less(&instances[order[b]])
	})

	ranks := make([]int, len(instances))
	for pos, idx := range order {
		ranks[idx] = pos
	}
	return ranks
}
