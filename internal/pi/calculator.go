// Package pi computes participation indices of colocation patterns from
// the candidate hash.
package pi

import (
	"github.com/colocation-mining/internal/chash"
	"github.com/colocation-mining/pkg/model"
)

// Calculator computes PI values against one candidate hash and one global
// feature census. Results are memoized per calculator, so one instance
// must not outlive the hash it was created for.
type Calculator struct {
	hash        *chash.CHash
	globalCount map[model.FeatureType]int
	cache       map[string]float64
}

// NewCalculator creates a Calculator over the candidate hash.
func NewCalculator(hash *chash.CHash, globalCount map[model.FeatureType]int) *Calculator {
	return &Calculator{
		hash:        hash,
		globalCount: globalCount,
		cache:       make(map[string]float64),
	}
}

// Calculate returns PI(p): the minimum over the pattern's feature types of
// the fraction of that type's population participating in some clique
// whose signature contains p. Empty patterns, unknown feature types and
// zero populations yield 0.
//
// PI is monotone non-increasing under set inclusion: supersets of a larger
// pattern are a subset of the supersets of any of its subsets, so every
// participant set can only shrink as the pattern grows. The prevalence
// filter relies on this for its subset shortcut.
func (c *Calculator) Calculate(p model.Pattern) float64 {
	if len(p) == 0 {
		return 0
	}
	key := p.Key()
	if v, ok := c.cache[key]; ok {
		return v
	}

	v := c.calculate(p)
	c.cache[key] = v
	return v
}

func (c *Calculator) calculate(p model.Pattern) float64 {
	supersets := c.hash.Supersets(p)

	// Distinct participants per feature type across all supersets.
	participants := make(map[model.FeatureType]map[int]struct{}, len(p))
	for _, f := range p {
		participants[f] = make(map[int]struct{})
	}
	for _, entry := range supersets {
		for _, f := range p {
			for _, inst := range entry.Buckets[f] {
				participants[f][inst] = struct{}{}
			}
		}
	}

	minPI := 1.0
	for _, f := range p {
		total, ok := c.globalCount[f]
		if !ok || total == 0 {
			return 0
		}
		pr := float64(len(participants[f])) / float64(total)
		if pr < minPI {
			minPI = pr
		}
	}
	return minPI
}
