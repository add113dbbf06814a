// Package miner drives the colocation mining pipeline and filters the
// candidate lattice down to prevalent patterns.
package miner

import (
	"sort"

	"github.com/colocation-mining/internal/chash"
	"github.com/colocation-mining/internal/pi"
	"github.com/colocation-mining/pkg/model"
)

// Filter walks the candidate lattice top-down and keeps every pattern
// whose participation index reaches the prevalence threshold.
//
// Accepted candidates short-cut: by PI monotonicity every subset of an
// accepted pattern is prevalent too, so all proper subsets are recorded
// immediately and dropped from the work list. Rejected candidates expand
// into their direct (size minus one) subsets, which may still pass.
type Filter struct {
	minPrev float64
	calc    *pi.Calculator
}

// NewFilter creates a Filter against the given PI calculator.
func NewFilter(calc *pi.Calculator, minPrev float64) *Filter {
	return &Filter{minPrev: minPrev, calc: calc}
}

// Run filters the candidate hash and returns the prevalent patterns with
// their PI values. The work list is ordered by pattern size descending
// with a lexicographic tie-break, so runs are deterministic. An empty
// hash yields an empty result.
func (f *Filter) Run(h *chash.CHash) map[string]float64 {
	candidates := h.Patterns()
	sort.Slice(candidates, func(a, b int) bool {
		return model.ComparePatterns(candidates[a], candidates[b]) < 0
	})

	inList := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		inList[c.Key()] = true
	}

	prevalent := make(map[string]float64)

	for len(candidates) > 0 {
		cur := candidates[0]
		curKey := cur.Key()

		if piVal := f.calc.Calculate(cur); piVal >= f.minPrev {
			prevalent[curKey] = piVal

			// Subset shortcut: every proper subset is at least as
			// prevalent; record each with its own PI and retire it
			// from the work list.
			drop := map[string]bool{curKey: true}
			for _, sub := range cur.ProperSubsets() {
				subKey := sub.Key()
				if _, done := prevalent[subKey]; !done {
					prevalent[subKey] = f.calc.Calculate(sub)
				}
				drop[subKey] = true
			}
			candidates = f.remove(candidates, drop, inList)
			continue
		}

		// Rejected: expand into direct subsets, deduplicated against
		// both the work list and the already-resolved patterns.
		candidates = f.remove(candidates, map[string]bool{curKey: true}, inList)
		for _, sub := range cur.DirectSubsets() {
			subKey := sub.Key()
			if inList[subKey] {
				continue
			}
			if _, done := prevalent[subKey]; done {
				continue
			}
			candidates = f.insertSorted(candidates, sub)
			inList[subKey] = true
		}
	}

	return prevalent
}

// remove drops the marked patterns from the work list, keeping order.
func (f *Filter) remove(candidates []model.Pattern, drop map[string]bool, inList map[string]bool) []model.Pattern {
	out := candidates[:0]
	for _, c := range candidates {
		key := c.Key()
		if drop[key] {
			delete(inList, key)
			continue
		}
		out = append(out, c)
	}
	return out
}

// insertSorted inserts the pattern at its position in the size-descending,
// lexicographic work-list order.
func (f *Filter) insertSorted(candidates []model.Pattern, p model.Pattern) []model.Pattern {
	pos := sort.Search(len(candidates), func(i int) bool {
		return model.ComparePatterns(candidates[i], p) >= 0
	})
	candidates = append(candidates, nil)
	copy(candidates[pos+1:], candidates[pos:])
	candidates[pos] = p
	return candidates
}
