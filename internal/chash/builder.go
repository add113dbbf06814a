// Package chash builds the candidate hash: an index of mined cliques keyed
// by their pattern signature.
package chash

import (
	"sort"

	"github.com/colocation-mining/internal/ids"
	"github.com/colocation-mining/pkg/model"
)

// Entry holds the per-feature instance buckets of one pattern signature.
// A bucket may contain the same instance more than once when it joined
// several cliques of the same signature; the PI calculator deduplicates
// at read time.
type Entry struct {
	Pattern model.Pattern
	Buckets map[model.FeatureType][]int
}

// CHash maps pattern signatures to their participating instances. It is
// built once from the clique list and read-only afterwards.
type CHash struct {
	entries map[string]*Entry
	keys    []string // sorted for deterministic iteration
}

// Build indexes the cliques by signature. For every clique each member
// instance is appended to the bucket of its feature type under the
// clique's signature.
func Build(instances []model.Instance, cliques []ids.Clique) *CHash {
	h := &CHash{entries: make(map[string]*Entry)}

	for _, cl := range cliques {
		sig := model.SignatureOf(instances, cl)
		key := sig.Key()
		entry, ok := h.entries[key]
		if !ok {
			entry = &Entry{
				Pattern: sig,
				Buckets: make(map[model.FeatureType][]int, len(sig)),
			}
			h.entries[key] = entry
		}
		for _, inst := range cl {
			f := instances[inst].Type
			entry.Buckets[f] = append(entry.Buckets[f], inst)
		}
	}

	h.keys = make([]string, 0, len(h.entries))
	for key := range h.entries {
		h.keys = append(h.keys, key)
	}
	sort.Strings(h.keys)

	return h
}

// Len returns the number of distinct signatures.
func (h *CHash) Len() int {
	return len(h.entries)
}

// Keys returns the signature keys in lexicographic order.
func (h *CHash) Keys() []string {
	return h.keys
}

// Patterns returns the signatures in lexicographic key order.
func (h *CHash) Patterns() []model.Pattern {
	out := make([]model.Pattern, len(h.keys))
	for i, key := range h.keys {
		out[i] = h.entries[key].Pattern
	}
	return out
}

// Get returns the entry for the signature, or nil.
func (h *CHash) Get(p model.Pattern) *Entry {
	return h.entries[p.Key()]
}

// Supersets returns every stored signature that contains the candidate,
// the candidate itself included when present, in lexicographic key order.
func (h *CHash) Supersets(p model.Pattern) []*Entry {
	var out []*Entry
	for _, key := range h.keys {
		entry := h.entries[key]
		if len(entry.Pattern) >= len(p) && p.IsSubsetOf(entry.Pattern) {
			out = append(out, entry)
		}
	}
	return out
}
