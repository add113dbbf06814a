package miner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colocation-mining/internal/chash"
	"github.com/colocation-mining/internal/ids"
	"github.com/colocation-mining/internal/pi"
	"github.com/colocation-mining/pkg/model"
)

// S1+S2 dataset cliques, as produced by the clique miner.
var filterInstances = []model.Instance{
	{Type: "A", ID: "A1", X: 1, Y: 1},
	{Type: "B", ID: "B1", X: 1.2, Y: 1.1},
	{Type: "C", ID: "C1", X: 1.1, Y: 1.3},
	{Type: "A", ID: "A2", X: 5, Y: 5},
	{Type: "B", ID: "B2", X: 5.1, Y: 5.2},
}

var filterCliques = []ids.Clique{
	{0, 2},
	{0, 1, 2},
	{1, 2},
	{2},
	{3, 4},
	{4},
}

func runFilter(t *testing.T, minPrev float64) map[string]float64 {
	t.Helper()
	h := chash.Build(filterInstances, filterCliques)
	calc := pi.NewCalculator(h, model.CountByFeature(filterInstances))
	return NewFilter(calc, minPrev).Run(h)
}

func TestFilter_LowThresholdKeepsLattice(t *testing.T) {
	prevalent := runFilter(t, 0.3)

	want := map[string]float64{
		model.NewPattern("A").Key():           1.0,
		model.NewPattern("B").Key():           1.0,
		model.NewPattern("C").Key():           1.0,
		model.NewPattern("A", "B").Key():      1.0,
		model.NewPattern("A", "C").Key():      0.5,
		model.NewPattern("B", "C").Key():      0.5,
		model.NewPattern("A", "B", "C").Key(): 0.5,
	}
	assert.Equal(t, want, prevalent)
}

func TestFilter_SubThresholdPruning(t *testing.T) {
	// S4: {A, B, C} at 0.5 is rejected and expands into its pairs; only
	// {A, B} survives, short-cutting its singletons; {C} passes on its own.
	prevalent := runFilter(t, 0.9)

	want := map[string]float64{
		model.NewPattern("A").Key():      1.0,
		model.NewPattern("B").Key():      1.0,
		model.NewPattern("C").Key():      1.0,
		model.NewPattern("A", "B").Key(): 1.0,
	}
	assert.Equal(t, want, prevalent)
}

func TestFilter_Completeness(t *testing.T) {
	// Every returned pattern meets the threshold, and every lattice
	// pattern meeting it is returned.
	h := chash.Build(filterInstances, filterCliques)
	calc := pi.NewCalculator(h, model.CountByFeature(filterInstances))
	minPrev := 0.5
	prevalent := NewFilter(calc, minPrev).Run(h)

	for key, v := range prevalent {
		assert.GreaterOrEqual(t, v, minPrev, "pattern %v below threshold", model.PatternFromKey(key))
		assert.InDelta(t, calc.Calculate(model.PatternFromKey(key)), v, 1e-12)
	}

	all := []model.Pattern{
		model.NewPattern("A"),
		model.NewPattern("B"),
		model.NewPattern("C"),
		model.NewPattern("A", "B"),
		model.NewPattern("A", "C"),
		model.NewPattern("B", "C"),
		model.NewPattern("A", "B", "C"),
	}
	for _, p := range all {
		if calc.Calculate(p) >= minPrev {
			assert.Contains(t, prevalent, p.Key(), "missing prevalent pattern %v", p)
		}
	}
}

func TestFilter_ThresholdOne(t *testing.T) {
	prevalent := runFilter(t, 1.0)

	assert.Contains(t, prevalent, model.NewPattern("A", "B").Key())
	assert.NotContains(t, prevalent, model.NewPattern("A", "B", "C").Key())
	assert.NotContains(t, prevalent, model.NewPattern("A", "C").Key())
}

func TestFilter_EmptyHash(t *testing.T) {
	h := chash.Build(nil, nil)
	calc := pi.NewCalculator(h, nil)
	prevalent := NewFilter(calc, 0.5).Run(h)
	assert.Empty(t, prevalent)
}

func TestFilter_DirectSubsetDedup(t *testing.T) {
	// Two size-3 patterns sharing pairs: both get rejected at a high
	// threshold and push overlapping direct subsets; the shared pair must
	// be processed exactly once (no duplicates, run terminates).
	instances := []model.Instance{
		{Type: "A", ID: "A1"}, {Type: "B", ID: "B1"},
		{Type: "C", ID: "C1"}, {Type: "D", ID: "D1"},
		{Type: "A", ID: "A2"}, {Type: "B", ID: "B2"},
	}
	cliques := []ids.Clique{
		{0, 1, 2}, // {A, B, C}
		{4, 5, 3}, // {A, B, D}
	}
	h := chash.Build(instances, cliques)
	calc := pi.NewCalculator(h, model.CountByFeature(instances))
	prevalent := NewFilter(calc, 0.9).Run(h)

	// {A,B}: Ins[A] = {A1, A2}, Ins[B] = {B1, B2} -> 1.0.
	assert.Contains(t, prevalent, model.NewPattern("A", "B").Key())
	// {C} and {D} pass individually (1 of 1 each).
	assert.Contains(t, prevalent, model.NewPattern("C").Key())
	assert.Contains(t, prevalent, model.NewPattern("D").Key())
	// The triples themselves stay out (PI 0.5).
	assert.NotContains(t, prevalent, model.NewPattern("A", "B", "C").Key())
	assert.NotContains(t, prevalent, model.NewPattern("A", "B", "D").Key())
}

func TestInsertSorted_MaintainsOrder(t *testing.T) {
	f := &Filter{}
	var cands []model.Pattern
	cands = f.insertSorted(cands, model.NewPattern("B", "C"))
	cands = f.insertSorted(cands, model.NewPattern("A", "B", "C"))
	cands = f.insertSorted(cands, model.NewPattern("C"))
	cands = f.insertSorted(cands, model.NewPattern("A", "B"))

	require.Len(t, cands, 4)
	assert.Equal(t, model.NewPattern("A", "B", "C"), cands[0])
	assert.Equal(t, model.NewPattern("A", "B"), cands[1])
	assert.Equal(t, model.NewPattern("B", "C"), cands[2])
	assert.Equal(t, model.NewPattern("C"), cands[3])
}
