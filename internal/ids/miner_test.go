package ids

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colocation-mining/internal/neighborhood"
	"github.com/colocation-mining/pkg/model"
)

func inst(typ, id string, x, y float64) model.Instance {
	return model.Instance{Type: typ, ID: id, X: x, Y: y}
}

func mine(t *testing.T, instances []model.Instance, opts Options) [][]string {
	t.Helper()
	nbr := neighborhood.Materialize(instances, 2.0)
	cliques, err := NewMiner(nbr, opts).Run(context.Background())
	require.NoError(t, err)

	out := make([][]string, len(cliques))
	for i, cl := range cliques {
		ids := make([]string, len(cl))
		for j, idx := range cl {
			ids[j] = instances[idx].ID
		}
		out[i] = ids
	}
	return out
}

func TestMiner_SinglePair(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 1, 0),
	}
	got := mine(t, instances, Options{})

	assert.Equal(t, [][]string{{"A1", "B1"}, {"B1"}}, got)
}

func TestMiner_TightTriangle(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 1, 1),
		inst("B", "B1", 1.2, 1.1),
		inst("C", "C1", 1.1, 1.3),
	}
	got := mine(t, instances, Options{})

	// Head A1 reaches C1 both directly and through B1; the direct path is
	// emitted first because the search is breadth-first. Heads B1 and C1
	// contribute their own right-extensions.
	assert.Equal(t, [][]string{
		{"A1", "C1"},
		{"A1", "B1", "C1"},
		{"B1", "C1"},
		{"C1"},
	}, got)
}

func TestMiner_IsolatedInstanceEmitsSingleton(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 1, 0),
		inst("A", "A3", 50, 50),
	}
	got := mine(t, instances, Options{})

	assert.Contains(t, got, []string{"A3"})
}

func TestMiner_Empty(t *testing.T) {
	got := mine(t, nil, Options{})
	assert.Empty(t, got)
}

func TestMiner_CliquesArePairwiseNeighbors(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 0.5, 0),
		inst("C", "C1", 0, 0.5),
		inst("D", "D1", 0.5, 0.5),
		inst("A", "A2", 3, 0),
		inst("B", "B2", 3.5, 0.2),
		inst("C", "C2", 10, 10),
	}
	nbr := neighborhood.Materialize(instances, 2.0)
	cliques, err := NewMiner(nbr, Options{}).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cliques)

	neighbors := func(a, b int) bool {
		ia, ib := &instances[a], &instances[b]
		return ia.Type != ib.Type && ia.DistSq(ib) <= 4.0
	}

	for _, cl := range cliques {
		// Pairwise neighbor relation.
		for i := 0; i < len(cl); i++ {
			for j := i + 1; j < len(cl); j++ {
				assert.True(t, neighbors(cl[i], cl[j]),
					"non-neighbors %s and %s in clique", instances[cl[i]].ID, instances[cl[j]].ID)
			}
		}

		// Canonical order inside the clique.
		for i := 1; i < len(cl); i++ {
			assert.True(t, nbr.Rank(cl[i-1]) < nbr.Rank(cl[i]))
		}

		// Right-extension maximality: no instance greater than the last
		// member neighbors every member.
		last := cl[len(cl)-1]
		for x := range instances {
			if nbr.Rank(x) <= nbr.Rank(last) {
				continue
			}
			extendsAll := true
			for _, member := range cl {
				if !neighbors(member, x) {
					extendsAll = false
					break
				}
			}
			assert.False(t, extendsAll,
				"clique can be extended right with %s", instances[x].ID)
		}
	}
}

func TestMiner_NoRedundantEmission(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 0.5, 0),
		inst("C", "C1", 0, 0.5),
		inst("D", "D1", 0.5, 0.5),
	}
	got := mine(t, instances, Options{})

	seen := make(map[string]bool)
	for _, cl := range got {
		key := ""
		for _, id := range cl {
			key += id + "|"
		}
		assert.False(t, seen[key], "duplicate clique %v", cl)
		seen[key] = true
	}
}

func TestMiner_ParallelMatchesSerial(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 0.5, 0),
		inst("C", "C1", 0, 0.5),
		inst("D", "D1", 0.5, 0.5),
		inst("A", "A2", 3, 0),
		inst("B", "B2", 3.5, 0.2),
		inst("C", "C2", 10, 10),
		inst("D", "D2", 10.4, 10.4),
	}

	serial := mine(t, instances, Options{})
	parallelRun := mine(t, instances, Options{Parallel: true, Workers: 4})

	assert.Equal(t, serial, parallelRun)
}

func TestMiner_ContextCancellation(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 1, 0),
	}
	nbr := neighborhood.Materialize(instances, 2.0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMiner(nbr, Options{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
