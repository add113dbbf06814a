package neighborhood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colocation-mining/pkg/model"
)

func inst(typ, id string, x, y float64) model.Instance {
	return model.Instance{Type: typ, ID: id, X: x, Y: y}
}

func TestMaterialize_Empty(t *testing.T) {
	m := Materialize(nil, 2.0)
	assert.Equal(t, 0, m.EdgeCount())
}

func TestMaterialize_TightTriangle(t *testing.T) {
	// S1: three mutually-neighboring instances of distinct types.
	instances := []model.Instance{
		inst("A", "A1", 1, 1),
		inst("B", "B1", 1.2, 1.1),
		inst("C", "C1", 1.1, 1.3),
	}
	m := Materialize(instances, 2.0)

	assert.Equal(t, []int{1, 2}, m.BigNeighbors(0)) // A1 -> B1, C1
	assert.Equal(t, []int{2}, m.BigNeighbors(1))    // B1 -> C1
	assert.Empty(t, m.BigNeighbors(2))
	assert.Equal(t, 3, m.EdgeCount())
}

func TestMaterialize_Symmetry(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 1, 0),
		inst("C", "C1", 0, 1),
		inst("A", "A2", 10, 10),
		inst("D", "D1", 10.5, 10),
	}
	m := Materialize(instances, 2.0)

	// s' in BN(s) <=> s in SN(s'), and never both BN(s) and SN(s).
	for s := range instances {
		for _, sp := range m.BigNeighbors(s) {
			assert.Contains(t, m.SmallNeighbors(sp), s)
			assert.NotContains(t, m.SmallNeighbors(s), sp)
		}
		for _, sp := range m.SmallNeighbors(s) {
			assert.Contains(t, m.BigNeighbors(sp), s)
		}
	}
}

func TestMaterialize_DistanceCorrectness(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("B", "B1", 2, 0),   // exactly at threshold
		inst("C", "C1", 2.1, 0), // beyond threshold from A1
	}
	m := Materialize(instances, 2.0)

	assert.Equal(t, []int{1}, m.BigNeighbors(0)) // boundary distance passes
	assert.Equal(t, []int{2}, m.BigNeighbors(1)) // B1-C1 at 0.1 apart
	assert.Empty(t, m.SmallNeighbors(0))
}

func TestMaterialize_SameTypeIgnored(t *testing.T) {
	instances := []model.Instance{
		inst("A", "A1", 0, 0),
		inst("A", "A2", 0.1, 0),
	}
	m := Materialize(instances, 2.0)

	assert.Empty(t, m.BigNeighbors(0))
	assert.Empty(t, m.BigNeighbors(1))
	assert.Equal(t, 0, m.EdgeCount())
}

func TestMaterialize_IdenticalCoordinates(t *testing.T) {
	// S6: distance zero passes the threshold.
	instances := []model.Instance{
		inst("A", "A1", 3, 3),
		inst("B", "B1", 3, 3),
	}
	m := Materialize(instances, 2.0)

	assert.Equal(t, []int{1}, m.BigNeighbors(0))
	assert.Equal(t, []int{0}, m.SmallNeighbors(1))
}

func TestMaterialize_AcrossCellBoundary(t *testing.T) {
	// Neighbors in adjacent grid cells must still be found.
	instances := []model.Instance{
		inst("A", "A1", 1.9, 0.5),
		inst("B", "B1", 2.1, 0.5),
		inst("C", "C1", 0, 7.9), // far from both; puts the grid origin at x = 0
	}
	m := Materialize(instances, 2.0)

	assert.Equal(t, []int{1}, m.BigNeighbors(0))
	assert.Empty(t, m.BigNeighbors(1))
}

func TestMaterialize_BNListsInCanonicalOrder(t *testing.T) {
	// Neighbors of A1 across several types and ids; the BN list must come
	// back sorted by (type, id), not by grid discovery order.
	instances := []model.Instance{
		inst("D", "D1", 0.4, 0),
		inst("B", "B2", 0.3, 0),
		inst("A", "A1", 0, 0),
		inst("B", "B1", 0.2, 0),
		inst("C", "C1", 0.1, 0),
	}
	m := Materialize(instances, 2.0)

	bn := m.BigNeighbors(2)
	require.Len(t, bn, 4)
	got := make([]string, len(bn))
	for i, idx := range bn {
		got[i] = instances[idx].ID
	}
	assert.Equal(t, []string{"B1", "B2", "C1", "D1"}, got)
}
