// Package neighborhood materializes the distance-threshold neighbor graph
// as directional Big/Small-Neighbor lists.
//
// For two instances of different feature types within the distance
// threshold, the edge is stored exactly once: under BN of the endpoint
// whose type sorts lower, and mirrored under SN of the other. Same-type
// pairs are ignored; single-feature patterns are not discovered through
// the neighbor graph.
package neighborhood

import (
	"sort"

	"github.com/colocation-mining/internal/grid"
	"github.com/colocation-mining/pkg/model"
)

// Manager owns the materialized neighbor lists. It is built once and
// read-only afterwards.
type Manager struct {
	instances []model.Instance
	ranks     []int

	// bn[i] and sn[i] hold instance indices sorted by canonical rank.
	bn [][]int
	sn [][]int

	edges int
}

// Materialize builds the exact dMin-disc neighbor graph over the instance
// set, partitioned by the canonical feature-type order. Pure function of
// its inputs; an empty instance set yields an empty manager.
func Materialize(instances []model.Instance, dMin float64) *Manager {
	m := &Manager{
		instances: instances,
		ranks:     model.CanonicalRank(instances),
		bn:        make([][]int, len(instances)),
		sn:        make([][]int, len(instances)),
	}

	g := grid.Build(instances, dMin)
	distSqMax := dMin * dMin

	for cell := 0; cell < g.NumCells(); cell++ {
		members := g.Cell(cell)
		if len(members) == 0 {
			continue
		}
		ncells := g.NeighborCells(cell)
		for _, s := range members {
			si := &instances[s]
			for _, nc := range ncells {
				for _, sp := range g.Cell(nc) {
					if s == sp {
						continue
					}
					spi := &instances[sp]
					if si.Type == spi.Type {
						continue
					}
					if si.DistSq(spi) > distSqMax {
						continue
					}
					// Each unordered pair is seen from both endpoints;
					// the type comparison stores the edge exactly once
					// per direction.
					if si.Type < spi.Type {
						m.bn[s] = append(m.bn[s], sp)
					} else {
						m.sn[s] = append(m.sn[s], sp)
					}
				}
			}
		}
	}

	// Canonical order within each list enables the ordered intersections
	// of the clique miner.
	for i := range m.bn {
		m.sortByRank(m.bn[i])
		m.sortByRank(m.sn[i])
		m.edges += len(m.bn[i])
	}

	return m
}

func (m *Manager) sortByRank(list []int) {
	sort.Slice(list, func(a, b int) bool {
		return m.ranks[list[a]] < m.ranks[list[b]]
	})
}

// BigNeighbors returns the neighbors of instance i that are greater than i
// in the canonical order, themselves in canonical order.
func (m *Manager) BigNeighbors(i int) []int {
	return m.bn[i]
}

// SmallNeighbors returns the neighbors of instance i that are smaller than
// i in the canonical order.
func (m *Manager) SmallNeighbors(i int) []int {
	return m.sn[i]
}

// EdgeCount returns the number of directional neighbor edges, which equals
// the number of undirected neighbor pairs.
func (m *Manager) EdgeCount() int {
	return m.edges
}

// Rank returns the canonical rank of instance i.
func (m *Manager) Rank(i int) int {
	return m.ranks[i]
}

// Instances returns the underlying instance slice.
func (m *Manager) Instances() []model.Instance {
	return m.instances
}
