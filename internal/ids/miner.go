package ids

import (
	"context"
	"sort"

	"github.com/colocation-mining/internal/neighborhood"
	"github.com/colocation-mining/pkg/parallel"
	"github.com/colocation-mining/pkg/utils"
)

// Clique is a maximal clique in the BN graph, given as instance indices in
// canonical order.
type Clique []int

// Options configures the clique miner.
type Options struct {
	// Parallel mines head instances concurrently, one private tree arena
	// per task, merging clique lists in head order.
	Parallel bool

	// Workers bounds the worker count in parallel mode. Zero selects the
	// worker pool default.
	Workers int

	// Logger is used for debug output. Nil suppresses logging.
	Logger utils.Logger
}

// Miner enumerates all maximal cliques of the BN graph by instance-driven
// search. Each head instance spawns a BFS over an iTree whose node children
// are the BN neighbors shared with every ancestor; leaves emit cliques and
// prune their exhausted ancestors.
type Miner struct {
	nbr  *neighborhood.Manager
	opts Options
}

// NewMiner creates a Miner over the materialized neighborhood.
func NewMiner(nbr *neighborhood.Manager, opts Options) *Miner {
	if opts.Logger == nil {
		opts.Logger = &utils.NullLogger{}
	}
	return &Miner{nbr: nbr, opts: opts}
}

// Run enumerates the maximal cliques. Heads are processed in canonical
// instance order, so the output sequence is deterministic. Singleton
// cliques (heads with no big neighbors) are emitted.
func (m *Miner) Run(ctx context.Context) ([]Clique, error) {
	instances := m.nbr.Instances()

	heads := make([]int, len(instances))
	for i := range heads {
		heads[i] = i
	}
	sort.Slice(heads, func(a, b int) bool {
		return m.nbr.Rank(heads[a]) < m.nbr.Rank(heads[b])
	})

	if m.opts.Parallel && len(heads) > 1 {
		return m.runParallel(ctx, heads)
	}

	var cls []Clique
	for _, head := range heads {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		cls = append(cls, m.mineHead(head)...)
	}
	m.opts.Logger.Debug("ids: %d cliques from %d heads", len(cls), len(heads))
	return cls, nil
}

// runParallel fans heads out over a worker pool. Results come back in head
// order, so the merged clique list matches the serial run exactly.
func (m *Miner) runParallel(ctx context.Context, heads []int) ([]Clique, error) {
	cfg := parallel.DefaultPoolConfig()
	if m.opts.Workers > 0 {
		cfg.MaxWorkers = m.opts.Workers
	}
	pool := parallel.NewWorkerPool[int, []Clique](cfg)

	results := pool.ExecuteFunc(ctx, heads, func(_ context.Context, head int) ([]Clique, error) {
		return m.mineHead(head), nil
	})

	var cls []Clique
	for _, res := range results {
		if res.Error != nil {
			return nil, res.Error
		}
		cls = append(cls, res.Result...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.opts.Logger.Debug("ids: %d cliques from %d heads (parallel)", len(cls), len(heads))
	return cls, nil
}

// mineHead runs the BFS for one head instance on a private tree arena.
func (m *Miner) mineHead(head int) []Clique {
	t := newTree()
	headNode := t.addChildren(root, []int{head})[0]

	var cls []Clique
	queue := []nodeID{headNode}
	var sibBuf []int

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		children := m.children(t, cur, &sibBuf)
		if len(children) == 0 {
			cls = append(cls, t.clique(cur))
			t.removeAncestors(cur)
			continue
		}
		queue = append(queue, t.addChildren(cur, children)...)
	}
	return cls
}

// children computes the candidate extensions of a tree node. A head node
// extends with its whole BN list; any deeper node extends with the BN
// neighbors it shares with all ancestors, which by construction is the
// ordered intersection of its BN list with its right siblings.
func (m *Miner) children(t *tree, n nodeID, sibBuf *[]int) []int {
	bn := m.nbr.BigNeighbors(t.nodes[n].inst)
	if t.nodes[n].parent == root {
		return bn
	}
	*sibBuf = t.rightSiblings(n, (*sibBuf)[:0])
	return m.intersect(bn, *sibBuf)
}

// intersect merges two canonically-ordered index lists. Both sides are
// duplicate-free, so a two-pointer walk over ranks suffices.
func (m *Miner) intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ra, rb := m.nbr.Rank(a[i]), m.nbr.Rank(b[j])
		switch {
		case ra == rb:
			out = append(out, a[i])
			i++
			j++
		case ra < rb:
			i++
		default:
			j++
		}
	}
	return out
}
