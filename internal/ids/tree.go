// Package ids implements Instance-Driven Search: enumeration of maximal
// cliques in the Big-Neighbor graph via a pruning tree.
package ids

// nodeID indexes a node inside the tree arena. The arena owns every node
// of one search run; parent, child and sibling links are indices, so the
// tree can be mutated and freed without pointer cycles.
type nodeID = int32

const nilNode nodeID = -1

type node struct {
	inst        int // instance index, -1 for the virtual root
	parent      nodeID
	firstChild  nodeID
	nextSibling nodeID
}

// tree is the arena-owned iTree of one search run. Node 0 is the virtual
// root; the path from any other live node up to (but excluding) the root
// is a clique in the BN graph.
type tree struct {
	nodes []node
	free  []nodeID
}

func newTree() *tree {
	t := &tree{nodes: make([]node, 1, 64)}
	t.nodes[0] = node{inst: -1, parent: nilNode, firstChild: nilNode, nextSibling: nilNode}
	return t
}

const root nodeID = 0

func (t *tree) alloc(inst int, parent nodeID) nodeID {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[id] = node{inst: inst, parent: parent, firstChild: nilNode, nextSibling: nilNode}
		return id
	}
	t.nodes = append(t.nodes, node{inst: inst, parent: parent, firstChild: nilNode, nextSibling: nilNode})
	return nodeID(len(t.nodes) - 1)
}

// addChildren materializes the instances as children of parent, appended
// in the given order behind any existing children, and returns their ids.
func (t *tree) addChildren(parent nodeID, insts []int) []nodeID {
	if len(insts) == 0 {
		return nil
	}
	ids := make([]nodeID, len(insts))
	for i, inst := range insts {
		ids[i] = t.alloc(inst, parent)
	}
	for i := 0; i < len(ids)-1; i++ {
		t.nodes[ids[i]].nextSibling = ids[i+1]
	}

	if t.nodes[parent].firstChild == nilNode {
		t.nodes[parent].firstChild = ids[0]
	} else {
		last := t.nodes[parent].firstChild
		for t.nodes[last].nextSibling != nilNode {
			last = t.nodes[last].nextSibling
		}
		t.nodes[last].nextSibling = ids[0]
	}
	return ids
}

// rightSiblings appends the instances of the siblings following n to dst.
// Siblings were attached in canonical order, so the result is canonically
// ordered as well.
func (t *tree) rightSiblings(n nodeID, dst []int) []int {
	for sib := t.nodes[n].nextSibling; sib != nilNode; sib = t.nodes[sib].nextSibling {
		dst = append(dst, t.nodes[sib].inst)
	}
	return dst
}

// clique collects the instances on the path from n up to the root (root
// excluded) and returns them in canonical root-to-n order.
func (t *tree) clique(n nodeID) []int {
	var path []int
	for cur := n; cur != root; cur = t.nodes[cur].parent {
		path = append(path, t.nodes[cur].inst)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// removeAncestors detaches n from its parent's child list and frees it.
// Parents left childless are removed recursively, stopping at the root.
// Surviving siblings keep their links intact.
func (t *tree) removeAncestors(n nodeID) {
	for n != root {
		parent := t.nodes[n].parent
		t.unlinkChild(parent, n)
		t.free = append(t.free, n)
		if parent == root || t.nodes[parent].firstChild != nilNode {
			return
		}
		n = parent
	}
}

func (t *tree) unlinkChild(parent, child nodeID) {
	cur := t.nodes[parent].firstChild
	if cur == child {
		t.nodes[parent].firstChild = t.nodes[child].nextSibling
		return
	}
	for cur != nilNode {
		next := t.nodes[cur].nextSibling
		if next == child {
			t.nodes[cur].nextSibling = t.nodes[child].nextSibling
			return
		}
		cur = next
	}
}
