package hash

import (
	"sort"

	"github.com/spacemeshos/datverify/merkle"
	"github.com/spacemeshos/datverify/shared"
)

// Tree is an append-only dat merkle tree kept in flat-tree order.
// Parents are hashed as soon as both of their children exist.
type Tree struct {
	layout ParentLayout
	nodes  []shared.Node
	leaves uint64
}

func NewTree(layout ParentLayout) *Tree {
	return &Tree{layout: layout}
}

// Append adds a chunk as the next leaf and returns the leaf's index.
func (t *Tree) Append(chunk []byte) uint64 {
	index := 2 * t.leaves
	t.leaves++
	t.set(shared.Node{Index: index, Hash: LeafHash(chunk), Size: uint64(len(chunk))})

	for node := t.nodes[index]; ; {
		height := merkle.Height(node.Index)
		if merkle.IndexAtHeight(node.Index, height+1)&1 == 0 {
			// left child, sibling not written yet
			return index
		}
		left := t.nodes[node.Index-uint64(1)<<(height+1)]
		parent := shared.Node{
			Index: node.Index - uint64(1)<<height,
			Size:  left.Size + node.Size,
		}
		parent.Hash = NewParentPayload(left, node).Hash(t.layout)
		t.set(parent)
		node = parent
	}
}

func (t *Tree) set(n shared.Node) {
	for uint64(len(t.nodes)) <= n.Index {
		t.nodes = append(t.nodes, shared.Node{})
	}
	t.nodes[n.Index] = n
}

// Leaves returns the number of appended chunks.
func (t *Tree) Leaves() uint64 {
	return t.leaves
}

// Node returns the node at index if it has been computed.
func (t *Tree) Node(index uint64) (shared.Node, bool) {
	if index >= uint64(len(t.nodes)) || t.nodes[index].Hash == (shared.Digest{}) {
		return shared.Node{}, false
	}
	return t.nodes[index], true
}

// Roots returns the roots of the complete subtrees covering all leaves,
// ordered by index.
func (t *Tree) Roots() []shared.Node {
	var roots []shared.Node
	var offset uint64
	for remaining := t.leaves; remaining > 0; {
		factor := uint64(1)
		for factor*2 <= remaining {
			factor *= 2
		}
		roots = append(roots, t.nodes[offset+factor-1])
		offset += 2 * factor
		remaining -= factor
	}
	return roots
}

// RootPayload returns the payload a writer signs to publish the tree.
func (t *Tree) RootPayload() RootPayload {
	return RootFromNodes(t.Roots())
}

// Proof returns the nodes a seeder submits to prove possession of the leaf
// at index: the leaf itself and the orphans of the tree truncated at it,
// sorted by index.
func (t *Tree) Proof(index uint64) ([]shared.Node, bool) {
	if index%2 != 0 {
		return nil, false
	}
	indices := merkle.OrphanIndices(index)
	if !merkle.IsOrphan(index, index) {
		indices = append(indices, index)
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	}
	nodes := make([]shared.Node, 0, len(indices))
	for _, i := range indices {
		n, ok := t.Node(i)
		if !ok {
			return nil, false
		}
		nodes = append(nodes, n)
	}
	return nodes, true
}
