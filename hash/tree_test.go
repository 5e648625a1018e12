package hash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/datverify/shared"
)

func TestTreeShape(t *testing.T) {
	t.Parallel()
	tree := NewTree(ParentLayoutChildDigests)
	chunks := [][]byte{make([]byte, 10), make([]byte, 20), make([]byte, 30)}
	for i, c := range chunks {
		require.EqualValues(t, 2*i, tree.Append(c))
	}
	require.EqualValues(t, 3, tree.Leaves())

	leaf0, ok := tree.Node(0)
	require.True(t, ok)
	leaf2, ok := tree.Node(2)
	require.True(t, ok)
	parent, ok := tree.Node(1)
	require.True(t, ok)
	require.EqualValues(t, 30, parent.Size)
	require.Equal(t, NewParentPayload(leaf0, leaf2).Hash(ParentLayoutChildDigests), parent.Hash)

	_, ok = tree.Node(3)
	require.False(t, ok, "node 3 needs leaf 6")
	_, ok = tree.Node(5)
	require.False(t, ok)

	roots := tree.Roots()
	require.Len(t, roots, 2)
	require.EqualValues(t, 1, roots[0].Index)
	require.EqualValues(t, 4, roots[1].Index)

	total, ok := tree.RootPayload().TotalLength()
	require.True(t, ok)
	require.EqualValues(t, 60, total)
}

func TestTreeFourLeavesHasSingleRoot(t *testing.T) {
	t.Parallel()
	tree := NewTree(ParentLayoutLegacy)
	for i := 0; i < 4; i++ {
		tree.Append([]byte{byte(i)})
	}
	roots := tree.Roots()
	require.Equal(t, []shared.Node{roots[0]}, roots)
	require.EqualValues(t, 3, roots[0].Index)
	require.EqualValues(t, 4, roots[0].Size)
	require.Equal(t, ParentPayload{TotalLength: 4}.Hash(ParentLayoutLegacy), roots[0].Hash)
}

func TestTreeLayoutChangesParents(t *testing.T) {
	t.Parallel()
	build := func(layout ParentLayout) shared.Digest {
		tree := NewTree(layout)
		tree.Append([]byte("a"))
		tree.Append([]byte("b"))
		return tree.RootPayload().Hash()
	}
	require.NotEqual(t, build(ParentLayoutLegacy), build(ParentLayoutChildDigests))
}

func TestEmptyTree(t *testing.T) {
	t.Parallel()
	tree := NewTree(ParentLayoutChildDigests)
	require.Empty(t, tree.Roots())
	_, ok := tree.Node(0)
	require.False(t, ok)
	total, ok := tree.RootPayload().TotalLength()
	require.True(t, ok)
	require.Zero(t, total)
}
