package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeight(t *testing.T) {
	t.Parallel()
	for index, height := range map[uint64]uint32{
		0:  0,
		1:  1,
		2:  0,
		3:  2,
		4:  0,
		5:  1,
		7:  3,
		11: 2,
		15: 4,
	} {
		require.Equal(t, height, Height(index), "index %d", index)
	}
	require.EqualValues(t, 64, Height(^uint64(0)))
}

func TestRelativeIndex(t *testing.T) {
	t.Parallel()
	require.EqualValues(t, 0, RelativeIndex(0))
	require.EqualValues(t, 3, RelativeIndex(6))
	require.EqualValues(t, 0, RelativeIndex(3))
	require.EqualValues(t, 2, RelativeIndex(5))
	require.EqualValues(t, 2, RelativeIndex(11))

	require.EqualValues(t, 6, IndexAtHeight(6, 0))
	require.EqualValues(t, 1, IndexAtHeight(6, 2))
	require.EqualValues(t, 0, IndexAtHeight(6, 64))
}

func TestTopIndexAtHeight(t *testing.T) {
	t.Parallel()
	tests := []struct {
		height   uint32
		maxIndex uint64
		top      uint64
		ok       bool
	}{
		{height: 0, maxIndex: 0, top: 0, ok: true},
		{height: 0, maxIndex: 7, top: 7, ok: true},
		{height: 1, maxIndex: 1, ok: false},
		{height: 1, maxIndex: 2, top: 1, ok: true},
		{height: 1, maxIndex: 4, top: 1, ok: true},
		{height: 1, maxIndex: 6, top: 5, ok: true},
		{height: 1, maxIndex: 10, top: 9, ok: true},
		{height: 2, maxIndex: 3, ok: false},
		{height: 2, maxIndex: 4, top: 3, ok: true},
		{height: 2, maxIndex: 14, top: 11, ok: true},
		{height: 3, maxIndex: 14, top: 7, ok: true},
		{height: 63, maxIndex: ^uint64(0), ok: false},
	}
	for _, tc := range tests {
		top, ok := TopIndexAtHeight(tc.height, tc.maxIndex)
		require.Equal(t, tc.ok, ok, "height %d max %d", tc.height, tc.maxIndex)
		require.Equal(t, tc.top, top, "height %d max %d", tc.height, tc.maxIndex)
	}
}

// topIndexAtHeightWalk is the step-by-step walk TopIndexAtHeight shortcuts.
func topIndexAtHeightWalk(height uint32, maxIndex uint64) (uint64, bool) {
	if height == 0 {
		return maxIndex, true
	}
	offset := uint64(1)<<height - 1
	interval := uint64(1) << (height + 1)
	if maxIndex <= offset {
		return 0, false
	}
	top := offset
	for top+interval+offset <= maxIndex {
		top += interval
	}
	return top, true
}

func TestTopIndexAtHeightMatchesWalk(t *testing.T) {
	t.Parallel()
	for maxIndex := uint64(0); maxIndex < 2048; maxIndex++ {
		for h := uint32(0); h < 12; h++ {
			top, ok := TopIndexAtHeight(h, maxIndex)
			wantTop, wantOk := topIndexAtHeightWalk(h, maxIndex)
			require.Equal(t, wantOk, ok)
			require.Equal(t, wantTop, top)
		}
	}
}

func TestHighestPresentHeight(t *testing.T) {
	t.Parallel()
	for maxIndex, height := range map[uint64]uint32{
		0:  0,
		1:  0,
		2:  1,
		4:  1,
		5:  1,
		6:  2,
		7:  2,
		14: 3,
	} {
		require.Equal(t, height, HighestPresentHeight(maxIndex), "max index %d", maxIndex)
	}
	require.LessOrEqual(t, HighestPresentHeight(^uint64(0)), uint32(MaxHeight))
}

func TestOrphanIndices(t *testing.T) {
	t.Parallel()
	require.Equal(t, []uint64{0}, OrphanIndices(0))
	require.Empty(t, OrphanIndices(1))
	require.Equal(t, []uint64{2}, OrphanIndices(2))
	require.Empty(t, OrphanIndices(7))
	require.Equal(t, []uint64{14}, OrphanIndices(14))

	require.True(t, IsOrphan(14, 14))
	require.False(t, IsOrphan(7, 14))
}

func TestOrphanIndicesAreEvenAndStable(t *testing.T) {
	t.Parallel()
	for maxIndex := uint64(0); maxIndex < 4096; maxIndex++ {
		orphans := OrphanIndices(maxIndex)
		for i, index := range orphans {
			require.Zero(t, index%2, "max index %d", maxIndex)
			require.LessOrEqual(t, index, maxIndex)
			if i > 0 {
				require.Greater(t, index, orphans[i-1])
			}
		}
		require.Equal(t, orphans, OrphanIndices(maxIndex))
	}
}
