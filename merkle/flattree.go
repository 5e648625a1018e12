// Package merkle implements the flat-tree index arithmetic used to address
// the nodes of a dat's binary merkle tree.
//
// Every node, leaf or internal, is addressed by a single integer. Leaves sit
// at even indices; a node's height is the number of consecutive set bits at
// the low end of its index:
//
//	      3
//	  1       5
//	0   2   4   6
package merkle

import "math/bits"

// MaxHeight is the tallest height representable by a uint64 index.
const MaxHeight = 63

// Height returns the number of consecutive set low-order bits of index.
func Height(index uint64) uint32 {
	return uint32(bits.TrailingZeros64(^index))
}

// RelativeIndex returns the position of index among nodes of the same height.
func RelativeIndex(index uint64) uint64 {
	return IndexAtHeight(index, Height(index))
}

// IndexAtHeight returns index / 2^height.
func IndexAtHeight(index uint64, height uint32) uint64 {
	if height > MaxHeight {
		return 0
	}
	return index >> height
}

// TopIndexAtHeight returns the last node of the given height in a tree whose
// highest leaf index is maxIndex.
// At height 0 the answer is always maxIndex. For taller heights the first
// candidate is 2^h-1 and the walk advances one sibling pair (2^(h+1)) at a time
// as long as the right-most leaf below the next candidate still fits.
func TopIndexAtHeight(height uint32, maxIndex uint64) (uint64, bool) {
	if height == 0 {
		return maxIndex, true
	}
	if height >= MaxHeight {
		return 0, false
	}
	offset := uint64(1)<<height - 1
	if maxIndex <= offset {
		return 0, false
	}
	interval := uint64(1) << (height + 1)
	if maxIndex < 2*offset {
		return offset, true
	}
	steps := (maxIndex - 2*offset) / interval
	return offset + steps*interval, true
}

// HighestPresentHeight returns the tallest height holding at least one node
// when the tree's highest leaf index is maxIndex.
func HighestPresentHeight(maxIndex uint64) uint32 {
	current := maxIndex
	var height uint32
	for height < MaxHeight && current > uint64(1)<<height {
		step := uint64(1) << (height + 1)
		if current < step {
			break
		}
		current -= step
		height++
	}
	return height
}

// OrphanIndices returns, in ascending order, the even top indices of every
// present height. Their digests, fed into a root payload, reproduce the root
// hash of a tree whose highest leaf index is maxIndex.
func OrphanIndices(maxIndex uint64) []uint64 {
	var indices []uint64
	for h := uint32(0); h <= HighestPresentHeight(maxIndex); h++ {
		top, ok := TopIndexAtHeight(h, maxIndex)
		if ok && top%2 == 0 {
			indices = append(indices, top)
		}
	}
	return indices
}

// IsOrphan reports whether index is one of OrphanIndices(maxIndex).
func IsOrphan(index, maxIndex uint64) bool {
	for _, orphan := range OrphanIndices(maxIndex) {
		if orphan == index {
			return true
		}
	}
	return false
}
