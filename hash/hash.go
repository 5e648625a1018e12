// Package hash builds the canonical pre-images of dat merkle tree nodes and
// digests them with BLAKE2b-256.
//
// The pre-images are laid out by hand rather than produced by a general
// purpose serializer: a one byte node type followed by big-endian integers
// and raw digests.
package hash

import (
	"encoding/binary"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/spacemeshos/datverify/shared"
)

// Type is the discriminant byte leading every canonical payload.
type Type byte

const (
	TypeLeaf   Type = 0
	TypeParent Type = 1
	TypeRoot   Type = 2
)

const (
	lengthSize    = 8
	rootEntrySize = shared.DigestSize + 8 + 8
)

// Sum digests a canonical payload.
func Sum(payload []byte) shared.Digest {
	return blake2b.Sum256(payload)
}

// LeafPayload is the pre-image of a leaf: type || length || content.
type LeafPayload struct {
	Content []byte
}

func (p LeafPayload) Bytes() []byte {
	buf := make([]byte, 1+lengthSize, 1+lengthSize+len(p.Content))
	buf[0] = byte(TypeLeaf)
	binary.BigEndian.PutUint64(buf[1:], uint64(len(p.Content)))
	return append(buf, p.Content...)
}

func (p LeafPayload) Hash() shared.Digest {
	return Sum(p.Bytes())
}

// LeafHash returns the digest of a chunk as a merkle leaf.
func LeafHash(chunk []byte) shared.Digest {
	return LeafPayload{Content: chunk}.Hash()
}

// ParentLayout selects which fields of a parent node enter its pre-image.
type ParentLayout int

const (
	// ParentLayoutChildDigests hashes type || total length || left || right.
	ParentLayoutChildDigests ParentLayout = iota
	// ParentLayoutLegacy hashes type || total length only. Two parents with
	// equal lengths but different children collide under this layout; it is
	// kept for bit-compatibility with archives registered by older writers.
	ParentLayoutLegacy
)

func (l ParentLayout) String() string {
	switch l {
	case ParentLayoutChildDigests:
		return "child-digests"
	case ParentLayoutLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("ParentLayout(%d)", int(l))
	}
}

// UnmarshalFlag implements flags.Unmarshaler.
func (l *ParentLayout) UnmarshalFlag(value string) error {
	switch value {
	case "child-digests":
		*l = ParentLayoutChildDigests
	case "legacy":
		*l = ParentLayoutLegacy
	default:
		return fmt.Errorf("unknown parent layout %q (want child-digests or legacy)", value)
	}
	return nil
}

// ParentPayload is the pre-image of an internal node.
type ParentPayload struct {
	TotalLength uint64
	Children    [2]shared.Digest
}

// NewParentPayload joins two sibling nodes.
func NewParentPayload(left, right shared.Node) ParentPayload {
	return ParentPayload{
		TotalLength: left.Size + right.Size,
		Children:    [2]shared.Digest{left.Hash, right.Hash},
	}
}

func (p ParentPayload) Bytes(layout ParentLayout) []byte {
	buf := make([]byte, 1+lengthSize, 1+lengthSize+2*shared.DigestSize)
	buf[0] = byte(TypeParent)
	binary.BigEndian.PutUint64(buf[1:], p.TotalLength)
	if layout == ParentLayoutLegacy {
		return buf
	}
	buf = append(buf, p.Children[0][:]...)
	return append(buf, p.Children[1][:]...)
}

func (p ParentPayload) Hash(layout ParentLayout) shared.Digest {
	return Sum(p.Bytes(layout))
}

// ParentHashInRoot summarizes one orphan subtree inside a root payload.
type ParentHashInRoot struct {
	Hash        shared.Digest
	Index       uint64
	TotalLength uint64
}

// RootPayload is the pre-image of a tree root: type || entry*, where every
// entry is hash(32) || index(8) || total length(8).
type RootPayload struct {
	Children []ParentHashInRoot
}

// RootFromNodes builds a root payload from nodes, sorted by index.
func RootFromNodes(nodes []shared.Node) RootPayload {
	children := make([]ParentHashInRoot, 0, len(nodes))
	for _, n := range nodes {
		children = append(children, ParentHashInRoot{
			Hash:        n.Hash,
			Index:       n.Index,
			TotalLength: n.Size,
		})
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Index < children[j].Index
	})
	return RootPayload{Children: children}
}

func (p RootPayload) Bytes() []byte {
	buf := make([]byte, 1, 1+rootEntrySize*len(p.Children))
	buf[0] = byte(TypeRoot)
	var entry [rootEntrySize]byte
	for _, child := range p.Children {
		copy(entry[:], child.Hash[:])
		binary.BigEndian.PutUint64(entry[shared.DigestSize:], child.Index)
		binary.BigEndian.PutUint64(entry[shared.DigestSize+8:], child.TotalLength)
		buf = append(buf, entry[:]...)
	}
	return buf
}

func (p RootPayload) Hash() shared.Digest {
	return Sum(p.Bytes())
}

// TotalLength sums the lengths of all children.
// It reports false when the sum overflows.
func (p RootPayload) TotalLength() (uint64, bool) {
	var total uint64
	for _, child := range p.Children {
		next := total + child.TotalLength
		if next < total {
			return 0, false
		}
		total = next
	}
	return total, true
}
