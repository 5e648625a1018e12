package shared

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap/zapcore"
)

const (
	DigestSize    = 32
	PublicKeySize = 32
	SignatureSize = 64
)

// Digest is a 256-bit node or root hash.
type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// PublicKey identifies a dat archive. Root hashes are signed with its
// private counterpart.
type PublicKey [PublicKeySize]byte

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

type Signature [SignatureSize]byte

// AccountID is the identity of a caller: a dat owner, a seeder or an
// administrator.
type AccountID string

// Node is one node of a dat's merkle tree addressed by its flat-tree index.
type Node struct {
	Index uint64
	Hash  Digest
	Size  uint64
}

// Proof is the evidence a seeder submits for a challenge.
type Proof struct {
	// Index of the leaf under challenge.
	Index uint64
	// Nodes sorted by index, unique.
	Nodes     []Node
	Signature *Signature
}

// Validate checks that the nodes are strictly increasing by index.
func (p *Proof) Validate() error {
	for i := 1; i < len(p.Nodes); i++ {
		if p.Nodes[i].Index <= p.Nodes[i-1].Index {
			return fmt.Errorf("%w: node %d (index %d) does not follow index %d",
				ErrMalformedProof, i, p.Nodes[i].Index, p.Nodes[i-1].Index)
		}
	}
	return nil
}

// DatRecord is a registered archive.
type DatRecord struct {
	ID            uint64
	Key           PublicKey
	Owner         AccountID
	RootHash      Digest
	RootSignature Signature
	// TreeSize is the sum of the lengths of all leaves.
	TreeSize uint64
}

// Challenge is a demand for a proof of possession of one leaf, answerable
// until the Deadline round.
type Challenge struct {
	ID        uint64
	DatKey    PublicKey
	LeafIndex uint64
	Deadline  uint64
	Seeder    AccountID
	Slot      uint64
}

// implement zap.ObjectMarshaler interface.
func (c *Challenge) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("id", c.ID)
	enc.AddString("dat", c.DatKey.String())
	enc.AddUint64("leaf", c.LeafIndex)
	enc.AddUint64("deadline", c.Deadline)
	enc.AddString("seeder", string(c.Seeder))
	enc.AddUint64("slot", c.Slot)
	return nil
}

// SeederSlot is the stable index of a seeder while it has pending
// challenges.
type SeederSlot struct {
	Index   uint64
	Pending uint64
}

// Attestation is a liveness observation of a peer on the dat network.
type Attestation struct {
	Location uint8
	// Latency is nil when the peer failed to answer.
	Latency *uint8
}
