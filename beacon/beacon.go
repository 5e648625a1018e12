// Package beacon provides a deterministic per-round randomness source.
//
// The output of a round is sha256(seed || round), so any two nodes
// configured with the same seed draw the same values in the same round.
// It offers no unpredictability against a party who knows the seed.
package beacon

import (
	"encoding/binary"

	"github.com/minio/sha256-simd"

	"github.com/spacemeshos/datverify/shared"
)

type Beacon struct {
	seed    shared.Digest
	round   uint64
	current shared.Digest
}

// New creates a beacon positioned at round 0.
func New(seed []byte) *Beacon {
	b := &Beacon{seed: sha256.Sum256(seed)}
	b.Advance(0)
	return b
}

// Advance moves the beacon to round.
func (b *Beacon) Advance(round uint64) {
	var buf [shared.DigestSize + 8]byte
	copy(buf[:], b.seed[:])
	binary.BigEndian.PutUint64(buf[shared.DigestSize:], round)
	b.round = round
	b.current = sha256.Sum256(buf[:])
}

func (b *Beacon) Round() uint64 {
	return b.round
}

// Random returns the round output bound to subject.
func (b *Beacon) Random(subject []byte) shared.Digest {
	h := sha256.New()
	h.Write(b.current[:])
	h.Write(subject)
	var out shared.Digest
	h.Sum(out[:0])
	return out
}
