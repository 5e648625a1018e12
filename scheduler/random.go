package scheduler

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spacemeshos/go-scale"
	"golang.org/x/crypto/blake2b"

	"github.com/spacemeshos/datverify/registry"
	"github.com/spacemeshos/datverify/shared"
)

const (
	challengeSubject = "dat_verify_init"
	pinSubject       = "dat_verify_pin"

	challengeNonce = "challenge"
	pinNonce       = "pin"
)

// draw derives a 64-bit value from a random seed and a nonce: the first
// 8 bytes, little-endian, of blake2b256(scale((seed, nonce))). The tuple
// encodes as the 32 seed bytes followed by the nonce as a fixed-width
// little-endian u64.
//
// Values are reduced modulo the size of whatever is being picked, which
// slightly favors low positions when that size is not a power of two.
func draw(seed shared.Digest, nonce uint64) uint64 {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	// writes to a bytes.Buffer never fail
	_, _ = scale.EncodeByteArray(enc, seed[:])
	_, _ = scale.EncodeUint64(enc, nonce)
	sum := blake2b.Sum256(buf.Bytes())
	return binary.LittleEndian.Uint64(sum[:8])
}

// nextDraw consumes the named nonce.
func (s *Scheduler) nextDraw(tx *registry.Txn, nonceName string, subject []byte) (uint64, error) {
	nonce, err := tx.Nonce(nonceName)
	if err != nil {
		return 0, err
	}
	if err := tx.PutNonce(nonceName, nonce+1); err != nil {
		return 0, fmt.Errorf("advancing %s nonce: %w", nonceName, err)
	}
	return draw(s.rand.Random(subject), nonce), nil
}
