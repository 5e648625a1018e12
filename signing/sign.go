package signing

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/spacemeshos/datverify/shared"
)

var (
	ErrSignatureInvalid = errors.New("signature is invalid")
	ErrInvalidKeyLen    = errors.New("private key has invalid length")
)

// SignRoot signs a root digest with a dat's private key.
func SignRoot(privKey ed25519.PrivateKey, root shared.Digest) (shared.Signature, error) {
	if l := len(privKey); l != ed25519.PrivateKeySize {
		return shared.Signature{}, fmt.Errorf("%w: %d", ErrInvalidKeyLen, l)
	}
	var sig shared.Signature
	copy(sig[:], ed25519.Sign(privKey, root[:]))
	return sig, nil
}

// VerifyRoot checks that sig is the signature of root by the dat key.
func VerifyRoot(key shared.PublicKey, root shared.Digest, sig shared.Signature) error {
	if !ed25519.Verify(key[:], root[:], sig[:]) {
		return ErrSignatureInvalid
	}
	return nil
}

// PublicKey extracts the dat key of privKey.
func PublicKey(privKey ed25519.PrivateKey) shared.PublicKey {
	var key shared.PublicKey
	copy(key[:], privKey.Public().(ed25519.PublicKey))
	return key
}
