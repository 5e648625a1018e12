package shared

import "errors"

var (
	ErrPermission                  = errors.New("caller is not permitted to perform this action")
	ErrUnsignedProof               = errors.New("proof is not signed")
	ErrVerificationFailed          = errors.New("signature verification failed")
	ErrProvesWrongChunk            = errors.New("proof is for a different chunk")
	ErrMissingLeaf                 = errors.New("leaf is missing")
	ErrChunkHashVerificationFailed = errors.New("chunk hash verification failed")
	ErrRootHashVerificationFailed  = errors.New("root hash verification failed")
	ErrInvalidState                = errors.New("invalid registry state")
	ErrInvalidTreeSize             = errors.New("invalid tree size")

	ErrMalformedProof = errors.New("malformed proof")
	ErrNotFound       = errors.New("not found")
)
