// Package verifier checks merkle inclusion proofs submitted for challenges.
package verifier

import (
	"fmt"
	"sort"

	"github.com/spacemeshos/datverify/hash"
	"github.com/spacemeshos/datverify/merkle"
	"github.com/spacemeshos/datverify/shared"
	"github.com/spacemeshos/datverify/signing"
)

// Verify checks proof against the challenge it answers.
// The checks run cheapest first and stop at the first failure:
//   - the proof carries a signature of claimedRoot by the dat key,
//   - the proof is for the challenged leaf,
//   - the chunk hashes to the leaf node included in the proof,
//   - the orphan nodes of the proof hash to claimedRoot.
func Verify(
	challenge *shared.Challenge,
	proof *shared.Proof,
	claimedRoot shared.Digest,
	chunk []byte,
) error {
	if proof.Signature == nil {
		return shared.ErrUnsignedProof
	}
	if err := signing.VerifyRoot(challenge.DatKey, claimedRoot, *proof.Signature); err != nil {
		return fmt.Errorf("%w: root %s: %v", shared.ErrVerificationFailed, claimedRoot, err)
	}
	if proof.Index != challenge.LeafIndex {
		return fmt.Errorf("%w: proves %d, challenged %d", shared.ErrProvesWrongChunk, proof.Index, challenge.LeafIndex)
	}
	if err := proof.Validate(); err != nil {
		return err
	}

	leaf, ok := findNode(proof.Nodes, challenge.LeafIndex)
	if !ok {
		return fmt.Errorf("%w: no node at index %d", shared.ErrChunkHashVerificationFailed, challenge.LeafIndex)
	}
	if chunkHash := hash.LeafHash(chunk); chunkHash != leaf.Hash {
		return fmt.Errorf("%w: chunk hashes to %s, node has %s", shared.ErrChunkHashVerificationFailed, chunkHash, leaf.Hash)
	}

	if root := ExpectedRoot(challenge.LeafIndex, proof.Nodes); root != claimedRoot {
		return fmt.Errorf("%w: computed %s, claimed %s", shared.ErrRootHashVerificationFailed, root, claimedRoot)
	}
	return nil
}

// ExpectedRoot computes the root digest that nodes prove for a tree whose
// highest leaf index is leafIndex. Nodes that are not orphans are ignored.
func ExpectedRoot(leafIndex uint64, nodes []shared.Node) shared.Digest {
	orphans := merkle.OrphanIndices(leafIndex)
	var roots []shared.Node
	for _, n := range nodes {
		for _, index := range orphans {
			if n.Index == index {
				roots = append(roots, n)
				break
			}
		}
	}
	return hash.RootFromNodes(roots).Hash()
}

// findNode binary searches nodes sorted by index.
func findNode(nodes []shared.Node, index uint64) (shared.Node, bool) {
	i := sort.Search(len(nodes), func(i int) bool { return nodes[i].Index >= index })
	if i < len(nodes) && nodes[i].Index == index {
		return nodes[i], true
	}
	return shared.Node{}, false
}
