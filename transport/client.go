package transport

import (
	"context"

	"github.com/spacemeshos/datverify/hash"
	"github.com/spacemeshos/datverify/shared"
)

// Scheduler is the set of operations exposed to external callers.
type Scheduler interface {
	RegisterData(ctx context.Context, caller shared.AccountID, key shared.PublicKey, root hash.RootPayload, sig shared.Signature) error
	ForceRegisterData(ctx context.Context, privileged, owner shared.AccountID, key shared.PublicKey, root hash.RootPayload, sig shared.Signature) error
	UnregisterData(ctx context.Context, caller shared.AccountID, id uint64) error
	RegisterSeeder(ctx context.Context, caller shared.AccountID) error
	UnregisterSeeder(ctx context.Context, caller shared.AccountID) error
	SubmitProof(ctx context.Context, caller shared.AccountID, challengeID uint64, proof *shared.Proof, claimedRoot shared.Digest, chunk []byte) error
	SubmitAttestation(ctx context.Context, caller shared.AccountID, attestation shared.Attestation) error
	ForceClearChallenge(ctx context.Context, privileged, seeder shared.AccountID, challengeID uint64) error
}

// Client calls a Scheduler through an InMemory queue. It is safe for
// concurrent use.
type Client struct {
	queue *InMemory
	s     Scheduler
}

func NewClient(queue *InMemory, s Scheduler) *Client {
	return &Client{queue: queue, s: s}
}

func (c *Client) RegisterData(
	ctx context.Context,
	caller shared.AccountID,
	key shared.PublicKey,
	root hash.RootPayload,
	sig shared.Signature,
) error {
	return c.queue.Do(ctx, "register_data", func(ctx context.Context) error {
		return c.s.RegisterData(ctx, caller, key, root, sig)
	})
}

func (c *Client) ForceRegisterData(
	ctx context.Context,
	privileged, owner shared.AccountID,
	key shared.PublicKey,
	root hash.RootPayload,
	sig shared.Signature,
) error {
	return c.queue.Do(ctx, "force_register_data", func(ctx context.Context) error {
		return c.s.ForceRegisterData(ctx, privileged, owner, key, root, sig)
	})
}

func (c *Client) UnregisterData(ctx context.Context, caller shared.AccountID, id uint64) error {
	return c.queue.Do(ctx, "unregister_data", func(ctx context.Context) error {
		return c.s.UnregisterData(ctx, caller, id)
	})
}

func (c *Client) RegisterSeeder(ctx context.Context, caller shared.AccountID) error {
	return c.queue.Do(ctx, "register_seeder", func(ctx context.Context) error {
		return c.s.RegisterSeeder(ctx, caller)
	})
}

func (c *Client) UnregisterSeeder(ctx context.Context, caller shared.AccountID) error {
	return c.queue.Do(ctx, "unregister_seeder", func(ctx context.Context) error {
		return c.s.UnregisterSeeder(ctx, caller)
	})
}

func (c *Client) SubmitProof(
	ctx context.Context,
	caller shared.AccountID,
	challengeID uint64,
	proof *shared.Proof,
	claimedRoot shared.Digest,
	chunk []byte,
) error {
	return c.queue.Do(ctx, "submit_proof", func(ctx context.Context) error {
		return c.s.SubmitProof(ctx, caller, challengeID, proof, claimedRoot, chunk)
	})
}

func (c *Client) SubmitAttestation(ctx context.Context, caller shared.AccountID, attestation shared.Attestation) error {
	return c.queue.Do(ctx, "submit_attestation", func(ctx context.Context) error {
		return c.s.SubmitAttestation(ctx, caller, attestation)
	})
}

func (c *Client) ForceClearChallenge(ctx context.Context, privileged, seeder shared.AccountID, challengeID uint64) error {
	return c.queue.Do(ctx, "force_clear_challenge", func(ctx context.Context) error {
		return c.s.ForceClearChallenge(ctx, privileged, seeder, challengeID)
	})
}
