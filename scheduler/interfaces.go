package scheduler

import (
	"context"

	"github.com/spacemeshos/datverify/shared"
)

//go:generate mockgen -package mocks -destination mocks/interfaces.go . Randomness,Notifier,Penalizer,Authority

// Randomness yields the random output of the current round for a subject.
type Randomness interface {
	Random(subject []byte) shared.Digest
}

// Notifier receives events after the state change they describe has been
// committed.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Penalizer punishes a seeder that let a challenge expire.
type Penalizer interface {
	Penalize(ctx context.Context, seeder shared.AccountID, challenge shared.Challenge) error
}

// Authority decides which callers may invoke privileged operations.
type Authority interface {
	IsPrivileged(caller shared.AccountID) bool
}
