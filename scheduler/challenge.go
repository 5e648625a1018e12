package scheduler

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/registry"
	"github.com/spacemeshos/datverify/shared"
	"github.com/spacemeshos/datverify/verifier"
)

// OnRoundBegin issues a new challenge unless enough challenges are pending
// already. The challenged seeder, one of its dats and a leaf of that dat are
// all picked with a single random draw.
func (s *Scheduler) OnRoundBegin(ctx context.Context, round uint64) error {
	logger := logging.FromContext(ctx).With(zap.Uint64("round", round))
	var (
		pending int
		issued  bool
	)
	err := s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		challenges, err := tx.PendingChallenges()
		if err != nil {
			return nil, err
		}
		pending = len(challenges)
		if pending >= s.cfg.MaxPendingChallenges {
			logger.Debug("not issuing a challenge", zap.Int("pending", pending))
			return nil, nil
		}
		seeders, err := tx.Seeders()
		if err != nil {
			return nil, err
		}
		if len(seeders) == 0 {
			return nil, nil
		}

		r, err := s.nextDraw(tx, challengeNonce, []byte(challengeSubject))
		if err != nil {
			return nil, err
		}
		seeder := seeders[r%uint64(len(seeders))].Account
		for _, c := range challenges {
			if c.Seeder == seeder {
				logger.Debug("seeder is already challenged", zap.String("seeder", string(seeder)), zap.Uint64("challenge", c.ID))
				return nil, nil
			}
		}
		pins, err := tx.Pins(seeder)
		if err != nil {
			return nil, err
		}
		if len(pins) == 0 {
			return nil, fmt.Errorf("%w: seeder %s pins no dats", shared.ErrInvalidState, seeder)
		}
		key, err := tx.DatKey(pins[r%uint64(len(pins))])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidState, err)
		}
		dat, err := tx.Dat(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidState, err)
		}
		if dat.TreeSize == 0 {
			return nil, fmt.Errorf("%w: dat %s", shared.ErrInvalidTreeSize, key)
		}

		slot, err := acquireSlot(tx, seeder)
		if err != nil {
			return nil, err
		}
		c := &shared.Challenge{
			DatKey:    key,
			LeafIndex: r % dat.TreeSize,
			Deadline:  round + s.challengeLength(r, dat.TreeSize),
			Seeder:    seeder,
			Slot:      slot,
		}
		if _, err := tx.InsertChallenge(c); err != nil {
			return nil, err
		}
		pending++
		issued = true
		logger.Info("issued challenge", zap.Object("challenge", c))
		return []Event{ChallengeIssued{Challenge: *c}}, nil
	})
	if err != nil {
		return fmt.Errorf("beginning round %d: %w", round, err)
	}
	if issued {
		challengesMetric.WithLabelValues("issued").Inc()
	}
	pendingChallengesMetric.Set(float64(pending))
	return nil
}

// challengeLength returns the number of rounds the seeder gets to answer,
// in [1, treeSize].
func (s *Scheduler) challengeLength(r, treeSize uint64) uint64 {
	length := r%treeSize + 1
	if s.cfg.MaxChallengeRounds > 0 && length > s.cfg.MaxChallengeRounds {
		return s.cfg.MaxChallengeRounds
	}
	return length
}

// OnRoundEnd resolves the challenges that cannot be answered anymore.
// Challenges whose deadline has been reached fail: the seeder is
// unregistered and then penalized. Other challenges on dats removed during
// the round are cleared without penalty.
// A failing Penalizer does not undo the resolution. Its errors are returned
// once every expired challenge has been processed.
func (s *Scheduler) OnRoundEnd(ctx context.Context, round uint64) error {
	logger := logging.FromContext(ctx).With(zap.Uint64("round", round))
	var (
		failed  []shared.Challenge
		pending int
	)
	err := s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		removed, err := tx.RemovedDats()
		if err != nil {
			return nil, err
		}
		isRemoved := make(map[shared.PublicKey]struct{}, len(removed))
		for _, key := range removed {
			isRemoved[key] = struct{}{}
		}
		tx.DrainRemovedDats()

		challenges, err := tx.PendingChallenges()
		if err != nil {
			return nil, err
		}
		var events []Event
		for _, c := range challenges {
			if c.Deadline > round {
				if _, ok := isRemoved[c.DatKey]; ok {
					if err := clearChallenge(tx, c); err != nil {
						return nil, err
					}
					logger.Info("cleared challenge on removed dat", zap.Object("challenge", c))
					events = append(events, ChallengeCleared{Challenge: *c, Reason: ClearedDatRemoved})
					continue
				}
				pending++
				continue
			}
			// removing the dat in the deadline round does not excuse the seeder
			if err := unregisterSeeder(tx, c.Seeder); err != nil {
				return nil, err
			}
			if err := clearChallenge(tx, c); err != nil {
				return nil, err
			}
			logger.Info("challenge expired", zap.Object("challenge", c))
			failed = append(failed, *c)
			events = append(events, ChallengeFailed{Challenge: *c})
		}
		return events, nil
	})
	if err != nil {
		return fmt.Errorf("ending round %d: %w", round, err)
	}
	pendingChallengesMetric.Set(float64(pending))

	var result *multierror.Error
	for _, c := range failed {
		challengesMetric.WithLabelValues("failed").Inc()
		if err := s.penalizer.Penalize(ctx, c.Seeder, c); err != nil {
			logger.Error("failed to penalize seeder", zap.String("seeder", string(c.Seeder)), zap.Error(err))
			result = multierror.Append(result, fmt.Errorf("penalizing %s for challenge %d: %w", c.Seeder, c.ID, err))
		}
	}
	return result.ErrorOrNil()
}

// SubmitProof answers a pending challenge. The challenge is cleared only if
// the proof verifies; otherwise it stays pending and the caller may retry
// until the deadline.
func (s *Scheduler) SubmitProof(
	ctx context.Context,
	caller shared.AccountID,
	challengeID uint64,
	proof *shared.Proof,
	claimedRoot shared.Digest,
	chunk []byte,
) error {
	logger := logging.FromContext(ctx).With(zap.String("seeder", string(caller)), zap.Uint64("challenge", challengeID))
	err := s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		c, ok, err := tx.Challenge(challengeID)
		if err != nil {
			return nil, err
		}
		if !ok || c.Seeder != caller {
			return nil, fmt.Errorf("%w: %s has no pending challenge %d", shared.ErrPermission, caller, challengeID)
		}
		if err := verifier.Verify(c, proof, claimedRoot, chunk); err != nil {
			proofsMetric.WithLabelValues("rejected").Inc()
			logger.Debug("rejected proof", zap.Error(err))
			return nil, err
		}
		if err := clearChallenge(tx, c); err != nil {
			return nil, err
		}
		return []Event{ChallengeCleared{Challenge: *c, Reason: ClearedByProof}}, nil
	})
	if err != nil {
		return err
	}
	proofsMetric.WithLabelValues("accepted").Inc()
	challengesMetric.WithLabelValues("cleared").Inc()
	pendingChallengesMetric.Dec()
	logger.Info("challenge answered")
	return nil
}

// ForceClearChallenge clears a challenge of seeder without a proof.
// Clearing a challenge that does not exist (anymore) succeeds and changes
// nothing.
func (s *Scheduler) ForceClearChallenge(
	ctx context.Context,
	privileged shared.AccountID,
	seeder shared.AccountID,
	challengeID uint64,
) error {
	if err := s.requirePrivileged(privileged); err != nil {
		return err
	}
	cleared := false
	err := s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		c, ok, err := tx.Challenge(challengeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			logging.FromContext(ctx).Debug("challenge already cleared", zap.Uint64("challenge", challengeID))
			return nil, nil
		}
		if c.Seeder != seeder {
			return nil, fmt.Errorf("%w: challenge %d belongs to %s, not %s", shared.ErrInvalidState, challengeID, c.Seeder, seeder)
		}
		if err := clearChallenge(tx, c); err != nil {
			return nil, err
		}
		cleared = true
		return []Event{ChallengeCleared{Challenge: *c, Reason: ClearedByForce}}, nil
	})
	if err != nil {
		return err
	}
	if cleared {
		challengesMetric.WithLabelValues("cleared").Inc()
		pendingChallengesMetric.Dec()
	}
	return nil
}

// acquireSlot returns the slot of seeder, assigning the lowest free one if
// it holds none, and counts one more pending challenge on it.
func acquireSlot(tx *registry.Txn, seeder shared.AccountID) (uint64, error) {
	slot, ok, err := tx.Slot(seeder)
	if err != nil {
		return 0, err
	}
	if !ok {
		index, err := tx.AllocateSlot()
		if err != nil {
			return 0, err
		}
		slot = &shared.SeederSlot{Index: index}
	}
	slot.Pending++
	return slot.Index, tx.PutSlot(seeder, slot)
}

// clearChallenge removes c and releases its share of the seeder slot.
// It is the only way a challenge leaves the registry.
func clearChallenge(tx *registry.Txn, c *shared.Challenge) error {
	slot, ok, err := tx.Slot(c.Seeder)
	if err != nil {
		return err
	}
	if !ok || slot.Index != c.Slot || slot.Pending == 0 {
		return fmt.Errorf("%w: challenge %d references slot %d of %s", shared.ErrInvalidState, c.ID, c.Slot, c.Seeder)
	}
	if err := tx.DeleteChallenge(c.ID); err != nil {
		return err
	}
	slot.Pending--
	if slot.Pending > 0 {
		return tx.PutSlot(c.Seeder, slot)
	}
	tx.DeleteSlot(c.Seeder)
	return tx.ReleaseSlot(slot.Index)
}
