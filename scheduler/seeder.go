package scheduler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/registry"
	"github.com/spacemeshos/datverify/shared"
)

// RegisterSeeder assigns the caller one more dat to replicate, picked at
// random among the dats it does not pin yet.
func (s *Scheduler) RegisterSeeder(ctx context.Context, caller shared.AccountID) error {
	return s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		ids, err := tx.DatIDs()
		if err != nil {
			return nil, err
		}
		pins, err := tx.Pins(caller)
		if err != nil {
			return nil, err
		}
		candidates := unpinned(ids, pins)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: no dat left for %s to pin (%d dats)", shared.ErrNotFound, caller, len(ids))
		}

		r, err := s.nextDraw(tx, pinNonce, append([]byte(pinSubject), string(caller)...))
		if err != nil {
			return nil, err
		}
		id := candidates[r%uint64(len(candidates))]
		key, err := tx.DatKey(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidState, err)
		}

		if err := tx.PutPins(caller, insertID(pins, id)); err != nil {
			return nil, err
		}
		hosters, err := tx.Hosters(key)
		if err != nil {
			return nil, err
		}
		if err := tx.PutHosters(key, append(hosters, caller)); err != nil {
			return nil, err
		}
		index, err := tx.AddSeeder(caller)
		if err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Debug("pinned dat",
			zap.String("seeder", string(caller)), zap.Uint64("seeder_index", index), zap.Uint64("dat_id", id))
		return []Event{NewPin{Seeder: caller, DatID: id, DatKey: key}}, nil
	})
}

// UnregisterSeeder drops every pin of the caller and removes it from the
// seeder set. Challenges already issued to the caller stay pending.
func (s *Scheduler) UnregisterSeeder(ctx context.Context, caller shared.AccountID) error {
	return s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		return nil, unregisterSeeder(tx, caller)
	})
}

func unregisterSeeder(tx *registry.Txn, seeder shared.AccountID) error {
	pins, err := tx.Pins(seeder)
	if err != nil {
		return err
	}
	for _, id := range pins {
		key, err := tx.DatKey(id)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		hosters, err := tx.Hosters(key)
		if err != nil {
			return err
		}
		kept := hosters[:0]
		for _, h := range hosters {
			if h != seeder {
				kept = append(kept, h)
			}
		}
		if err := tx.PutHosters(key, kept); err != nil {
			return err
		}
	}
	if err := tx.PutPins(seeder, nil); err != nil {
		return err
	}
	_, err = tx.RemoveSeeder(seeder)
	return err
}

// SubmitAttestation records a liveness observation made by the caller.
func (s *Scheduler) SubmitAttestation(ctx context.Context, caller shared.AccountID, attestation shared.Attestation) error {
	s.notifier.Notify(ctx, Attested{Account: caller, Attestation: attestation})
	return nil
}

// unpinned returns the ids not present in the ascending list pins.
func unpinned(ids, pins []uint64) []uint64 {
	var out []uint64
	j := 0
	for _, id := range ids {
		for j < len(pins) && pins[j] < id {
			j++
		}
		if j < len(pins) && pins[j] == id {
			continue
		}
		out = append(out, id)
	}
	return out
}

func insertID(ids []uint64, id uint64) []uint64 {
	i := 0
	for i < len(ids) && ids[i] < id {
		i++
	}
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
