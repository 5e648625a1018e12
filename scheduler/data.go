package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/hash"
	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/registry"
	"github.com/spacemeshos/datverify/shared"
	"github.com/spacemeshos/datverify/signing"
)

// RegisterData registers a dat under key, or publishes a new root for a dat
// the caller registered before. sig must be the signature of root's digest
// by key.
func (s *Scheduler) RegisterData(
	ctx context.Context,
	caller shared.AccountID,
	key shared.PublicKey,
	root hash.RootPayload,
	sig shared.Signature,
) error {
	rootHash := root.Hash()
	if err := signing.VerifyRoot(key, rootHash, sig); err != nil {
		return fmt.Errorf("%w: root of dat %s: %v", shared.ErrVerificationFailed, key, err)
	}
	return s.storeDat(ctx, caller, key, root, sig, false)
}

// ForceRegisterData registers a dat on behalf of owner without checking the
// root signature. It may also take over a dat registered by someone else.
func (s *Scheduler) ForceRegisterData(
	ctx context.Context,
	privileged shared.AccountID,
	owner shared.AccountID,
	key shared.PublicKey,
	root hash.RootPayload,
	sig shared.Signature,
) error {
	if err := s.requirePrivileged(privileged); err != nil {
		return err
	}
	return s.storeDat(ctx, owner, key, root, sig, true)
}

func (s *Scheduler) storeDat(
	ctx context.Context,
	owner shared.AccountID,
	key shared.PublicKey,
	root hash.RootPayload,
	sig shared.Signature,
	force bool,
) error {
	treeSize, ok := root.TotalLength()
	if !ok || treeSize == 0 {
		return fmt.Errorf("%w: dat %s", shared.ErrInvalidTreeSize, key)
	}
	logger := logging.FromContext(ctx).With(zap.Stringer("dat", key), zap.String("owner", string(owner)))

	var count int
	err := s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		rec, err := tx.Dat(key)
		updated := err == nil
		switch {
		case updated && rec.Owner != owner && !force:
			return nil, fmt.Errorf("%w: dat %s is owned by %s", shared.ErrPermission, key, rec.Owner)
		case updated:
			rec.Owner = owner
		case isNotFound(err):
			id, err := tx.AllocateDatID()
			if err != nil {
				return nil, err
			}
			rec = &shared.DatRecord{ID: id, Key: key, Owner: owner}
		default:
			return nil, err
		}
		rec.RootHash = root.Hash()
		rec.RootSignature = sig
		rec.TreeSize = treeSize
		if err := tx.PutDat(rec); err != nil {
			return nil, err
		}
		ids, err := tx.DatIDs()
		if err != nil {
			return nil, err
		}
		count = len(ids)
		logger.Debug("storing dat", zap.Uint64("id", rec.ID), zap.Uint64("tree_size", treeSize), zap.Bool("updated", updated))
		return []Event{DatStored{ID: rec.ID, Key: key, Owner: owner, Updated: updated}}, nil
	})
	if err != nil {
		return err
	}
	datsMetric.Set(float64(count))
	return nil
}

// UnregisterData removes the dat with the given id along with every pin on
// it. Challenges pending on the dat are cleared without penalty at the end
// of the round.
func (s *Scheduler) UnregisterData(ctx context.Context, caller shared.AccountID, id uint64) error {
	var count int
	err := s.update(ctx, func(tx *registry.Txn) ([]Event, error) {
		key, err := tx.DatKey(id)
		if err != nil {
			return nil, err
		}
		rec, err := tx.Dat(key)
		if err != nil {
			return nil, fmt.Errorf("%w: dat id %d points to missing dat: %v", shared.ErrInvalidState, id, err)
		}
		if rec.Owner != caller {
			return nil, fmt.Errorf("%w: dat %d is owned by %s", shared.ErrPermission, id, rec.Owner)
		}
		hosters, err := tx.Hosters(key)
		if err != nil {
			return nil, err
		}
		for _, seeder := range hosters {
			if err := unpin(tx, seeder, id); err != nil {
				return nil, err
			}
		}
		tx.DeleteDat(rec)
		if err := tx.ReleaseDatID(id); err != nil {
			return nil, err
		}
		if err := tx.AppendRemovedDat(key); err != nil {
			return nil, err
		}
		ids, err := tx.DatIDs()
		if err != nil {
			return nil, err
		}
		count = len(ids)
		logging.FromContext(ctx).Debug("removing dat",
			zap.Uint64("id", id), zap.Stringer("dat", key), zap.Int("hosters", len(hosters)))
		return []Event{DatUnstored{ID: id, Key: key}}, nil
	})
	if err != nil {
		return err
	}
	datsMetric.Set(float64(count))
	return nil
}

// unpin drops dat id from the pins of seeder. A seeder left without pins
// leaves the seeder set.
func unpin(tx *registry.Txn, seeder shared.AccountID, id uint64) error {
	pins, err := tx.Pins(seeder)
	if err != nil {
		return err
	}
	kept := pins[:0]
	for _, pin := range pins {
		if pin != id {
			kept = append(kept, pin)
		}
	}
	if err := tx.PutPins(seeder, kept); err != nil {
		return err
	}
	if len(kept) == 0 {
		_, err := tx.RemoveSeeder(seeder)
		return err
	}
	return nil
}
