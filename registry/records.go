package registry

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/spacemeshos/datverify/shared"
)

var (
	datRecordPrefix = []byte("dat/rec/")
	datKeyPrefix    = []byte("dat/id/")
	datIDsKey       = []byte("dat/ids")
	hostersPrefix   = []byte("dat/hosters/")
	pinsPrefix      = []byte("seeder/pins/")
	seedersKey      = []byte("seeders")
	slotPrefix      = []byte("slot/")
	slotIDsKey      = []byte("slot/ids")
	challengePrefix = []byte("challenge/")
	challengeIDsKey = []byte("challenges")
	nextChallenge   = []byte("challenge-next")
	noncePrefix     = []byte("nonce/")
	removedDatsKey  = []byte("removed-dats")
)

func key(prefix []byte, suffix []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(suffix))
	k = append(k, prefix...)
	return append(k, suffix...)
}

func idKey(prefix []byte, id uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return key(prefix, b[:])
}

// SeederEntry binds a seeder to its index in the seeder set.
type SeederEntry struct {
	Index   uint64
	Account shared.AccountID
}

// Dat returns the record of the dat identified by key.
func (tx *Txn) Dat(datKey shared.PublicKey) (*shared.DatRecord, error) {
	k := key(datRecordPrefix, datKey[:])
	if !tx.pending(k) {
		if v, ok := tx.db.cache.Get(string(k)); ok {
			rec := *v.(*shared.DatRecord)
			return &rec, nil
		}
	}
	rec := &shared.DatRecord{}
	ok, err := tx.get(k, rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: dat %s", shared.ErrNotFound, datKey)
	}
	if !tx.pending(k) {
		cached := *rec
		tx.db.cache.Add(string(k), &cached)
	}
	return rec, nil
}

func (tx *Txn) HasDat(datKey shared.PublicKey) (bool, error) {
	_, err := tx.raw(key(datRecordPrefix, datKey[:]))
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (tx *Txn) PutDat(rec *shared.DatRecord) error {
	if err := tx.put(key(datRecordPrefix, rec.Key[:]), rec); err != nil {
		return err
	}
	return tx.put(idKey(datKeyPrefix, rec.ID), rec.Key)
}

func (tx *Txn) DeleteDat(rec *shared.DatRecord) {
	tx.delete(key(datRecordPrefix, rec.Key[:]))
	tx.delete(idKey(datKeyPrefix, rec.ID))
	tx.delete(key(hostersPrefix, rec.Key[:]))
}

// DatKey resolves a dat id to the dat's public key.
func (tx *Txn) DatKey(id uint64) (shared.PublicKey, error) {
	var datKey shared.PublicKey
	ok, err := tx.get(idKey(datKeyPrefix, id), &datKey)
	if err != nil {
		return shared.PublicKey{}, err
	}
	if !ok {
		return shared.PublicKey{}, fmt.Errorf("%w: dat id %d", shared.ErrNotFound, id)
	}
	return datKey, nil
}

// DatIDs returns the ids of all registered dats in ascending order.
func (tx *Txn) DatIDs() ([]uint64, error) {
	return tx.ids(datIDsKey)
}

// AllocateDatID reserves the lowest free dat id.
func (tx *Txn) AllocateDatID() (uint64, error) {
	return tx.allocate(datIDsKey)
}

func (tx *Txn) ReleaseDatID(id uint64) error {
	return tx.release(datIDsKey, id)
}

// Hosters returns the seeders pinning a dat.
func (tx *Txn) Hosters(datKey shared.PublicKey) ([]shared.AccountID, error) {
	var hosters []shared.AccountID
	if _, err := tx.get(key(hostersPrefix, datKey[:]), &hosters); err != nil {
		return nil, err
	}
	return hosters, nil
}

func (tx *Txn) PutHosters(datKey shared.PublicKey, hosters []shared.AccountID) error {
	k := key(hostersPrefix, datKey[:])
	if len(hosters) == 0 {
		tx.delete(k)
		return nil
	}
	return tx.put(k, hosters)
}

// Pins returns the ids of the dats a seeder pins, ascending.
func (tx *Txn) Pins(account shared.AccountID) ([]uint64, error) {
	var pins []uint64
	if _, err := tx.get(key(pinsPrefix, []byte(account)), &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

func (tx *Txn) PutPins(account shared.AccountID, pins []uint64) error {
	k := key(pinsPrefix, []byte(account))
	if len(pins) == 0 {
		tx.delete(k)
		return nil
	}
	return tx.put(k, pins)
}

// Seeders returns the seeder set ordered by index.
func (tx *Txn) Seeders() ([]SeederEntry, error) {
	var seeders []SeederEntry
	if _, err := tx.get(seedersKey, &seeders); err != nil {
		return nil, err
	}
	return seeders, nil
}

// AddSeeder inserts account at the lowest free seeder index.
// It is a no-op when the account is already a member.
func (tx *Txn) AddSeeder(account shared.AccountID) (uint64, error) {
	seeders, err := tx.Seeders()
	if err != nil {
		return 0, err
	}
	var next uint64
	for _, s := range seeders {
		if s.Account == account {
			return s.Index, nil
		}
		if s.Index == next {
			next++
		}
	}
	seeders = append(seeders, SeederEntry{Index: next, Account: account})
	sort.Slice(seeders, func(i, j int) bool { return seeders[i].Index < seeders[j].Index })
	return next, tx.put(seedersKey, seeders)
}

// RemoveSeeder drops account from the seeder set.
// It reports whether the account was a member.
func (tx *Txn) RemoveSeeder(account shared.AccountID) (bool, error) {
	seeders, err := tx.Seeders()
	if err != nil {
		return false, err
	}
	for i, s := range seeders {
		if s.Account != account {
			continue
		}
		seeders = append(seeders[:i], seeders[i+1:]...)
		if len(seeders) == 0 {
			tx.delete(seedersKey)
			return true, nil
		}
		return true, tx.put(seedersKey, seeders)
	}
	return false, nil
}

// Slot returns the challenge slot of a seeder, if it holds one.
func (tx *Txn) Slot(account shared.AccountID) (*shared.SeederSlot, bool, error) {
	slot := &shared.SeederSlot{}
	ok, err := tx.get(key(slotPrefix, []byte(account)), slot)
	if err != nil || !ok {
		return nil, false, err
	}
	return slot, true, nil
}

func (tx *Txn) PutSlot(account shared.AccountID, slot *shared.SeederSlot) error {
	return tx.put(key(slotPrefix, []byte(account)), slot)
}

func (tx *Txn) DeleteSlot(account shared.AccountID) {
	tx.delete(key(slotPrefix, []byte(account)))
}

// AllocateSlot reserves the lowest free challenge slot index.
func (tx *Txn) AllocateSlot() (uint64, error) {
	return tx.allocate(slotIDsKey)
}

func (tx *Txn) ReleaseSlot(index uint64) error {
	return tx.release(slotIDsKey, index)
}

func (tx *Txn) Challenge(id uint64) (*shared.Challenge, bool, error) {
	c := &shared.Challenge{}
	ok, err := tx.get(idKey(challengePrefix, id), c)
	if err != nil || !ok {
		return nil, false, err
	}
	return c, true, nil
}

// PendingChallenges returns all open challenges ordered by id.
func (tx *Txn) PendingChallenges() ([]*shared.Challenge, error) {
	ids, err := tx.ids(challengeIDsKey)
	if err != nil {
		return nil, err
	}
	challenges := make([]*shared.Challenge, 0, len(ids))
	for _, id := range ids {
		c, ok, err := tx.Challenge(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: challenge %d listed but missing", shared.ErrInvalidState, id)
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

// InsertChallenge stores c under the next challenge id and returns the id.
func (tx *Txn) InsertChallenge(c *shared.Challenge) (uint64, error) {
	var next uint64
	if _, err := tx.get(nextChallenge, &next); err != nil {
		return 0, err
	}
	c.ID = next
	if err := tx.put(nextChallenge, next+1); err != nil {
		return 0, err
	}
	if err := tx.insertID(challengeIDsKey, c.ID); err != nil {
		return 0, err
	}
	return c.ID, tx.put(idKey(challengePrefix, c.ID), c)
}

func (tx *Txn) DeleteChallenge(id uint64) error {
	tx.delete(idKey(challengePrefix, id))
	return tx.release(challengeIDsKey, id)
}

// Nonce returns the current value of a named nonce.
func (tx *Txn) Nonce(name string) (uint64, error) {
	var nonce uint64
	_, err := tx.get(key(noncePrefix, []byte(name)), &nonce)
	return nonce, err
}

func (tx *Txn) PutNonce(name string, nonce uint64) error {
	return tx.put(key(noncePrefix, []byte(name)), nonce)
}

// RemovedDats returns the dats unregistered since the last drain.
func (tx *Txn) RemovedDats() ([]shared.PublicKey, error) {
	var removed []shared.PublicKey
	if _, err := tx.get(removedDatsKey, &removed); err != nil {
		return nil, err
	}
	return removed, nil
}

func (tx *Txn) AppendRemovedDat(datKey shared.PublicKey) error {
	removed, err := tx.RemovedDats()
	if err != nil {
		return err
	}
	for _, k := range removed {
		if k == datKey {
			return nil
		}
	}
	return tx.put(removedDatsKey, append(removed, datKey))
}

func (tx *Txn) DrainRemovedDats() {
	tx.delete(removedDatsKey)
}
