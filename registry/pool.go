package registry

import (
	"errors"
	"sort"

	"github.com/syndtr/goleveldb/leveldb"
)

// Id pools are stored as an ascending list of the ids in use. Freed ids are
// handed out again before the pool grows.

func (tx *Txn) ids(k []byte) ([]uint64, error) {
	var ids []uint64
	if _, err := tx.get(k, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (tx *Txn) putIDs(k []byte, ids []uint64) error {
	if len(ids) == 0 {
		tx.delete(k)
		return nil
	}
	return tx.put(k, ids)
}

func (tx *Txn) allocate(k []byte) (uint64, error) {
	ids, err := tx.ids(k)
	if err != nil {
		return 0, err
	}
	id := lowestFree(ids)
	return id, tx.putIDs(k, insertSorted(ids, id))
}

func (tx *Txn) insertID(k []byte, id uint64) error {
	ids, err := tx.ids(k)
	if err != nil {
		return err
	}
	return tx.putIDs(k, insertSorted(ids, id))
}

func (tx *Txn) release(k []byte, id uint64) error {
	ids, err := tx.ids(k)
	if err != nil {
		return err
	}
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i == len(ids) || ids[i] != id {
		return nil
	}
	return tx.putIDs(k, append(ids[:i], ids[i+1:]...))
}

// lowestFree returns the smallest id missing from the ascending list ids.
func lowestFree(ids []uint64) uint64 {
	for i, id := range ids {
		if id != uint64(i) {
			return uint64(i)
		}
	}
	return uint64(len(ids))
}

func insertSorted(ids []uint64, id uint64) []uint64 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func isNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}
