package ledgerstate

import (
	"encoding/json"
	"errors"

	"github.com/cockroachdb/pebble"
	pkgerrors "github.com/pkg/errors"
)

// ErrNotFound is returned when a keyed entity has no stored value.
var ErrNotFound = errors.New("ledgerstate: entity not found")

// Store is the durable backing for ledger entities, a pebble.DB keyed
// by Entity.Key(). It sits below every LedgerDelta chain: a delta's
// Commit ultimately calls through to a Store by way of a StorageTxn.
type Store struct {
	db *pebble.DB
}

// NewStore wraps an already-open pebble database.
func NewStore(db *pebble.DB) *Store {
	return &Store{db: db}
}

// Get loads and JSON-decodes the value stored under key into dst.
func (s *Store) Get(key string, dst interface{}) error {
	val, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNotFound
		}
		return pkgerrors.Wrap(err, "ledgerstate: store get")
	}
	defer closer.Close()
	if err := json.Unmarshal(val, dst); err != nil {
		return pkgerrors.Wrap(err, "ledgerstate: store decode")
	}
	return nil
}

// Begin opens a StorageTxn: a pebble.Batch standing in for the
// "storage transaction handle" spec.md §4.2/§5 requires the applier
// to hold for the lifetime of one apply() call.
func (s *Store) Begin() *StorageTxn {
	return &StorageTxn{db: s.db, batch: s.db.NewBatch()}
}

// StorageTxn stages writes in a pebble.Batch and commits them with
// pebble.Sync exactly once, at the end of apply(), matching spec.md's
// "the storage transaction as a whole is atomic" guarantee.
type StorageTxn struct {
	db    *pebble.DB
	batch *pebble.Batch
}

// Put stages a JSON-encoded write of v under key.
func (t *StorageTxn) Put(key string, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrap(err, "ledgerstate: storage txn encode")
	}
	return t.batch.Set([]byte(key), buf, nil)
}

// Commit flushes every staged write durably.
func (t *StorageTxn) Commit() error {
	return t.batch.Commit(pebble.Sync)
}

// Rollback discards every staged write.
func (t *StorageTxn) Rollback() error {
	return t.batch.Close()
}
