package ledgerstate

import "github.com/quantadex/stellar-core/internal/asset"

// LedgerDelta is a staged, inspectable log of entity mutations over a
// parent (another LedgerDelta, or nothing for the root). It never
// mutates storage itself; Commit either folds its log into the
// parent's log, or — for the root delta — writes every staged entity
// through a StorageTxn and commits it once.
//
// The nesting is grounded in the delta-over-parent-context shape used
// for staged-not-applied mutation structs elsewhere in the ecosystem:
// a child observes everything its parent has staged, but the parent
// observes nothing from the child until the child commits.
type LedgerDelta struct {
	parent  *LedgerDelta
	txn     *StorageTxn
	changes map[string]Entity
}

// NewRootDelta opens the outermost delta of one apply() call, backed
// by a storage transaction. Its Commit is the point at which the
// pebble.Batch is flushed.
func NewRootDelta(txn *StorageTxn) *LedgerDelta {
	return &LedgerDelta{txn: txn, changes: make(map[string]Entity)}
}

// Derive opens a child delta scoped to d. The child reads through to
// d (and d's ancestors) for any key it has not itself staged.
func (d *LedgerDelta) Derive() *LedgerDelta {
	return &LedgerDelta{parent: d, changes: make(map[string]Entity)}
}

// DeriveWithTxn opens a child delta scoped to d that also owns a
// storage transaction. This is how Apply implements spec.md §4.4's
// "open a storage transaction S and derive a child delta T from the
// caller's delta": T reads through to the caller's delta exactly like
// a plain Derive, but its Commit both folds into the caller's delta
// and flushes S, in one call.
func (d *LedgerDelta) DeriveWithTxn(txn *StorageTxn) *LedgerDelta {
	return &LedgerDelta{parent: d, txn: txn, changes: make(map[string]Entity)}
}

// StoreChange stages e as modified in this delta.
func (d *LedgerDelta) StoreChange(e Entity) {
	d.changes[e.Key()] = e
}

// Lookup walks this delta and its ancestors (nearest first) for a
// staged entity under key, reporting whether one was found. It never
// reaches into storage — callers fall back to a HandleSet/Store
// lookup on a miss.
func (d *LedgerDelta) Lookup(key string) (Entity, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		if e, ok := cur.changes[key]; ok {
			return e, true
		}
	}
	return nil, false
}

// Commit folds this delta's staged changes into its parent (if any),
// and — if this delta owns a storage transaction — writes those same
// changes through it and commits it. A delta that is never committed
// is simply discarded; Go's garbage collector reclaims its change
// log, there is no implicit rollback to perform.
func (d *LedgerDelta) Commit() error {
	if d.parent != nil {
		for k, e := range d.changes {
			d.parent.changes[k] = e
		}
	}
	if d.txn != nil {
		for _, e := range d.changes {
			if err := d.txn.Put(e.Key(), e); err != nil {
				return err
			}
		}
		return d.txn.Commit()
	}
	return nil
}

// GetAccount resolves id against this delta chain, falling back to
// the shared HandleSet (and ultimately the Store) on a miss.
func (d *LedgerDelta) GetAccount(handles *HandleSet, store *Store, id asset.AccountID) (*Account, error) {
	key := accountKey(id)
	if e, ok := d.Lookup(key); ok {
		return e.(*Account), nil
	}
	return handles.Account(store, id)
}

// GetTrustline resolves (holder, line) against this delta chain,
// falling back to the shared HandleSet (and ultimately the Store) on
// a miss.
func (d *LedgerDelta) GetTrustline(handles *HandleSet, store *Store, holder asset.AccountID, line asset.Asset) (*Trustline, error) {
	key := trustlineKey(holder, line)
	if e, ok := d.Lookup(key); ok {
		return e.(*Trustline), nil
	}
	return handles.Trustline(store, holder, line)
}
