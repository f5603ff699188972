package ledgerstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/stretchr/testify/require"

	"github.com/quantadex/stellar-core/internal/asset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "ledgerstate_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := pebble.Open(filepath.Join(dir, "db"), &pebble.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestRootDeltaCommitsThroughStorageTxn(t *testing.T) {
	store := openTestStore(t)
	handles, err := NewHandleSet(0)
	require.NoError(t, err)

	var holder asset.AccountID
	holder[0] = 1

	txn := store.Begin()
	root := NewRootDelta(txn)

	acc := &Account{ID: holder, NativeBalance: 1000}
	root.StoreChange(acc)
	require.NoError(t, root.Commit())

	var reloaded Account
	require.NoError(t, store.Get(accountKey(holder), &reloaded))
	require.Equal(t, int64(1000), reloaded.NativeBalance)

	// A fresh HandleSet, reading through a fresh root delta, must see
	// the committed value rather than anything cached from before.
	fresh := NewRootDelta(nil)
	got, err := fresh.GetAccount(handles, store, holder)
	require.NoError(t, err)
	require.Equal(t, int64(1000), got.NativeBalance)
}

func TestNestedDeltaCommitFoldsIntoParent(t *testing.T) {
	store := openTestStore(t)
	handles, err := NewHandleSet(0)
	require.NoError(t, err)

	var holder asset.AccountID
	holder[0] = 2
	usd := asset.Issued(holder, "USD4")

	txn := store.Begin()
	root := NewRootDelta(txn)
	seedTl := &Trustline{Holder: holder, Line: usd, Balance: 50, Limit: 500, Authorized: true}
	root.StoreChange(seedTl)
	require.NoError(t, root.Commit())

	// Re-open for the actual test: a grand-child delta stages a
	// change that must vanish unless explicitly committed up the
	// chain, and must appear once it is.
	txn2 := store.Begin()
	outer := NewRootDelta(txn2)
	child := outer.Derive()
	grandchild := child.Derive()

	tl, err := grandchild.GetTrustline(handles, store, holder, usd)
	require.NoError(t, err)
	require.Equal(t, int64(50), tl.Balance)

	tl.Balance += 25
	grandchild.StoreChange(tl)

	// Not yet committed anywhere: the outer delta must not see it.
	_, ok := outer.Lookup(trustlineKey(holder, usd))
	require.False(t, ok)

	require.NoError(t, grandchild.Commit())
	// Now child has it, outer still doesn't.
	_, ok = child.Lookup(trustlineKey(holder, usd))
	require.True(t, ok)
	_, ok = outer.Lookup(trustlineKey(holder, usd))
	require.False(t, ok)

	require.NoError(t, child.Commit())
	_, ok = outer.Lookup(trustlineKey(holder, usd))
	require.True(t, ok)

	require.NoError(t, outer.Commit())

	var reloaded Trustline
	require.NoError(t, store.Get(trustlineKey(holder, usd), &reloaded))
	require.Equal(t, int64(75), reloaded.Balance)
}

func TestGetAccountNotFound(t *testing.T) {
	store := openTestStore(t)
	handles, err := NewHandleSet(0)
	require.NoError(t, err)

	var missing asset.AccountID
	missing[0] = 0xAA

	root := NewRootDelta(nil)
	_, err = root.GetAccount(handles, store, missing)
	require.ErrorIs(t, err, ErrNotFound)
}
