package ledgerstate

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/quantadex/stellar-core/internal/asset"
)

// trustlineCacheKey is the HandleSet lookup key for a trustline: the
// holder account plus the (issuer, code) pair identifying the asset.
type trustlineCacheKey struct {
	holder asset.AccountID
	issuer asset.AccountID
	code   string
}

// HandleSet is the per-apply-call cache of mutable Account/Trustline
// handles described in spec.md §9: "do not reload from storage between
// indices" of the same settlement operation. It is scoped to a single
// apply() invocation and discarded afterward — unlike the teacher's
// ledger.LedgerCache, it is never kept alive across operations, since
// caching mutable ledger handles across unrelated settlements would let
// one operation observe another's uncommitted state.
type HandleSet struct {
	accounts   *lru.Cache[asset.AccountID, *Account]
	trustlines *lru.Cache[trustlineCacheKey, *Trustline]
}

// DefaultHandleSetSize bounds the LRU per entity kind; one matched
// order touches at most four accounts (buyer, seller and the two
// issuers) and four trustlines, so this holds the handles of many
// orders of a single apply() call.
const DefaultHandleSetSize = 256

// NewHandleSet allocates a HandleSet with the given LRU capacity per
// entity kind.
func NewHandleSet(size int) (*HandleSet, error) {
	if size <= 0 {
		size = DefaultHandleSetSize
	}
	accounts, err := lru.New[asset.AccountID, *Account](size)
	if err != nil {
		return nil, err
	}
	trustlines, err := lru.New[trustlineCacheKey, *Trustline](size)
	if err != nil {
		return nil, err
	}
	return &HandleSet{accounts: accounts, trustlines: trustlines}, nil
}

// Account returns the cached handle for id, loading it from store on a
// cache miss.
func (h *HandleSet) Account(store *Store, id asset.AccountID) (*Account, error) {
	if acc, ok := h.accounts.Get(id); ok {
		return acc, nil
	}
	var acc Account
	if err := store.Get(accountKey(id), &acc); err != nil {
		return nil, err
	}
	acc.ID = id
	h.accounts.Add(id, &acc)
	return &acc, nil
}

// Trustline returns the cached handle for (holder, line), loading it
// from store on a cache miss.
func (h *HandleSet) Trustline(store *Store, holder asset.AccountID, line asset.Asset) (*Trustline, error) {
	key := trustlineCacheKey{holder: holder, issuer: line.Issuer, code: line.Code}
	if tl, ok := h.trustlines.Get(key); ok {
		return tl, nil
	}
	var tl Trustline
	if err := store.Get(trustlineKey(holder, line), &tl); err != nil {
		return nil, err
	}
	tl.Holder = holder
	tl.Line = line
	h.trustlines.Add(key, &tl)
	return &tl, nil
}
