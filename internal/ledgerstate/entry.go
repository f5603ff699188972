// Package ledgerstate is the ledger façade consumed by the settlement
// core: accounts and trustlines, loaded inside a scoped LedgerDelta,
// mutated, staged, and committed, with a pebble-backed storage
// transaction underneath.
package ledgerstate

import (
	"encoding/hex"

	"github.com/quantadex/stellar-core/internal/asset"
	crypto "github.com/quantadex/stellar-core/internal/crypto/common"
)

// Entity is anything a LedgerDelta can stage and commit.
type Entity interface {
	// Key identifies the entity for de-duplicating staged writes and
	// for storage addressing; two Entity values with the same Key
	// refer to the same ledger object.
	Key() string
}

// Account is the settlement core's view of an account: its native
// balance and the handful of attributes §3 of the spec says the core
// must carry even though it only inspects them for invariants enforced
// elsewhere (master weight, thresholds).
type Account struct {
	ID            asset.AccountID
	NativeBalance int64
	MasterWeight  uint32
	LowThreshold  uint32
	HighThreshold uint32
	MinReserve    int64
}

// Key implements Entity.
func (a *Account) Key() string {
	return accountKey(a.ID)
}

func accountKey(id asset.AccountID) string {
	h := crypto.Sha512Half(append([]byte("acc"), id[:]...))
	return "A" + hex.EncodeToString(h[:])
}

// Trustline is the relation (holder, issued asset): balance, limit,
// and authorization.
type Trustline struct {
	Holder     asset.AccountID
	Line       asset.Asset
	Balance    int64
	Limit      int64
	Authorized bool
}

// Key implements Entity.
func (t *Trustline) Key() string {
	return trustlineKey(t.Holder, t.Line)
}

func trustlineKey(holder asset.AccountID, a asset.Asset) string {
	buf := append([]byte("tl"), holder[:]...)
	buf = append(buf, a.Issuer[:]...)
	buf = append(buf, []byte(a.Code)...)
	h := crypto.Sha512Half(buf)
	return "T" + hex.EncodeToString(h[:])
}

// MaxAmountReceive returns the most the trustline could still receive,
// i.e. limit minus current balance.
func (t *Trustline) MaxAmountReceive() int64 {
	return t.Limit - t.Balance
}

// IsAuthorized reports whether the holder may send or receive this
// asset over the trustline.
func (t *Trustline) IsAuthorized() bool {
	return t.Authorized
}

// AddBalance applies delta to the trustline balance, reporting false
// without mutating on overflow, underflow below zero, or a rise above
// the trustline's limit — mirroring the teacher's RippleState
// balance-update style (internal/core/tx/handler/payment/iou.go),
// generalized here from big.Float IOU amounts to the spec's
// signed-int64 trustline balances.
func (t *Trustline) AddBalance(delta int64) bool {
	next := t.Balance + delta
	if delta > 0 && next < t.Balance {
		return false // overflow
	}
	if delta < 0 && next > t.Balance {
		return false // underflow
	}
	if next < 0 || next > t.Limit {
		return false
	}
	t.Balance = next
	return true
}

// AddBalance applies delta to the account's native balance, reporting
// false without mutating on overflow, a drop below zero, or a decrease
// that would leave the balance below MinReserve. The settlement core
// sees a reserve violation only as this false return.
func (a *Account) AddBalance(delta int64) bool {
	next := a.NativeBalance + delta
	if delta > 0 && next < a.NativeBalance {
		return false
	}
	if delta < 0 && next > a.NativeBalance {
		return false
	}
	if next < 0 {
		return false
	}
	if delta < 0 && next < a.MinReserve {
		return false
	}
	a.NativeBalance = next
	return true
}
