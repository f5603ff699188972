package settlement

import (
	"log"
	"math"

	"github.com/quantadex/stellar-core/internal/asset"
	"github.com/quantadex/stellar-core/internal/ledgerstate"
)

// Apply executes the matched orders of op that CheckValid marked
// Success, mutating result in place (it shares op's index order and
// backing array with the vector CheckValid produced). Precondition:
// CheckValid returned accept for op against result.
//
// Apply opens its own storage transaction and derives a child delta T
// from callerDelta (spec.md §4.4); each order's four balance
// mutations are staged to a grand-child of T and only folded into T
// once all four succeed — the per-order grand-child delta spec.md §9
// recommends as a tightening of the documented weakness, implemented
// here rather than left as the weaker behaviour. T (and the storage
// transaction underneath it) is committed once, after the loop,
// regardless of how many individual orders failed: failure of an
// order is never failure of the operation.
func Apply(
	op SettlementOp,
	result SettlementResult,
	store *ledgerstate.Store,
	handles *ledgerstate.HandleSet,
	callerDelta *ledgerstate.LedgerDelta,
	logger *log.Logger,
	metrics *Metrics,
) error {
	txn := store.Begin()
	t := callerDelta.DeriveWithTxn(txn)

	for i, mo := range op.Orders {
		if result[i] != Success {
			continue
		}
		code := applyOrder(t, handles, store, mo)
		result[i] = code
		if code != Success {
			if logger != nil {
				logger.Printf("settlement: order %d failed: %s", i, code)
			}
			metrics.IncInvalid(code)
		}
	}

	if err := t.Commit(); err != nil {
		return err
	}
	metrics.IncSuccess()
	return nil
}

// applyOrder runs one matched order's checks and, on success, its
// four balance mutations, against a grand-child of t. It returns the
// result code for this order; the grand-child is committed into t
// only when it returns Success.
func applyOrder(t *ledgerstate.LedgerDelta, handles *ledgerstate.HandleSet, store *ledgerstate.Store, mo MatchedOrder) ResultCode {
	if _, err := t.GetAccount(handles, store, mo.Buyer); err != nil {
		return BuyerAccountInvalid
	}
	if _, err := t.GetAccount(handles, store, mo.Seller); err != nil {
		return SellerAccountInvalid
	}

	if code := validateTrustlines(t, handles, store, mo.Buyer, mo.AssetBuy, mo.AssetSell); code != Success {
		return code
	}
	if code := validateTrustlines(t, handles, store, mo.Seller, mo.AssetBuy, mo.AssetSell); code != Success {
		return code
	}

	maxBuyerCanReceive, err := maxReceive(t, handles, store, mo.Buyer, mo.AssetBuy)
	if err != nil {
		return BuyerAccountInvalid
	}
	if maxBuyerCanReceive < mo.AmountBuy {
		return LineFull
	}

	// maxSellerCanReceive is computed on the seller's sell-asset line's
	// max_amount_receive, as spec'd; see DESIGN.md for the open
	// question this raises about receive-vs-send semantics, preserved
	// here unchanged rather than reinterpreted.
	maxSellerCanReceive, err := maxReceive(t, handles, store, mo.Seller, mo.AssetSell)
	if err != nil {
		return SellerAccountInvalid
	}
	if maxSellerCanReceive < mo.AmountSell {
		return SellerLineFull
	}

	grand := t.Derive()

	// Fixed order: buyer-gain, buyer-loss, seller-loss, seller-gain.
	if ok, err := applyBalance(grand, handles, store, mo.Buyer, mo.AssetBuy, mo.AmountBuy); err != nil {
		return BuyerAccountInvalid
	} else if !ok {
		return BuyOverLimit
	}
	if ok, err := applyBalance(grand, handles, store, mo.Buyer, mo.AssetSell, -mo.AmountSell); err != nil {
		return BuyerAccountInvalid
	} else if !ok {
		return SellOverBalance
	}
	if ok, err := applyBalance(grand, handles, store, mo.Seller, mo.AssetBuy, -mo.AmountBuy); err != nil {
		return SellerAccountInvalid
	} else if !ok {
		return SellOverBalance
	}
	if ok, err := applyBalance(grand, handles, store, mo.Seller, mo.AssetSell, mo.AmountSell); err != nil {
		return SellerAccountInvalid
	} else if !ok {
		return BuyOverLimit
	}

	// grand has no storage transaction of its own, so Commit only
	// folds its staged changes into t and cannot fail.
	_ = grand.Commit()
	return Success
}

// maxReceive is INT64_MAX for the native asset (the account's native
// balance has no line limit) or the holder's max_amount_receive on
// the relevant trustline otherwise.
func maxReceive(t *ledgerstate.LedgerDelta, handles *ledgerstate.HandleSet, store *ledgerstate.Store, holder asset.AccountID, a asset.Asset) (int64, error) {
	if a.IsNative() {
		return math.MaxInt64, nil
	}
	tl, err := t.GetTrustline(handles, store, holder, a)
	if err != nil {
		return 0, err
	}
	return tl.MaxAmountReceive(), nil
}

// applyBalance mutates holder's balance in asset a by delta (staging
// the change to t), routing to the account's native balance or to the
// (holder, a) trustline as appropriate. It stages a modified copy, so
// the cached handle and any value already staged in an ancestor delta
// are left untouched until t is committed.
func applyBalance(t *ledgerstate.LedgerDelta, handles *ledgerstate.HandleSet, store *ledgerstate.Store, holder asset.AccountID, a asset.Asset, delta int64) (bool, error) {
	if a.IsNative() {
		acc, err := t.GetAccount(handles, store, holder)
		if err != nil {
			return false, err
		}
		next := *acc
		if !next.AddBalance(delta) {
			return false, nil
		}
		t.StoreChange(&next)
		return true, nil
	}
	tl, err := t.GetTrustline(handles, store, holder, a)
	if err != nil {
		return false, err
	}
	next := *tl
	if !next.AddBalance(delta) {
		return false, nil
	}
	t.StoreChange(&next)
	return true, nil
}
