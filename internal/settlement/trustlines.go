package settlement

import (
	"github.com/quantadex/stellar-core/internal/asset"
	"github.com/quantadex/stellar-core/internal/ledgerstate"
)

// validateTrustlines resolves the buy and sell trustlines (and their
// issuers, for non-native assets) for one account, sell side before
// buy side, per spec.md §4.5.
func validateTrustlines(
	delta *ledgerstate.LedgerDelta,
	handles *ledgerstate.HandleSet,
	store *ledgerstate.Store,
	holder asset.AccountID,
	assetBuy, assetSell asset.Asset,
) ResultCode {
	if code := checkLine(delta, handles, store, holder, assetSell, SellNoIssuer, SellNoTrust, SellNotAuthorized); code != Success {
		return code
	}
	if code := checkLine(delta, handles, store, holder, assetBuy, BuyNoIssuer, BuyNoTrust, BuyNotAuthorized); code != Success {
		return code
	}
	return Success
}

// checkLine resolves one side (buy or sell) of a trustline pair: the
// native asset always passes, since the native balance lives on the
// account itself, not a trustline.
func checkLine(
	delta *ledgerstate.LedgerDelta,
	handles *ledgerstate.HandleSet,
	store *ledgerstate.Store,
	holder asset.AccountID,
	line asset.Asset,
	noIssuer, noTrust, notAuthorized ResultCode,
) ResultCode {
	if line.IsNative() {
		return Success
	}

	if _, err := delta.GetAccount(handles, store, line.Issuer); err != nil {
		return noIssuer
	}

	tl, err := delta.GetTrustline(handles, store, holder, line)
	if err != nil {
		return noTrust
	}
	if !tl.IsAuthorized() {
		return notAuthorized
	}
	return Success
}
