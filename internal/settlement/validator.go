package settlement

import "github.com/quantadex/stellar-core/internal/asset"

// CheckValid runs the settlement operation's pure pre-checks: asset
// well-formedness, non-equal assets, non-negative amounts, no
// self-cross, plus the source-account identity check. It writes one
// code per matched order and reports accept/reject as its bool
// return. On reject, only index 0 of the result vector is meaningful.
func CheckValid(op SettlementOp, settlementAccountID asset.AccountID) (SettlementResult, bool) {
	result := make(SettlementResult, len(op.Orders))

	if op.SourceAccount != settlementAccountID {
		if len(result) > 0 {
			result[0] = SourceAccountInvalid
		} else {
			result = SettlementResult{SourceAccountInvalid}
		}
		return result, false
	}

	for i, mo := range op.Orders {
		result[i] = checkOrder(mo)
	}
	return result, true
}

// checkOrder applies the per-order structural checks in spec order:
// the first failing check determines the code.
func checkOrder(mo MatchedOrder) ResultCode {
	if !mo.AssetBuy.WellFormed() || !mo.AssetSell.WellFormed() {
		return InvalidAsset
	}
	if mo.AssetBuy.Equals(mo.AssetSell) {
		return AssetsIdentical
	}
	if mo.AmountBuy < 0 || mo.AmountSell < 0 {
		return NegativeAmount
	}
	if mo.Buyer == mo.Seller {
		return CrossSelf
	}
	return Success
}
