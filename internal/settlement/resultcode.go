// Package settlement implements the core settlement operation: a
// matched-order batch is validated, then applied against a ledger
// façade inside a transaction, producing one result code per order.
package settlement

// ResultCode is the per-matched-order outcome written by CheckValid and
// Apply, in the taxonomy of spec.md §7.
type ResultCode int

const (
	// Success means the order was fully applied (or, before Apply
	// runs, passed every CheckValid pre-check).
	Success ResultCode = iota

	// SourceAccountInvalid is operation-level: written only at index
	// 0, when the op's source account does not match the configured
	// settlement account. The rest of the result vector is unspecified
	// when this fires.
	SourceAccountInvalid

	// Structural pre-checks (CheckValid).
	InvalidAsset
	AssetsIdentical
	NegativeAmount
	CrossSelf

	// Identity checks (Apply, account resolution).
	BuyerAccountInvalid
	SellerAccountInvalid

	// Trustline checks (validateTrustlines), sell side before buy
	// side, for both accounts.
	SellNoIssuer
	SellNoTrust
	SellNotAuthorized
	BuyNoIssuer
	BuyNoTrust
	BuyNotAuthorized

	// Capacity checks (Apply).
	LineFull
	SellerLineFull
	BuyOverLimit
	SellOverBalance

	// NotSupportedYet is reserved for a ledger-version gate; no code
	// path currently sets it.
	NotSupportedYet
)

// metricCause is the "cause" label value under which metrics.go records
// a failed order on the op_settlement_invalid_total counter: the
// <cause> part of the op-settlement.invalid.<cause> naming, written in
// snake_case.
func (c ResultCode) metricCause() string {
	switch c {
	case Success:
		return ""
	case SourceAccountInvalid:
		return "source_account_invalid"
	case InvalidAsset:
		return "invalid_asset"
	case AssetsIdentical:
		return "assets_identical"
	case NegativeAmount:
		return "negative_amount"
	case CrossSelf:
		return "cross_self"
	case BuyerAccountInvalid:
		return "buyer_account_invalid"
	case SellerAccountInvalid:
		return "seller_account_invalid"
	case SellNoIssuer:
		return "sell_no_issuer"
	case SellNoTrust:
		return "sell_no_trust"
	case SellNotAuthorized:
		return "sell_not_authorized"
	case BuyNoIssuer:
		return "buy_no_issuer"
	case BuyNoTrust:
		return "buy_no_trust"
	case BuyNotAuthorized:
		return "buy_not_authorized"
	case LineFull:
		return "line_full"
	case SellerLineFull:
		return "seller_line_full"
	case BuyOverLimit:
		return "buy_over_limit"
	case SellOverBalance:
		return "sell_over_balance"
	case NotSupportedYet:
		return "not_supported_yet"
	default:
		return "unknown"
	}
}

// String renders the code's name, for log lines and test failures.
func (c ResultCode) String() string {
	switch c {
	case Success:
		return "Success"
	case SourceAccountInvalid:
		return "SourceAccountInvalid"
	case InvalidAsset:
		return "InvalidAsset"
	case AssetsIdentical:
		return "AssetsIdentical"
	case NegativeAmount:
		return "NegativeAmount"
	case CrossSelf:
		return "CrossSelf"
	case BuyerAccountInvalid:
		return "BuyerAccountInvalid"
	case SellerAccountInvalid:
		return "SellerAccountInvalid"
	case SellNoIssuer:
		return "SellNoIssuer"
	case SellNoTrust:
		return "SellNoTrust"
	case SellNotAuthorized:
		return "SellNotAuthorized"
	case BuyNoIssuer:
		return "BuyNoIssuer"
	case BuyNoTrust:
		return "BuyNoTrust"
	case BuyNotAuthorized:
		return "BuyNotAuthorized"
	case LineFull:
		return "LineFull"
	case SellerLineFull:
		return "SellerLineFull"
	case BuyOverLimit:
		return "BuyOverLimit"
	case SellOverBalance:
		return "SellOverBalance"
	case NotSupportedYet:
		return "NotSupportedYet"
	default:
		return "Unknown"
	}
}
