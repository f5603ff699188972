package settlement

import "github.com/quantadex/stellar-core/internal/asset"

// MatchedOrder is a pre-paired buy/sell intent: the buyer gains
// AmountBuy of AssetBuy and loses AmountSell of AssetSell; the seller
// moves mirror-symmetrically. The core moves balances, it does not
// match orders.
type MatchedOrder struct {
	Buyer      asset.AccountID
	Seller     asset.AccountID
	AmountBuy  int64
	AmountSell int64
	AssetBuy   asset.Asset
	AssetSell  asset.Asset
}

// SettlementOp is an ordered batch of matched orders plus the account
// that must originate the operation.
type SettlementOp struct {
	SourceAccount asset.AccountID
	Orders        []MatchedOrder
}

// SettlementResult is one ResultCode per order of the originating
// SettlementOp, same index order.
type SettlementResult []ResultCode
