package settlement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/quantadex/stellar-core/internal/asset"
	"github.com/quantadex/stellar-core/internal/ledgerstate"
)

func openTestStore(t *testing.T) *ledgerstate.Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "settlement_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := pebble.Open(filepath.Join(dir, "db"), &pebble.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return ledgerstate.NewStore(db)
}

func seedAccount(t *testing.T, store *ledgerstate.Store, id asset.AccountID) {
	t.Helper()
	txn := store.Begin()
	root := ledgerstate.NewRootDelta(txn)
	root.StoreChange(&ledgerstate.Account{ID: id, NativeBalance: 1_000_000_000})
	require.NoError(t, root.Commit())
}

func seedTrustline(t *testing.T, store *ledgerstate.Store, holder asset.AccountID, line asset.Asset, balance, limit int64) {
	t.Helper()
	txn := store.Begin()
	root := ledgerstate.NewRootDelta(txn)
	root.StoreChange(&ledgerstate.Trustline{Holder: holder, Line: line, Balance: balance, Limit: limit, Authorized: true})
	require.NoError(t, root.Commit())
}

func idFrom(b byte) asset.AccountID {
	var id asset.AccountID
	id[0] = b
	return id
}

func testMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// TestSimpleSettlement matches spec scenario 1: buyer starts IDR
// 100000/USD 140000, seller IDR 40000/USD 60000; one order moves IDR
// 25000 from seller to buyer against USD 15000 from buyer to seller.
func TestSimpleSettlement(t *testing.T) {
	store := openTestStore(t)
	handles, err := ledgerstate.NewHandleSet(0)
	require.NoError(t, err)

	source := idFrom(0x01)
	issuer := idFrom(0x02)
	buyer := idFrom(0x03)
	seller := idFrom(0x04)
	idr := asset.Issued(issuer, "IDR4")
	usd := asset.Issued(issuer, "USD4")

	for _, id := range []asset.AccountID{source, issuer, buyer, seller} {
		seedAccount(t, store, id)
	}
	seedTrustline(t, store, buyer, idr, 100_000, 1_000_000)
	seedTrustline(t, store, buyer, usd, 140_000, 1_000_000)
	seedTrustline(t, store, seller, idr, 40_000, 1_000_000)
	seedTrustline(t, store, seller, usd, 60_000, 1_000_000)

	op := SettlementOp{
		SourceAccount: source,
		Orders: []MatchedOrder{
			{Buyer: buyer, Seller: seller, AmountBuy: 25_000, AmountSell: 15_000, AssetBuy: idr, AssetSell: usd},
		},
	}

	result, accept := CheckValid(op, source)
	require.True(t, accept)
	require.Equal(t, SettlementResult{Success}, result)

	txn := store.Begin()
	root := ledgerstate.NewRootDelta(txn)
	require.NoError(t, Apply(op, result, store, handles, root, nil, testMetrics()))
	require.NoError(t, root.Commit())

	require.Equal(t, SettlementResult{Success}, result)

	var buyerIDR, buyerUSD, sellerIDR, sellerUSD ledgerstate.Trustline
	require.NoError(t, store.Get(trustlineKeyFor(t, buyer, idr), &buyerIDR))
	require.NoError(t, store.Get(trustlineKeyFor(t, buyer, usd), &buyerUSD))
	require.NoError(t, store.Get(trustlineKeyFor(t, seller, idr), &sellerIDR))
	require.NoError(t, store.Get(trustlineKeyFor(t, seller, usd), &sellerUSD))

	require.Equal(t, int64(125_000), buyerIDR.Balance)
	require.Equal(t, int64(125_000), buyerUSD.Balance)
	require.Equal(t, int64(15_000), sellerIDR.Balance)
	require.Equal(t, int64(75_000), sellerUSD.Balance)
}

// trustlineKeyFor exposes the package-private trustlineKey via the
// ledgerstate test harness pattern: settlement_test lives outside
// package ledgerstate, so it seeds/reads through Trustline{}.Key().
func trustlineKeyFor(t *testing.T, holder asset.AccountID, line asset.Asset) string {
	t.Helper()
	tl := ledgerstate.Trustline{Holder: holder, Line: line}
	return tl.Key()
}

// TestMultipleMatchedOrdersWithInvalidBuyer matches spec scenario 2:
// three orders, the middle one's buyer has no account; only orders 0
// and 2 change balances.
func TestMultipleMatchedOrdersWithInvalidBuyer(t *testing.T) {
	store := openTestStore(t)
	handles, err := ledgerstate.NewHandleSet(0)
	require.NoError(t, err)

	source := idFrom(0x10)
	seller := idFrom(0x11)
	buyer := idFrom(0x12)
	var missingBuyer asset.AccountID
	missingBuyer[0] = 0x13 // never seeded

	seedAccount(t, store, source)
	seedAccount(t, store, seller)
	seedAccount(t, store, buyer)

	issuer := idFrom(0x14)
	seedAccount(t, store, issuer)
	idr := asset.Issued(issuer, "IDR4")
	usd := asset.Issued(issuer, "USD4")
	seedTrustline(t, store, buyer, idr, 0, 1000)
	seedTrustline(t, store, buyer, usd, 500, 1000)
	seedTrustline(t, store, seller, idr, 500, 1000)
	seedTrustline(t, store, seller, usd, 0, 1000)

	op := SettlementOp{
		SourceAccount: source,
		Orders: []MatchedOrder{
			{Buyer: buyer, Seller: seller, AmountBuy: 100, AmountSell: 50, AssetBuy: idr, AssetSell: usd},
			{Buyer: missingBuyer, Seller: seller, AmountBuy: 10, AmountSell: 5, AssetBuy: idr, AssetSell: usd},
			{Buyer: buyer, Seller: seller, AmountBuy: 20, AmountSell: 10, AssetBuy: idr, AssetSell: usd},
		},
	}

	result, accept := CheckValid(op, source)
	require.True(t, accept)
	require.Equal(t, SettlementResult{Success, Success, Success}, result)

	txn := store.Begin()
	root := ledgerstate.NewRootDelta(txn)
	require.NoError(t, Apply(op, result, store, handles, root, nil, testMetrics()))
	require.NoError(t, root.Commit())

	require.Equal(t, SettlementResult{Success, BuyerAccountInvalid, Success}, result)

	var buyerIDR, sellerIDR ledgerstate.Trustline
	require.NoError(t, store.Get(trustlineKeyFor(t, buyer, idr), &buyerIDR))
	require.NoError(t, store.Get(trustlineKeyFor(t, seller, idr), &sellerIDR))

	// Only orders 0 and 2 moved IDR: +100 and +20 to buyer, -100 and -20 from seller.
	require.Equal(t, int64(120), buyerIDR.Balance)
	require.Equal(t, int64(380), sellerIDR.Balance)
}

// TestSourceAccountGate matches the source-account gate invariant: a
// mismatched source account rejects before any balance changes.
func TestSourceAccountGate(t *testing.T) {
	source := idFrom(0x20)
	wrongSource := idFrom(0x21)
	buyer := idFrom(0x22)
	seller := idFrom(0x23)

	op := SettlementOp{
		SourceAccount: wrongSource,
		Orders: []MatchedOrder{
			{Buyer: buyer, Seller: seller, AmountBuy: 1, AmountSell: 1, AssetBuy: asset.Native(), AssetSell: asset.Native()},
		},
	}

	result, accept := CheckValid(op, source)
	require.False(t, accept)
	require.Equal(t, SourceAccountInvalid, result[0])
}

func TestCheckValidStructuralOrder(t *testing.T) {
	source := idFrom(0x30)
	buyer := idFrom(0x31)
	seller := idFrom(0x32)
	issuer := idFrom(0x33)
	usd := asset.Issued(issuer, "USD4")

	cases := []struct {
		name string
		mo   MatchedOrder
		want ResultCode
	}{
		{"bad asset", MatchedOrder{Buyer: buyer, Seller: seller, AssetBuy: asset.Issued(asset.AccountID{}, "BAD"), AssetSell: usd}, InvalidAsset},
		{"identical assets", MatchedOrder{Buyer: buyer, Seller: seller, AssetBuy: usd, AssetSell: usd}, AssetsIdentical},
		{"negative amount", MatchedOrder{Buyer: buyer, Seller: seller, AmountBuy: -1, AssetBuy: asset.Native(), AssetSell: usd}, NegativeAmount},
		{"self cross", MatchedOrder{Buyer: buyer, Seller: buyer, AssetBuy: asset.Native(), AssetSell: usd}, CrossSelf},
		{"ok", MatchedOrder{Buyer: buyer, Seller: seller, AssetBuy: asset.Native(), AssetSell: usd}, Success},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			op := SettlementOp{SourceAccount: source, Orders: []MatchedOrder{c.mo}}
			result, accept := CheckValid(op, source)
			require.True(t, accept)
			require.Equal(t, c.want, result[0])
		})
	}
}
