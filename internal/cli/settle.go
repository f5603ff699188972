package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/quantadex/stellar-core/internal/asset"
	"github.com/quantadex/stellar-core/internal/config"
	"github.com/quantadex/stellar-core/internal/ledgerstate"
	"github.com/quantadex/stellar-core/internal/settlement"
)

var (
	settleDataDir  string
	settleSnapshot string
	settleOpFile   string
)

// settleCmd applies one settlement operation, read from a JSON file,
// against a pebble-backed ledger state seeded from a JSON snapshot — a
// thin CLI surface over internal/settlement.
var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Apply a settlement operation against a ledger snapshot",
	Long: `settle loads a genesis-style JSON ledger snapshot of accounts and
trustlines into a pebble store, validates and applies one SettlementOp
read from a JSON file, and prints the resulting per-order status.`,
	Run: runSettle,
}

func init() {
	rootCmd.AddCommand(settleCmd)

	settleCmd.Flags().StringVar(&settleDataDir, "data-dir", "", "pebble data directory (required)")
	settleCmd.Flags().StringVar(&settleSnapshot, "snapshot", "", "JSON ledger snapshot to seed the store with (optional)")
	settleCmd.Flags().StringVar(&settleOpFile, "op", "", "JSON file describing the SettlementOp to apply (required)")
}

// ledgerSnapshot is the on-disk shape of the --snapshot file: a flat
// list of accounts and trustlines to seed a fresh pebble store with.
type ledgerSnapshot struct {
	Accounts   []ledgerstate.Account   `json:"accounts"`
	Trustlines []ledgerstate.Trustline `json:"trustlines"`
}

// settlementOpFile is the on-disk shape of the --op file: string
// AccountId/Asset fields, decoded before building a settlement.SettlementOp.
type settlementOpFile struct {
	SourceAccount string `json:"source_account"`
	Orders        []struct {
		Buyer      string `json:"buyer"`
		Seller     string `json:"seller"`
		AmountBuy  int64  `json:"amount_buy"`
		AmountSell int64  `json:"amount_sell"`
		AssetBuy   string `json:"asset_buy"`  // "native" or "CODE:ISSUER"
		AssetSell  string `json:"asset_sell"`
	} `json:"orders"`
}

func runSettle(cmd *cobra.Command, args []string) {
	if settleDataDir == "" || settleOpFile == "" {
		log.Fatal("settle: --data-dir and --op are required")
	}

	db, err := pebble.Open(settleDataDir, &pebble.Options{})
	if err != nil {
		log.Fatalf("settle: open pebble store: %v", err)
	}
	defer db.Close()
	store := ledgerstate.NewStore(db)

	if settleSnapshot != "" {
		if err := seedSnapshot(store, settleSnapshot); err != nil {
			log.Fatalf("settle: seed snapshot: %v", err)
		}
	}

	op, err := loadSettlementOp(settleOpFile)
	if err != nil {
		log.Fatalf("settle: load op: %v", err)
	}

	var cfg config.Config
	cfg.SettlementAccountID = asset.EncodeNodePublicKey(op.SourceAccount)
	settlementAccountID, _ := cfg.SettlementAccountIDDecoded()

	result, accept := settlement.CheckValid(op, settlementAccountID)
	if !accept {
		fmt.Printf("rejected: %s\n", result[0])
		return
	}

	handles, err := ledgerstate.NewHandleSet(0)
	if err != nil {
		log.Fatalf("settle: new handle set: %v", err)
	}
	metrics := settlement.NewMetrics(prometheus.NewRegistry())
	logger := log.New(os.Stderr, "settle: ", log.LstdFlags)

	txn := store.Begin()
	root := ledgerstate.NewRootDelta(txn)
	if err := settlement.Apply(op, result, store, handles, root, logger, metrics); err != nil {
		log.Fatalf("settle: apply: %v", err)
	}
	if err := root.Commit(); err != nil {
		log.Fatalf("settle: commit: %v", err)
	}

	for i, code := range result {
		fmt.Printf("order %d: %s\n", i, code)
	}
}

func seedSnapshot(store *ledgerstate.Store, path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap ledgerSnapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		return err
	}

	txn := store.Begin()
	root := ledgerstate.NewRootDelta(txn)
	for i := range snap.Accounts {
		root.StoreChange(&snap.Accounts[i])
	}
	for i := range snap.Trustlines {
		root.StoreChange(&snap.Trustlines[i])
	}
	return root.Commit()
}

func loadSettlementOp(path string) (settlement.SettlementOp, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return settlement.SettlementOp{}, err
	}
	var raw settlementOpFile
	if err := json.Unmarshal(buf, &raw); err != nil {
		return settlement.SettlementOp{}, err
	}

	source, err := asset.DecodeAccountID(raw.SourceAccount)
	if err != nil {
		return settlement.SettlementOp{}, fmt.Errorf("source_account: %w", err)
	}

	op := settlement.SettlementOp{SourceAccount: source}
	for i, o := range raw.Orders {
		buyer, err := asset.DecodeAccountID(o.Buyer)
		if err != nil {
			return settlement.SettlementOp{}, fmt.Errorf("order %d buyer: %w", i, err)
		}
		seller, err := asset.DecodeAccountID(o.Seller)
		if err != nil {
			return settlement.SettlementOp{}, fmt.Errorf("order %d seller: %w", i, err)
		}
		assetBuy, err := parseAssetSpec(o.AssetBuy)
		if err != nil {
			return settlement.SettlementOp{}, fmt.Errorf("order %d asset_buy: %w", i, err)
		}
		assetSell, err := parseAssetSpec(o.AssetSell)
		if err != nil {
			return settlement.SettlementOp{}, fmt.Errorf("order %d asset_sell: %w", i, err)
		}
		op.Orders = append(op.Orders, settlement.MatchedOrder{
			Buyer:      buyer,
			Seller:     seller,
			AmountBuy:  o.AmountBuy,
			AmountSell: o.AmountSell,
			AssetBuy:   assetBuy,
			AssetSell:  assetSell,
		})
	}
	return op, nil
}

// parseAssetSpec parses "native" or "CODE:ISSUER" into an asset.Asset.
func parseAssetSpec(spec string) (asset.Asset, error) {
	if spec == "native" {
		return asset.Native(), nil
	}
	code, issuerStr, ok := strings.Cut(spec, ":")
	if !ok || code == "" || issuerStr == "" {
		return asset.Asset{}, fmt.Errorf("malformed asset spec %q, want \"native\" or \"CODE:ISSUER\"", spec)
	}
	issuer, err := asset.DecodeAccountID(issuerStr)
	if err != nil {
		return asset.Asset{}, err
	}
	return asset.Issued(issuer, code), nil
}
