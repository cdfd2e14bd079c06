package miningtpl_test

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/chainpool"
	"github.com/haven-protocol-org/corepool/coinbase"
	"github.com/haven-protocol-org/corepool/feecalc"
	"github.com/haven-protocol-org/corepool/miningtpl"
	"github.com/haven-protocol-org/corepool/pricing"
	"github.com/haven-protocol-org/corepool/wire"
)

type stubDB struct {
	height uint64
}

func (s *stubDB) Height() uint64                                             { return s.height }
func (s *stubDB) BlockIDByHeight(h uint64) (chainhash.Hash, bool)            { return chainhash.Hash{}, false }
func (s *stubDB) PricingRecordAt(id chainhash.Hash) (*pricing.Record, bool)  { return nil, false }
func (s *stubDB) GetLatestAcceptablePricingRecord() (*pricing.Record, uint64, bool) {
	return nil, 0, false
}
func (s *stubDB) CirculatingSupply() (chainpool.Supply, error)                { return chainpool.Supply{}, nil }
func (s *stubDB) HaveTxKeyImagesAsSpent(tx *wire.Transaction) bool            { return false }
func (s *stubDB) AddTxpoolTx(id chainhash.Hash, blob []byte, meta chainpool.PoolEntryMeta) error {
	return nil
}
func (s *stubDB) RemoveTxpoolTx(id chainhash.Hash) error { return nil }
func (s *stubDB) UpdateTxpoolTx(id chainhash.Hash, meta chainpool.PoolEntryMeta) error {
	return nil
}
func (s *stubDB) GetTxpoolTxMeta(id chainhash.Hash) (chainpool.PoolEntryMeta, bool) {
	return chainpool.PoolEntryMeta{}, false
}
func (s *stubDB) GetTxpoolTxBlob(id chainhash.Hash, cat chainpool.Category) ([]byte, bool) {
	return nil, false
}
func (s *stubDB) ForAllTxpoolTxes(fn func(chainhash.Hash, chainpool.PoolEntryMeta, []byte) bool, includeSensitive bool, cat chainpool.Category) {
}

func TestNewBlockTemplateFillsFromPool(t *testing.T) {
	db := &stubDB{height: 1000}
	pool := chainpool.New(&chainpool.Config{
		Params:        &chaincfg.MainNetParams,
		DB:            db,
		MaxPoolWeight: 10_000_000,
	})

	tx := &wire.Transaction{
		Version:    chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral),
		UnlockTime: 1010,
		Inputs:     []wire.TxIn{wire.SpendIn{Tag: wire.SpendAssetTag{Asset: chaincfg.XHV}, KeyImage: chainhash.Hash{0x09}}},
		Outputs:    []wire.TxOutVariant{wire.Output{Asset: chaincfg.XHV, Amount: 100}},
		Fee:        5000,
	}
	id := chainhash.Hash{0xEE}
	vc := pool.AddTx(id, tx, []byte("blob"), 1000, chainpool.RelayLocal, chaincfg.HFVersionCollateral)
	if !vc.AddedToPool {
		t.Fatalf("setup: expected transaction to be pooled, got %s", vc.Reason)
	}

	reward := coinbase.NewRewardCache()
	tpl, err := miningtpl.NewBlockTemplate(&chaincfg.MainNetParams, pool, db, reward, 300_000, 0, 1000, chaincfg.HFVersionCollateral, feecalc.Supply{XHV: 1_000_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tpl.TxIDs) != 1 || tpl.TxIDs[0] != id {
		t.Fatalf("expected the pooled transaction to be selected, got %v", tpl.TxIDs)
	}
	if tpl.TotalWeight != 1000 {
		t.Fatalf("got total weight %d, want 1000", tpl.TotalWeight)
	}
}
