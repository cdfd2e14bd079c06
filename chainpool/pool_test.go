package chainpool

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/pricing"
	"github.com/haven-protocol-org/corepool/wire"
)

// fakeDB is a minimal BlockchainDB stub for exercising AddTx's
// transfer-only path, where no price record lookups occur.
type fakeDB struct {
	height uint64
}

func (f *fakeDB) Height() uint64 { return f.height }
func (f *fakeDB) BlockIDByHeight(h uint64) (chainhash.Hash, bool) { return chainhash.Hash{}, false }
func (f *fakeDB) PricingRecordAt(id chainhash.Hash) (*pricing.Record, bool) { return nil, false }
func (f *fakeDB) GetLatestAcceptablePricingRecord() (*pricing.Record, uint64, bool) {
	return nil, 0, false
}
func (f *fakeDB) CirculatingSupply() (Supply, error) { return Supply{}, nil }
func (f *fakeDB) HaveTxKeyImagesAsSpent(tx *wire.Transaction) bool { return false }
func (f *fakeDB) AddTxpoolTx(id chainhash.Hash, blob []byte, meta PoolEntryMeta) error { return nil }
func (f *fakeDB) RemoveTxpoolTx(id chainhash.Hash) error { return nil }
func (f *fakeDB) UpdateTxpoolTx(id chainhash.Hash, meta PoolEntryMeta) error { return nil }
func (f *fakeDB) GetTxpoolTxMeta(id chainhash.Hash) (PoolEntryMeta, bool) { return PoolEntryMeta{}, false }
func (f *fakeDB) GetTxpoolTxBlob(id chainhash.Hash, cat Category) ([]byte, bool) { return nil, false }
func (f *fakeDB) ForAllTxpoolTxes(fn func(chainhash.Hash, PoolEntryMeta, []byte) bool, includeSensitive bool, cat Category) {
}

func newTestPool() *Pool {
	return New(&Config{
		Params:        &chaincfg.MainNetParams,
		DB:            &fakeDB{height: 1000},
		MaxPoolWeight: 1_000_000,
	})
}

func mkTransferTx(version uint32, unlock uint64) (*wire.Transaction, chainhash.Hash) {
	tx := &wire.Transaction{
		Version:    version,
		UnlockTime: unlock,
		Inputs:     []wire.TxIn{wire.SpendIn{Tag: wire.SpendAssetTag{Asset: chaincfg.XHV}, Amount: 100, KeyImage: chainhash.Hash{0x01}}},
		Outputs:    []wire.TxOutVariant{wire.Output{Asset: chaincfg.XHV, Amount: 100}},
		Fee:        1000,
	}
	return tx, chainhash.Hash{0xAA}
}

func TestAddTxTransferAccepted(t *testing.T) {
	p := newTestPool()
	tx, id := mkTransferTx(chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral), 1010)
	vc := p.AddTx(id, tx, []byte("blob"), 500, RelayLocal, chaincfg.HFVersionCollateral)
	if !vc.AddedToPool {
		t.Fatalf("expected acceptance, got rejection: %s (%s)", vc.Reason, vc.Code)
	}
	if !p.HaveTransaction(id) {
		t.Fatal("expected the transaction to be pooled")
	}
	if p.TotalWeight() != 500 {
		t.Fatalf("got total weight %d, want 500", p.TotalWeight())
	}
}

func TestAddTxRejectsBadVersion(t *testing.T) {
	p := newTestPool()
	tx, id := mkTransferTx(99, 1010)
	vc := p.AddTx(id, tx, []byte("blob"), 500, RelayLocal, chaincfg.HFVersionCollateral)
	if vc.AddedToPool {
		t.Fatalf("expected rejection for a mismatched version, got:\n%s", spew.Sdump(vc))
	}
}

func TestAddTxRejectsUnlockTimeSentinel(t *testing.T) {
	p := newTestPool()
	tx, id := mkTransferTx(chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral), chaincfg.MaxBlockNumber)
	vc := p.AddTx(id, tx, []byte("blob"), 500, RelayLocal, chaincfg.HFVersionCollateral)
	if vc.AddedToPool || vc.Code != ErrInvalidInput {
		t.Fatalf("expected InvalidInput rejection, got added=%v code=%s", vc.AddedToPool, vc.Code)
	}
}

func TestAddTxRejectsDoubleSpend(t *testing.T) {
	p := newTestPool()
	tx1, id1 := mkTransferTx(chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral), 1010)
	vc1 := p.AddTx(id1, tx1, []byte("blob1"), 500, RelayLocal, chaincfg.HFVersionCollateral)
	if !vc1.AddedToPool {
		t.Fatalf("first transaction should be accepted: %s", vc1.Reason)
	}

	tx2, id2 := mkTransferTx(chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral), 1020)
	tx2.Inputs = tx1.Inputs // same key image
	vc2 := p.AddTx(id2, tx2, []byte("blob2"), 500, RelayLocal, chaincfg.HFVersionCollateral)
	if vc2.AddedToPool || vc2.Code != ErrDoubleSpend {
		t.Fatalf("expected DoubleSpend rejection, got added=%v code=%s", vc2.AddedToPool, vc2.Code)
	}
}

func TestPruneRemovesLowestFeeFirst(t *testing.T) {
	p := newTestPool()
	tx1, id1 := mkTransferTx(chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral), 1010)
	tx1.Fee = 10
	tx1.Inputs[0] = wire.SpendIn{Tag: wire.SpendAssetTag{Asset: chaincfg.XHV}, KeyImage: chainhash.Hash{0x01}}
	p.AddTx(id1, tx1, []byte("a"), 100, RelayLocal, chaincfg.HFVersionCollateral)

	tx2, _ := mkTransferTx(chaincfg.TxVersionForHF(chaincfg.HFVersionCollateral), 1010)
	id2 := chainhash.Hash{0xBB} // distinct from id1 so both entries coexist in the pool
	tx2.Fee = 1000
	tx2.Inputs[0] = wire.SpendIn{Tag: wire.SpendAssetTag{Asset: chaincfg.XHV}, KeyImage: chainhash.Hash{0x02}}
	p.AddTx(id2, tx2, []byte("b"), 100, RelayLocal, chaincfg.HFVersionCollateral)

	p.Prune(100)

	if p.HaveTransaction(id1) {
		t.Fatal("expected the low-fee transaction to be pruned")
	}
	if !p.HaveTransaction(id2) {
		t.Fatal("expected the high-fee transaction to survive")
	}
}
