// Package chainpool adapts the teacher's mempool.TxPool
// (mempool/mempool.go) — its lock discipline, descriptor shape and
// admission-pipeline structure — to this chain's multi-asset admission
// rules (§4.7) and pool indices/lifecycle (§4.8), together with
// tx_pool.cpp's tx_memory_pool for the domain-specific index and
// lifecycle semantics the teacher has no analogue for (fee_order keyed by
// fee-per-weight, key_images, timed_out, stuck-tx eviction).
package chainpool

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/pricing"
	"github.com/haven-protocol-org/corepool/wire"
)

// Category filters pool queries by relay visibility (§6).
type Category int

const (
	CategoryBroadcasted Category = iota
	CategoryRelayable
	CategoryLegacy
	CategoryAll
)

// RelayMethod is the emitted relay state of a pool entry (§6).
type RelayMethod int

const (
	RelayNone RelayMethod = iota
	RelayLocal
	RelayStem
	RelayFluff
	RelayBlock
)

// BlockchainDB is the narrow external collaborator consumed for block
// and price-record lookups and for transactional persistence of pool
// entries, per §6. The pool never embeds a concrete database; every
// admission and lifecycle operation reaches chain state only through
// this interface.
type BlockchainDB interface {
	Height() uint64
	BlockIDByHeight(h uint64) (chainhash.Hash, bool)
	PricingRecordAt(blockID chainhash.Hash) (*pricing.Record, bool)
	GetLatestAcceptablePricingRecord() (*pricing.Record, uint64, bool)
	CirculatingSupply() (Supply, error)
	HaveTxKeyImagesAsSpent(tx *wire.Transaction) bool

	AddTxpoolTx(id chainhash.Hash, blob []byte, meta PoolEntryMeta) error
	RemoveTxpoolTx(id chainhash.Hash) error
	UpdateTxpoolTx(id chainhash.Hash, meta PoolEntryMeta) error
	GetTxpoolTxMeta(id chainhash.Hash) (PoolEntryMeta, bool)
	GetTxpoolTxBlob(id chainhash.Hash, cat Category) ([]byte, bool)
	ForAllTxpoolTxes(fn func(id chainhash.Hash, meta PoolEntryMeta, blob []byte) bool, includeSensitive bool, cat Category)
}

// Supply mirrors feecalc.Supply; chainpool keeps its own copy of this
// shape so BlockchainDB does not have to import feecalc, matching the
// teacher's preference for small, narrowly-typed external interfaces.
type Supply struct {
	XHV         float64
	XAssetTotal float64
}

// RingVerifier is the external ring-signature/commitment verifier
// consumed on admission and during block filling (§6).
type RingVerifier interface {
	CheckBurntAndMinted(tx *wire.Transaction, pr *pricing.Record, src, dst chaincfg.AssetType, version uint32) bool
	VerifyRctSemantics(tx *wire.Transaction, pr *pricing.Record, txType chaincfg.TxType, src, dst chaincfg.AssetType, version uint32) bool
}

// FeePolicy is the external per-byte relay-fee policy consumed at
// admission step 8 (§4.7).
type FeePolicy interface {
	CheckFee(weight uint64, fee uint64, pr *pricing.Record, src, dst chaincfg.AssetType, txType chaincfg.TxType) bool
}

// PoolEntryMeta is the persisted metadata shape from §3's "Pool entry
// metadata" — everything the database owns about a pooled transaction
// besides its raw blob.
type PoolEntryMeta struct {
	Weight             uint64
	Fee                uint64
	ConversionFee      uint64
	FeeAsset           chaincfg.AssetType
	MaxUsedBlockHeight uint64
	MaxUsedBlockID     chainhash.Hash
	LastFailedHeight   uint64
	LastFailedID       chainhash.Hash
	ReceiveTime        time.Time
	LastRelayedTime    time.Time
	RelayMethod        RelayMethod
	DandelionppStem    bool
	DoubleSpendSeen    bool
	KeptByBlock        bool
	Pruned             bool

	Source      chaincfg.AssetType
	Destination chaincfg.AssetType
	TxType      chaincfg.TxType
}

// PoolEntry bundles an in-memory index entry with the underlying
// transaction, the shape chainpool.Pool.byID stores.
type PoolEntry struct {
	ID   chainhash.Hash
	Tx   *wire.Transaction
	Blob []byte
	Meta PoolEntryMeta
}

// VerificationContext carries the outcome of one AddTx call: whether the
// transaction was added, and if not, the tagged rejection reason (§7).
type VerificationContext struct {
	AddedToPool bool
	Code        ErrorCode
	Reason      string
	Source      chaincfg.AssetType
	Destination chaincfg.AssetType
	TxType      chaincfg.TxType
}
