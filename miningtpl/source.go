// Package miningtpl implements the block-template filler of §4.9,
// ported from fill_block_template in tx_pool.cpp and shaped, for the
// pool/filler interface boundary, on the teacher's mining.TxSource
// (mining/mining.go).
package miningtpl

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/wire"
)

// TxDesc is a descriptor about a pooled transaction along with the
// metadata the filler needs, mirroring the shape (if not the exact
// fields) of the teacher's mining.TxDesc.
type TxDesc struct {
	ID            chainhash.Hash
	Tx            *wire.Transaction
	Weight        uint64
	Fee           uint64
	ConversionFee uint64
	FeeAsset      chaincfg.AssetType
	Source        chaincfg.AssetType
	Destination   chaincfg.AssetType
	TxType        chaincfg.TxType
	ReceiveTime   time.Time
	KeptByBlock   bool
	Pruned        bool
}

// TxSource represents a source of transactions to consider for
// inclusion in a new block template, implemented by chainpool.Pool.
//
// The interface contract requires every method be safe for concurrent
// access with respect to the source, matching the teacher's contract
// for mining.TxSource.
type TxSource interface {
	// LastUpdated returns the last time a transaction was added to or
	// removed from the source pool.
	LastUpdated() int64

	// MiningDescs returns descriptors for every transaction in the
	// source pool, best-fee-first.
	MiningDescs() []*TxDesc

	// HaveTransaction reports whether hash exists in the source pool.
	HaveTransaction(hash chainhash.Hash) bool

	// Readiness re-runs (or returns the cached result of) the
	// input-validity check for id, refreshing the failure counters if
	// the tip has advanced past the last recorded failure (§4.7's
	// "Ready-check failure records (last_failed_height, last_failed_id)
	// and short-circuits future readiness checks" policy).
	Readiness(id chainhash.Hash, currentHeight uint64) (ready bool)

	// ClaimKeyImage reserves a key image for the in-progress template
	// build, returning false if another transaction in this template
	// already claims it (§4.9 step 5's per-template collision guard).
	ClaimKeyImage(img chainhash.Hash) bool

	// ReleaseClaims clears every key-image claim made by ClaimKeyImage
	// during one template build, so the next build starts clean.
	ReleaseClaims()
}
