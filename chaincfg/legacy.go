package chaincfg

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Historical exceptions that must be preserved bit-for-bit to retain
// chain compatibility (§9). These are never derived from rules; they are
// fixed tables consulted once, by id, during classification and
// admission.

// xjpyReplayExceptions holds the transaction ids whose destination asset
// is rewritten to XJPY regardless of what their outputs would otherwise
// classify to. They correspond to a historical exploit that was patched
// by rewriting classification for these ids specifically rather than
// invalidating already-confirmed blocks. No ids are compiled in: the
// table is empty until RegisterXJPYReplayException adds them.
var xjpyReplayExceptions = map[chainhash.Hash]struct{}{}

// IsXJPYReplayException reports whether id has been registered as a
// historical transaction whose destination must classify as XJPY.
func IsXJPYReplayException(id chainhash.Hash) bool {
	_, ok := xjpyReplayExceptions[id]
	return ok
}

// feeEqualityExceptions holds the transaction ids exempted from the
// bit-exact conversion-fee equality check in admission step 7. It is
// empty until RegisterFeeEqualityException adds them.
var feeEqualityExceptions = map[chainhash.Hash]struct{}{}

// IsFeeEqualityException reports whether id is exempt from the
// conversion-fee equality check on admission.
func IsFeeEqualityException(id chainhash.Hash) bool {
	_, ok := feeEqualityExceptions[id]
	return ok
}

// HardcodedPricingRecordHeight is the one block height whose referenced
// pricing record is substituted with a fixed record instead of being read
// from the database. The record itself is installed at runtime through
// chainpool.RegisterHardcodedPricingRecord; until then the database
// lookup is used.
const HardcodedPricingRecordHeight = 821428

// RegisterXJPYReplayException and RegisterFeeEqualityException let the
// embedding daemon populate the two exception tables above from the
// chain's genesis configuration without this package hardcoding raw hash
// bytes that would otherwise need updating per network.
func RegisterXJPYReplayException(id chainhash.Hash) {
	xjpyReplayExceptions[id] = struct{}{}
}

func RegisterFeeEqualityException(id chainhash.Hash) {
	feeEqualityExceptions[id] = struct{}{}
}
