// Package pricing implements the age-validity predicate and rate-lookup
// helpers over the oracle price record stamped into each block, grounded
// on §3/§4.2 of the specification and on the original's
// get_pricing_record/rate lookups in cryptonote_tx_utils.cpp.
package pricing

import "github.com/haven-protocol-org/corepool/chaincfg"

// Record is the oracle price record referenced by a conversion
// transaction's PricingRecordHeight.
type Record struct {
	XHVMovingAverage uint64 // moving-average XHV price, COIN-scaled
	XHVSpot          uint64 // spot XHV price, COIN-scaled
	PerAssetRate     map[chaincfg.AssetType]uint64
}

// IsValidAt reports whether a record stamped at recordHeight is still
// usable when validating a transaction against currentHeight, i.e. it is
// not older than validBlocks. recordHeight == 0 is never valid (that
// value means "no record referenced", legal only for same-asset
// transfers, never passed here).
func IsValidAt(recordHeight, currentHeight, validBlocks uint64) bool {
	if recordHeight == 0 || recordHeight >= currentHeight {
		return false
	}
	return currentHeight-recordHeight <= validBlocks
}

// Direction selects which side of an OFFSHORE/ONSHORE conversion the
// caller is pricing, since the two sides deliberately use different XHV
// price selections to remove moving-average/spot arbitrage (§4.2).
type Direction int

const (
	DirOffshore Direction = iota // XHV -> XUSD: use the lower of MA/spot
	DirOnshore                    // XUSD -> XHV: use the higher of MA/spot
)

// XHVPrice returns the direction-dependent XHV price used throughout fee
// and collateral computations.
func (r *Record) XHVPrice(dir Direction) uint64 {
	if dir == DirOffshore {
		if r.XHVMovingAverage < r.XHVSpot {
			return r.XHVMovingAverage
		}
		return r.XHVSpot
	}
	if r.XHVMovingAverage > r.XHVSpot {
		return r.XHVMovingAverage
	}
	return r.XHVSpot
}

// RateFor returns the COIN-scaled exchange rate for asset, or ok=false if
// the record carries no rate for it (XHV itself has no rate entry — its
// "rate" is always 1 COIN by definition).
func (r *Record) RateFor(asset chaincfg.AssetType) (rate uint64, ok bool) {
	if asset == chaincfg.XHV {
		return chaincfg.COIN, true
	}
	rate, ok = r.PerAssetRate[asset]
	return rate, ok
}

// NonZeroComponents reports whether every rate component relevant to
// txType is present and non-zero, the guard required by admission step 7
// before a conversion's burn/mint balance can be recomputed.
func NonZeroComponents(r *Record, txType chaincfg.TxType, src, dst chaincfg.AssetType) bool {
	if r.XHVMovingAverage == 0 || r.XHVSpot == 0 {
		return false
	}
	switch txType {
	case chaincfg.TxTypeOffshore, chaincfg.TxTypeOnshore:
		return true
	case chaincfg.TxTypeXUSDToXAsset, chaincfg.TxTypeXAssetToXUSD:
		// Per-asset rates are quoted against XUSD, so the xAsset leg is
		// the only rate component to check.
		xasset := dst
		if txType == chaincfg.TxTypeXAssetToXUSD {
			xasset = src
		}
		rate, ok := r.RateFor(xasset)
		return ok && rate != 0
	default:
		return true
	}
}
