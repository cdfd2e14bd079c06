package feecalc

import (
	"math"

	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/pricing"
)

// Supply is the circulating-supply snapshot the collateral and
// block-cap formulas need, expressed in whole coins (not atomic units),
// the same scale the original source uses for its floating-point market
// cap arithmetic.
type Supply struct {
	XHV         float64
	XAssetTotal float64 // sum over xassets of (supply_a / price_a), in XUSD, the unit XHV's market cap is compared in
}

// marketCapRatios computes ratio_mcap and ratio_spread from §4.2, shared
// by the OFFSHORE and ONSHORE collateral paths.
func marketCapRatios(supply Supply, priceXHV uint64) (ratioMcap, ratioSpread, mcapXHV float64) {
	priceXHVFloat := float64(priceXHV) / chaincfg.COIN
	mcapXHV = supply.XHV * priceXHVFloat
	if mcapXHV == 0 {
		return 0, 1, 0
	}
	ratioMcap = supply.XAssetTotal / mcapXHV
	ratioSpread = 1 - ratioMcap
	if ratioSpread < 0 {
		ratioSpread = 0
	}
	return ratioMcap, ratioSpread, mcapXHV
}

// rateMCVBS and rateSRVBS implement the two volatility-based-shift rate
// terms from §4.2's pseudocode, using math.Exp/math.Sqrt exactly as
// specified so the IEEE-754 result is reproducible across ports (§9).
func rateMCVBS(ratioMcap float64) float64 {
	switch {
	case ratioMcap == 0:
		return 0
	case ratioMcap < 0.9:
		return math.Exp((ratioMcap+math.Sqrt(ratioMcap))*2) - 0.5
	default:
		return math.Sqrt(ratioMcap) * 40
	}
}

func rateSRVBS(ratioSpread, mcvbs float64) float64 {
	return math.Exp(1+math.Sqrt(ratioSpread)) + mcvbs + 1.5
}

// CollateralRequirement computes the XHV-denominated collateral owed for
// an OFFSHORE or ONSHORE conversion of amount (source-asset units),
// implementing §4.2's VBS formula verbatim. priceXHV must already be the
// direction-dependent price (pricing.Record.XHVPrice); the caller selects
// the direction.
func CollateralRequirement(txType chaincfg.TxType, amount uint64, priceXHV uint64, supply Supply) (uint64, error) {
	if priceXHV == 0 {
		return 0, errZeroPrice
	}
	ratioMcap, ratioSpread, mcapXHV := marketCapRatios(supply, priceXHV)
	mcvbs := rateMCVBS(ratioMcap)
	srvbs := rateSRVBS(ratioSpread, mcvbs)

	priceXHVFloat := float64(priceXHV) / chaincfg.COIN
	amountFloat := float64(amount) / chaincfg.COIN

	switch txType {
	case chaincfg.TxTypeOffshore:
		aUSD := amountFloat * priceXHVFloat
		newMcapXHV := mcapXHV - aUSD
		newXAssetTotal := supply.XAssetTotal + aUSD
		var ratioMcapNew float64
		if newMcapXHV > 0 {
			ratioMcapNew = newXAssetTotal / newMcapXHV
		}
		ratioMCRI := math.Abs(ratioMcapNew/ratioMcapSafe(ratioMcap) - 1)
		multiplier := 10.0
		if ratioMcapNew <= 0.1 {
			multiplier = 3.0
		}
		slippage := math.Sqrt(ratioMCRI) * multiplier
		vbs := math.Max(1, math.Floor(mcvbs+slippage))
		collateral := vbs * amountFloat
		return uint64(math.Floor(collateral * chaincfg.COIN)), nil

	case chaincfg.TxTypeOnshore:
		newMcapXHV := mcapXHV + amountFloat*priceXHVFloat
		newXAssetTotal := supply.XAssetTotal - amountFloat*priceXHVFloat
		var ratioMcapNew float64
		if newMcapXHV > 0 {
			ratioMcapNew = newXAssetTotal / newMcapXHV
		}
		ratioSRI := (1 - ratioMcapNew) / (1 - ratioMcapSafe(ratioMcap)) - 1
		if ratioSRI < 0 {
			ratioSRI = 0
		}
		slippage := math.Sqrt(ratioSRI) * 3
		vbs := math.Max(1, math.Floor(math.Max(mcvbs, srvbs)+slippage))
		collateral := vbs * amountFloat / priceXHVFloat
		return uint64(math.Floor(collateral * chaincfg.COIN)), nil

	default:
		return 0, errNotConvertible
	}
}

// ratioMcapSafe avoids a division by exact zero when the pool has no
// xasset market cap yet; the original's float division would yield +Inf
// which then poisons every downstream comparison, so this matches a
// defensive minimum the reference client applies.
func ratioMcapSafe(ratioMcap float64) float64 {
	if ratioMcap == 0 {
		return 1e-12
	}
	return ratioMcap
}

// BlockConversionCap computes the maximum XHV-equivalent value that may
// be converted (burnt or minted) within a single block, per §4.2.
func BlockConversionCap(supply Supply, priceXHV uint64) uint64 {
	priceXHVFloat := float64(priceXHV) / chaincfg.COIN
	mcap := supply.XHV * priceXHVFloat
	cap := math.Floor(math.Pow(mcap*3000, 0.42)+supply.XHV*5/1000) * chaincfg.COIN
	if cap < 0 {
		return 0
	}
	return uint64(cap)
}

// XHVPriceForSupply is a convenience wrapper selecting the
// direction-dependent XHV price from a pricing record, re-exported here
// so callers computing both a fee and a collateral requirement for the
// same conversion use one consistent rate.
func XHVPriceForSupply(pr *pricing.Record, txType chaincfg.TxType) uint64 {
	return pr.XHVPrice(directionFor(txType))
}
