// Package feecalc implements the deterministic, side-effect-free fee,
// collateral, and block-conversion-cap arithmetic of §4.2, ported from
// get_offshore_fee / get_onshore_fee / get_xasset_to_xusd_fee /
// get_xusd_to_xasset_fee / get_collateral_requirements / get_block_cap in
// cryptonote_tx_utils.cpp. Every function here is pure: callers supply the
// pricing record and protocol epoch explicitly rather than this package
// reaching for chain state.
package feecalc

import (
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/pricing"
)

// ConversionFee computes the fee owed on amount (denominated in the
// source asset, excluding change and collateral outputs) for a
// conversion of type txType, at protocol epoch hf, where the converted
// funds will unlock in unlockBlocks blocks from admission.
//
// unlockBlocks is only consulted for OFFSHORE/ONSHORE below the
// per-output-unlock epoch, where the fee tier depends on how long the
// wallet chose to lock the conversion (§4.2's table).
func ConversionFee(txType chaincfg.TxType, amount uint64, unlockBlocks uint64, hf chaincfg.HFVersion) uint64 {
	switch txType {
	case chaincfg.TxTypeOffshore, chaincfg.TxTypeOnshore:
		switch {
		case hf >= chaincfg.HFVersionCollateral:
			return amount * 3 / 200 // 1.5%
		case hf >= chaincfg.HFVersionPerOutputUnlock:
			return amount / 200 // 0.5%
		default:
			return legacyUnlockTierFee(amount, unlockBlocks)
		}
	case chaincfg.TxTypeXUSDToXAsset, chaincfg.TxTypeXAssetToXUSD:
		switch {
		case hf >= chaincfg.HFVersionCollateral:
			return amount * 15 / 1000 // 1.5%
		case hf >= chaincfg.HFVersionPerOutputUnlock:
			return amount * 5 / 1000 // 0.5%
		case hf >= chaincfg.HFVersionXAssetFeesV2:
			return amount * 5 / 1000 // 0.5%
		default:
			return amount * 3 / 1000 // 0.3%, the pre-v2 flat xasset rate
		}
	default:
		return 0
	}
}

// legacyUnlockTierFee implements the pre-per-output-unlock priority
// tiers for OFFSHORE/ONSHORE: the longer the wallet is willing to lock
// the funds, the lower the fee.
func legacyUnlockTierFee(amount, unlockBlocks uint64) uint64 {
	switch {
	case unlockBlocks >= 5040:
		return amount / 500
	case unlockBlocks >= 1440:
		return amount / 20
	case unlockBlocks >= 720:
		return amount / 10
	default:
		return amount / 5
	}
}

// NormalizeToXHV converts a fee denominated in feeAsset into XHV units
// using pr's direction-dependent rate, the way admission and block
// filling do from the per-output-unlock ("bulletproof-plus") epoch
// onward for fee-density ordering and reward accounting.
func NormalizeToXHV(feeAsset chaincfg.AssetType, amount uint64, pr *pricing.Record, txType chaincfg.TxType) uint64 {
	if feeAsset == chaincfg.XHV {
		return amount
	}
	dir := directionFor(txType)
	priceXHV := pr.XHVPrice(dir)
	if feeAsset == chaincfg.XUSD {
		if priceXHV == 0 {
			return 0
		}
		return amount * chaincfg.COIN / priceXHV
	}
	// xAsset fee: convert xAsset -> XUSD -> XHV via its own rate, then the
	// XHV/XUSD rate, mirroring the two-hop conversion the original
	// performs for xasset_conversion_fee_map entries.
	rate, ok := pr.RateFor(feeAsset)
	if !ok || rate == 0 || priceXHV == 0 {
		return 0
	}
	xusd := amount * chaincfg.COIN / rate
	return xusd * chaincfg.COIN / priceXHV
}

func directionFor(txType chaincfg.TxType) pricing.Direction {
	if txType == chaincfg.TxTypeOffshore {
		return pricing.DirOffshore
	}
	return pricing.DirOnshore
}
