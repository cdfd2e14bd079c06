package chainpool

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/feecalc"
	"github.com/haven-protocol-org/corepool/pricing"
	"github.com/haven-protocol-org/corepool/wire"
)

// legacyAdmit implements §4.7 steps 6/7 for hf < HFVersionHaven2: fees
// stay denominated in the source asset, unlock windows use the
// pre-per-output-unlock priority tiers, and there is no collateral or
// per-output unlock-time bookkeeping. See the Open Question note in §9:
// this is intentionally a separate function from modernAdmit, not a
// parameterized shared one.
func (p *Pool) legacyAdmit(vc *VerificationContext, id chainhash.Hash, tx *wire.Transaction, txType chaincfg.TxType, source, destination chaincfg.AssetType, hf chaincfg.HFVersion) *VerificationContext {
	if !txType.IsConversion() {
		if tx.AmountBurnt != 0 || tx.AmountMinted != 0 || tx.PricingRecordHeight != 0 {
			return reject(vc, ErrVerificationFailed, "same-asset transaction carries conversion fields")
		}
		return nil
	}

	rec, ok := p.validatePricingRecordWindow(vc, tx)
	if !ok {
		return vc
	}

	if !pricing.NonZeroComponents(rec, txType, source, destination) {
		return reject(vc, ErrVerificationFailed, "pricing record missing a required rate component")
	}

	if tx.AmountBurnt == 0 || tx.AmountMinted == 0 {
		return reject(vc, ErrVerificationFailed, "conversion transaction has zero burn or mint amount")
	}

	unlockBlocks := p.unlockWindowFor(tx, txType, hf)
	expectedFee := feecalc.ConversionFee(txType, tx.AmountBurnt, unlockBlocks, hf)
	if !chaincfg.IsFeeEqualityException(id) && tx.ConversionFee != expectedFee {
		return reject(vc, ErrFeeTooLow, "conversion fee does not match the closed-form computation")
	}

	return nil
}

// modernAdmit implements §4.7 steps 6/7 from HFVersionHaven2 onward:
// per-output unlock-time validation, collateral-output validity, and
// conversion fees normalized into XHV from the per-output-unlock epoch.
func (p *Pool) modernAdmit(vc *VerificationContext, id chainhash.Hash, tx *wire.Transaction, txType chaincfg.TxType, source, destination chaincfg.AssetType, hf chaincfg.HFVersion) *VerificationContext {
	if !txType.IsConversion() {
		if tx.AmountBurnt != 0 || tx.AmountMinted != 0 || tx.PricingRecordHeight != 0 {
			return reject(vc, ErrVerificationFailed, "same-asset transaction carries conversion fields")
		}
		return nil
	}

	rec, ok := p.validatePricingRecordWindow(vc, tx)
	if !ok {
		return vc
	}

	if !pricing.NonZeroComponents(rec, txType, source, destination) {
		return reject(vc, ErrVerificationFailed, "pricing record missing a required rate component")
	}

	if tx.AmountBurnt == 0 || tx.AmountMinted == 0 {
		return reject(vc, ErrVerificationFailed, "conversion transaction has zero burn or mint amount")
	}

	if hf >= chaincfg.HFVersionPerOutputUnlock {
		if len(tx.PerOutputUnlockTimes) != len(tx.Outputs) {
			return reject(vc, ErrInvalidOutput, "per-output unlock times length mismatch")
		}
		if !p.checkPerOutputUnlockTimes(tx, source, destination, hf) {
			return reject(vc, ErrInvalidOutput, "per-output unlock time violates policy")
		}
	}

	if hf >= chaincfg.HFVersionCollateral && txType.IsConversion() && (txType == chaincfg.TxTypeOffshore || txType == chaincfg.TxTypeOnshore) {
		if !tx.HasCollateral() {
			return reject(vc, ErrInvalidOutput, "OFFSHORE/ONSHORE transaction missing collateral output indices")
		}
		if !p.checkCollateralAmount(tx, txType, rec) {
			return reject(vc, ErrFeeTooLow, "declared collateral does not match the closed-form computation")
		}
	}

	unlockBlocks := p.unlockWindowFor(tx, txType, hf)
	sourceFee := feecalc.ConversionFee(txType, tx.AmountBurnt, unlockBlocks, hf)
	expectedFee := sourceFee
	if hf >= chaincfg.HFVersionPerOutputUnlock {
		expectedFee = feecalc.NormalizeToXHV(source, sourceFee, rec, txType)
	}
	if !chaincfg.IsFeeEqualityException(id) && tx.ConversionFee != expectedFee {
		return reject(vc, ErrFeeTooLow, "conversion fee does not match the closed-form computation")
	}

	return nil
}

// validatePricingRecordWindow resolves and age-validates the pricing
// record a conversion transaction references (§4.7 step 7's
// "0 < pr_h < current_height - PRICING_RECORD_VALID_BLOCKS^-1" clause).
func (p *Pool) validatePricingRecordWindow(vc *VerificationContext, tx *wire.Transaction) (*pricing.Record, bool) {
	currentHeight := p.cfg.DB.Height()
	if !pricing.IsValidAt(tx.PricingRecordHeight, currentHeight, chaincfg.PricingRecordValidBlocks) {
		reject(vc, ErrVerificationFailed, "pricing record height outside the valid window")
		return nil, false
	}
	rec, ok := p.recordForTx(tx, 0)
	if !ok {
		reject(vc, ErrVerificationFailed, "referenced pricing record could not be resolved")
		return nil, false
	}
	return rec, true
}

// unlockWindowFor computes how many blocks ahead of admission the
// conversion unlocks, used both by the legacy fee tiers and by the
// per-output unlock-time policy check.
func (p *Pool) unlockWindowFor(tx *wire.Transaction, txType chaincfg.TxType, hf chaincfg.HFVersion) uint64 {
	height := p.cfg.DB.Height()
	if tx.UnlockTime <= height {
		return 0
	}
	return tx.UnlockTime - height
}

// checkPerOutputUnlockTimes implements §4.6's per-output policy: the
// destination-asset, non-collateral leg is fully locked; the
// source-asset, non-collateral leg is unlocked. Outputs at
// tx.CollateralIndices are skipped: their unlock times are not checked
// here or anywhere else in admission.
func (p *Pool) checkPerOutputUnlockTimes(tx *wire.Transaction, source, destination chaincfg.AssetType, hf chaincfg.HFVersion) bool {
	minWindow := p.minUnlockBlocksFor(txTypeFor(source, destination), hf)
	height := p.cfg.DB.Height()
	requiredUnlock := height + minWindow

	for i, o := range tx.Outputs {
		out, ok := o.(wire.Output)
		if !ok {
			return false
		}
		isCollateral := i == tx.CollateralIndices[0] || i == tx.CollateralIndices[1]
		switch {
		case isCollateral:
			continue // collateral-leg unlock times are not checked
		case out.Asset == destination:
			if tx.PerOutputUnlockTimes[i] < requiredUnlock {
				return false
			}
		case out.Asset == source:
			if tx.PerOutputUnlockTimes[i] > height {
				return false
			}
		}
	}
	return true
}

func txTypeFor(source, destination chaincfg.AssetType) chaincfg.TxType {
	switch {
	case source == chaincfg.XHV && destination == chaincfg.XUSD:
		return chaincfg.TxTypeOffshore
	case source == chaincfg.XUSD && destination == chaincfg.XHV:
		return chaincfg.TxTypeOnshore
	default:
		return chaincfg.TxTypeXUSDToXAsset
	}
}

// minUnlockBlocksFor implements §4.6's minimum full-unlock window table.
func (p *Pool) minUnlockBlocksFor(txType chaincfg.TxType, hf chaincfg.HFVersion) uint64 {
	switch txType {
	case chaincfg.TxTypeOffshore:
		return p.cfg.Params.OffshoreUnlockBlocks()
	case chaincfg.TxTypeOnshore:
		return p.cfg.Params.OnshoreUnlockBlocks(hf >= chaincfg.HFVersionCollateral)
	default:
		return p.cfg.Params.XAssetUnlockBlocks()
	}
}

// checkCollateralAmount re-derives the expected collateral for an
// OFFSHORE/ONSHORE transaction and compares it against the amount
// actually posted at tx.CollateralIndices[0].
func (p *Pool) checkCollateralAmount(tx *wire.Transaction, txType chaincfg.TxType, rec *pricing.Record) bool {
	out, ok := tx.Outputs[tx.CollateralIndices[0]].(wire.Output)
	if !ok {
		return false
	}
	priceXHV := feecalc.XHVPriceForSupply(rec, txType)
	expected, err := feecalc.CollateralRequirement(txType, tx.AmountBurnt, priceXHV, p.feecalcSupply())
	if err != nil {
		return false
	}
	return out.Amount == expected
}
