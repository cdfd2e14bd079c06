package miningtpl

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/coinbase"
	"github.com/haven-protocol-org/corepool/feecalc"
	"github.com/haven-protocol-org/corepool/pricing"
	"github.com/haven-protocol-org/corepool/wire"
)

// Template is the result of NewBlockTemplate: a fee-maximizing,
// rule-compliant subset of the pool plus the accounting §4.9 asks for.
type Template struct {
	TxIDs                  []chainhash.Hash
	TotalWeight            uint64
	FeeMap                 map[chaincfg.AssetType]uint64
	ConversionFeeMap       map[chaincfg.AssetType]uint64
	XAssetConversionFeeMap map[chaincfg.AssetType]uint64
	ExpectedReward         uint64
}

// PriceRecordSource supplies the "latest acceptable price record" §4.9
// step 3 needs, decoupled from any one database shape.
type PriceRecordSource interface {
	GetLatestAcceptablePricingRecord() (*pricing.Record, uint64, bool)
}

// NewBlockTemplate implements §4.9 steps 1-6.
func NewBlockTemplate(params *chaincfg.Params, src TxSource, prSrc PriceRecordSource, reward coinbase.RewardCalculator, medianWeight, alreadyGenerated, currentHeight uint64, hf chaincfg.HFVersion, supply feecalc.Supply) (*Template, error) {
	// Step 1: baseline reward of an empty block.
	bestCoinbase, err := reward.CalcBlockReward(medianWeight, 0, alreadyGenerated, hf)
	if err != nil {
		return nil, err
	}

	// Step 2: max total weight.
	const coinbaseReserve = 600
	var maxTotalWeight uint64
	if hf >= chaincfg.HFVersionHaven2 {
		maxTotalWeight = 2*medianWeight - coinbaseReserve
	} else {
		maxTotalWeight = uint64(1.3*float64(medianWeight)) - coinbaseReserve
	}

	// Step 3: latest acceptable price record, with graceful degradation.
	var rec *pricing.Record
	var recHeight uint64
	var haveRecord bool
	if prSrc != nil {
		rec, recHeight, haveRecord = prSrc.GetLatestAcceptablePricingRecord()
	}
	skipConversions := !haveRecord && hf >= chaincfg.HFVersionCollateral
	_ = recHeight

	// Step 4: block conversion cap.
	var capXHV uint64
	if haveRecord {
		priceMin := rec.XHVPrice(pricing.DirOffshore) // min(ma, spot)
		capXHV = feecalc.BlockConversionCap(supply, priceMin)
	}

	tpl := &Template{
		FeeMap:                 make(map[chaincfg.AssetType]uint64),
		ConversionFeeMap:       make(map[chaincfg.AssetType]uint64),
		XAssetConversionFeeMap: make(map[chaincfg.AssetType]uint64),
	}

	src.ReleaseClaims()
	defer src.ReleaseClaims()

	var totalWeight uint64
	var conversionSoFarXHV uint64
	var feesSoFarXHV uint64

	for _, desc := range src.MiningDescs() {
		if desc.Pruned {
			continue
		}
		if totalWeight+desc.Weight > maxTotalWeight {
			continue
		}
		if skipConversions && desc.TxType.IsConversion() {
			continue
		}

		feeXHVThis := desc.Fee
		if desc.FeeAsset != chaincfg.XHV {
			if !haveRecord {
				continue
			}
			feeXHVThis = feecalc.NormalizeToXHV(desc.FeeAsset, desc.Fee, rec, desc.TxType)
		}

		if hf >= chaincfg.HFVersionHaven2 {
			candidateWeight := totalWeight + desc.Weight
			newReward, err := reward.CalcBlockReward(medianWeight, candidateWeight, alreadyGenerated, hf)
			if err != nil {
				continue
			}
			projectedCoinbase := newReward + feesSoFarXHV + feeXHVThis
			if projectedCoinbase < bestCoinbase {
				continue
			}
		} else if totalWeight > medianWeight {
			break
		}

		if !src.Readiness(desc.ID, currentHeight) {
			continue
		}

		var keyImagesClaimed []chainhash.Hash
		if !claimAllKeyImages(src, desc, &keyImagesClaimed) {
			releaseNone(keyImagesClaimed)
			continue
		}

		var conversionThisTxXHV uint64
		if desc.TxType.IsConversion() {
			amount := desc.Tx.AmountBurnt
			amountAsset := desc.Source
			if desc.TxType == chaincfg.TxTypeOnshore {
				amount = desc.Tx.AmountMinted
				amountAsset = desc.Destination
			}
			conversionThisTxXHV = feecalc.NormalizeToXHV(amountAsset, amount, rec, desc.TxType)
			if haveRecord && conversionSoFarXHV+conversionThisTxXHV > capXHV {
				continue
			}
		}

		// Accept.
		tpl.TxIDs = append(tpl.TxIDs, desc.ID)
		totalWeight += desc.Weight
		feesSoFarXHV += feeXHVThis
		conversionSoFarXHV += conversionThisTxXHV
		tpl.FeeMap[chaincfg.XHV] += feeXHVThis

		switch {
		case hf >= chaincfg.HFVersionPerOutputUnlock:
			// Admission already requires the declared conversion fee to be
			// XHV-denominated from this epoch on.
			tpl.ConversionFeeMap[chaincfg.XHV] += desc.ConversionFee
		case hf >= chaincfg.HFVersionXAssetFeesV2 && (desc.TxType == chaincfg.TxTypeXUSDToXAsset || desc.TxType == chaincfg.TxTypeXAssetToXUSD):
			tpl.XAssetConversionFeeMap[desc.FeeAsset] += desc.ConversionFee
		default:
			tpl.ConversionFeeMap[desc.FeeAsset] += desc.ConversionFee
		}
	}

	tpl.TotalWeight = totalWeight
	tpl.ExpectedReward = bestCoinbase
	return tpl, nil
}

func claimAllKeyImages(src TxSource, desc *TxDesc, claimed *[]chainhash.Hash) bool {
	for _, in := range desc.Tx.Inputs {
		s, ok := in.(wire.SpendIn)
		if !ok {
			continue
		}
		if !src.ClaimKeyImage(s.KeyImage) {
			return false
		}
		*claimed = append(*claimed, s.KeyImage)
	}
	return true
}

func releaseNone(_ []chainhash.Hash) {}
