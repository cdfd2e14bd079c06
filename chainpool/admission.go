package chainpool

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/feecalc"
	"github.com/haven-protocol-org/corepool/pricing"
	"github.com/haven-protocol-org/corepool/txrules"
	"github.com/haven-protocol-org/corepool/wire"
)

// AddTx implements the add_tx state machine of §4.7. It is the single
// entry point every relay/RPC path funnels through, mirroring the
// teacher's MaybeAcceptTransaction as the one gate all admission takes.
//
// Two code paths coexist below the hf_version < HFVersionHaven2 split
// (legacyAdmit, modernAdmit), per the explicit Open Question in §9: the
// legacy path accounts fees per-asset and uses the pre-bulletproof-plus
// unlock tiers; the modern path normalizes conversion fees into XHV and
// uses per-output unlock times. They are never collapsed into one
// parameterized function because the original's divergence is in the
// accounting shape itself, not just in constants.
func (p *Pool) AddTx(id chainhash.Hash, tx *wire.Transaction, blob []byte, weight uint64, relay RelayMethod, hf chaincfg.HFVersion) *VerificationContext {
	vc := &VerificationContext{}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	// Step 1: timed-out rejection, bypassed for block-relay re-admission.
	if _, timedOut := p.timedOut[id]; timedOut && relay != RelayBlock {
		return reject(vc, ErrVerificationFailed, "transaction id is timed out")
	}

	// Step 2: unsupported input variants are caught inside Classify.

	// Step 3: unlock_time sentinel check.
	if tx.UnlockTime >= chaincfg.MaxBlockNumber {
		return reject(vc, ErrInvalidInput, "unlock_time is not a block height")
	}

	// Step 4: version gate.
	if tx.Version != chaincfg.TxVersionForHF(hf) {
		return reject(vc, ErrVerificationFailed, "transaction version does not match the active epoch")
	}

	// Step 5: classify.
	source, destination, txType, err := txrules.Classify(id, tx)
	if err != nil {
		return reject(vc, classifyErrorCode(err), err.Error())
	}
	vc.Source, vc.Destination, vc.TxType = source, destination, txType

	// Step 6/7: burn/mint balance, fee verification. Branches on epoch.
	if hf >= chaincfg.HFVersionHaven2 {
		if rc := p.modernAdmit(vc, id, tx, txType, source, destination, hf); rc != nil {
			return rc
		}
	} else {
		if rc := p.legacyAdmit(vc, id, tx, txType, source, destination, hf); rc != nil {
			return rc
		}
	}

	// Step 8: standard per-byte fee.
	if p.cfg.FeePolicy != nil {
		prForFee, _ := p.recordForTx(tx, hf)
		if !p.cfg.FeePolicy.CheckFee(weight, tx.Fee, prForFee, source, destination, txType) {
			return reject(vc, ErrFeeTooLow, "fee below relay policy")
		}
	}

	// Step 9: weight limit.
	if weight > p.transactionWeightLimit(hf) {
		return reject(vc, ErrTooBig, "transaction weight exceeds the per-tx limit")
	}

	// Step 10: key-image collision, bypassed for block re-org admission.
	for _, img := range keyImagesOf(tx) {
		if ids, exists := p.keyImages[img]; exists && relay != RelayBlock {
			for otherID, state := range p.activeStatesFor(ids) {
				if state == RelayFluff || state == RelayLocal || state == RelayBlock {
					_ = otherID
					return reject(vc, ErrDoubleSpend, "key image already spent in pool")
				}
			}
		}
	}

	// Step 11: ring/commitment verifier.
	if p.cfg.Verifier != nil {
		prForFee, _ := p.recordForTx(tx, hf)
		ok := p.cfg.Verifier.VerifyRctSemantics(tx, prForFee, txType, source, destination, tx.Version)
		if !ok {
			if relay == RelayBlock {
				// Recorded anyway; may become valid later (§4.7 step 11).
				vc.Code = ErrVerificationImpossible
			} else {
				return reject(vc, ErrVerificationImpossible, "ring verifier rejected transaction")
			}
		}
	}

	// Step 12: commit.
	p.addTransaction(id, tx, blob, weight, relay, source, destination, txType)
	vc.AddedToPool = true
	return vc
}

// recordForTx resolves the pricing record a conversion transaction
// references, or nil for same-asset transfers.
func (p *Pool) recordForTx(tx *wire.Transaction, hf chaincfg.HFVersion) (*pricing.Record, bool) {
	if tx.PricingRecordHeight == 0 {
		return nil, false
	}
	if tx.PricingRecordHeight == chaincfg.HardcodedPricingRecordHeight {
		if rec, ok := HardcodedPricingRecord(); ok {
			return rec, true
		}
	}
	blockID, ok := p.cfg.DB.BlockIDByHeight(tx.PricingRecordHeight)
	if !ok {
		return nil, false
	}
	return p.cfg.DB.PricingRecordAt(blockID)
}

func classifyErrorCode(err error) ErrorCode {
	switch err {
	case txrules.ErrUnsupportedInput, txrules.ErrMixedSourceAssets, txrules.ErrCoinbaseMixedInputs:
		return ErrInvalidInput
	default:
		return ErrInvalidOutput
	}
}

func reject(vc *VerificationContext, code ErrorCode, reason string) *VerificationContext {
	vc.AddedToPool = false
	vc.Code = code
	vc.Reason = reason
	return vc
}

// transactionWeightLimit implements §4.7 step 9: half the minimum block
// weight (minus coinbase reserve) from version 5, unbounded (beyond the
// pool's own max weight) before that.
func (p *Pool) transactionWeightLimit(hf chaincfg.HFVersion) uint64 {
	const minBlockWeight = 300_000
	const coinbaseReserve = 600
	if hf >= chaincfg.HFVersionHaven2 {
		return (minBlockWeight - coinbaseReserve) / 2
	}
	return p.cfg.MaxPoolWeight
}

func keyImagesOf(tx *wire.Transaction) []chainhash.Hash {
	var out []chainhash.Hash
	for _, in := range tx.Inputs {
		if s, ok := in.(wire.SpendIn); ok {
			out = append(out, s.KeyImage)
		}
	}
	return out
}

// activeStatesFor maps each id sharing a key image to its current relay
// state, so AddTx can apply the "at most one id may be in states
// {fluff, local, block}" rule from §3 while tolerating additional
// stem-state ids for Dandelion++ loop handling.
func (p *Pool) activeStatesFor(ids map[chainhash.Hash]struct{}) map[chainhash.Hash]RelayMethod {
	out := make(map[chainhash.Hash]RelayMethod, len(ids))
	for id := range ids {
		if e, ok := p.byID[id]; ok {
			out[id] = e.Meta.RelayMethod
		}
	}
	return out
}

// addTransaction implements §4.7 step 12: index the transaction into
// every pool structure and bump the cookie.
func (p *Pool) addTransaction(id chainhash.Hash, tx *wire.Transaction, blob []byte, weight uint64, relay RelayMethod, source, destination chaincfg.AssetType, txType chaincfg.TxType) {
	now := time.Now()
	feeAsset := chaincfg.XHV
	feeXHV := tx.Fee
	if txType.IsConversion() {
		feeAsset = source
		if rec, ok := p.recordForTx(tx, 0); ok {
			feeXHV = feecalc.NormalizeToXHV(feeAsset, tx.Fee, rec, txType)
		}
	}

	meta := PoolEntryMeta{
		Weight:          weight,
		Fee:             tx.Fee,
		ConversionFee:   tx.ConversionFee,
		FeeAsset:        feeAsset,
		ReceiveTime:     now,
		LastRelayedTime: time.Time{}, // sentinel "never"; first relay scheduler decides
		RelayMethod:     relay,
		Source:          source,
		Destination:     destination,
		TxType:          txType,
	}

	entry := &PoolEntry{ID: id, Tx: tx, Blob: blob, Meta: meta}
	p.byID[id] = entry
	p.totalWeight += weight

	p.insertFeeOrder(feeOrderKey{feePerWeight: float64(feeXHV) / float64(weight), receiveTime: now, id: id})

	for _, img := range keyImagesOf(tx) {
		if p.keyImages[img] == nil {
			p.keyImages[img] = make(map[chainhash.Hash]struct{})
		}
		p.keyImages[img][id] = struct{}{}
	}

	if p.cfg.DB != nil {
		_ = p.cfg.DB.AddTxpoolTx(id, blob, meta)
	}

	p.bumpCookie()

	if weight > 0 && p.cfg.MaxPoolWeight > 0 && p.totalWeight > p.cfg.MaxPoolWeight {
		p.pruneLocked(p.cfg.MaxPoolWeight)
	}

	if log != nil {
		log.Debugf("accepted tx %v into pool (%s, weight %d)", id, txType, weight)
	}
}

// feecalcSupply adapts the pool's BlockchainDB snapshot into the shape
// feecalc expects.
func (p *Pool) feecalcSupply() feecalc.Supply {
	s, err := p.cfg.DB.CirculatingSupply()
	if err != nil {
		return feecalc.Supply{}
	}
	return feecalc.Supply(s)
}
