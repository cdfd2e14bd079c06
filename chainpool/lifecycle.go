package chainpool

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/feecalc"
	"github.com/haven-protocol-org/corepool/wire"
)

// Prune implements §4.8's prune(target_bytes): descend fee_order from
// the tail (lowest fee/weight), removing entries whose KeptByBlock flag
// is false, until weight <= target.
func (p *Pool) Prune(target uint64) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.pruneLocked(target)
}

func (p *Pool) pruneLocked(target uint64) {
	for i := len(p.feeOrder) - 1; i >= 0 && p.totalWeight > target; i-- {
		id := p.feeOrder[i].id
		e, ok := p.byID[id]
		if !ok || e.Meta.KeptByBlock {
			continue
		}
		p.removeLocked(id)
	}
}

// removeLocked deletes id from every index, assuming mtx is held.
func (p *Pool) removeLocked(id chainhash.Hash) {
	e, ok := p.byID[id]
	if !ok {
		return
	}
	delete(p.byID, id)
	p.totalWeight -= e.Meta.Weight
	p.removeFeeOrder(id)
	for _, img := range keyImagesOf(e.Tx) {
		if set, ok := p.keyImages[img]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(p.keyImages, img)
			}
		}
	}
	delete(p.inputCheckCache, id)
	if p.cfg.DB != nil {
		_ = p.cfg.DB.RemoveTxpoolTx(id)
	}
	p.bumpCookie()
}

// RemoveStuckTransactions implements §4.8's remove_stuck_transactions:
// ages out entries past MEMPOOL_TX_LIVETIME (or
// MEMPOOL_TX_FROM_ALT_BLOCK_LIVETIME if kept_by_block), and conversion
// transactions whose pricing record has aged past
// PRICING_RECORD_VALID_BLOCKS relative to the current tip.
func (p *Pool) RemoveStuckTransactions(now time.Time) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	currentHeight := uint64(0)
	if p.cfg.DB != nil {
		currentHeight = p.cfg.DB.Height()
	}

	var evict []chainhash.Hash
	for id, e := range p.byID {
		age := now.Sub(e.Meta.ReceiveTime)
		switch {
		case !e.Meta.KeptByBlock && age > time.Duration(chaincfg.MempoolTxLivetime)*time.Second:
			evict = append(evict, id)
			continue
		case e.Meta.KeptByBlock && age > time.Duration(chaincfg.MempoolTxFromAltBlockLivetime)*time.Second:
			evict = append(evict, id)
			continue
		}
		if e.Tx.PricingRecordHeight != 0 && currentHeight > e.Tx.PricingRecordHeight &&
			currentHeight-e.Tx.PricingRecordHeight > chaincfg.PricingRecordValidBlocks {
			evict = append(evict, id)
		}
	}

	for _, id := range evict {
		p.removeLocked(id)
		p.timedOut[id] = struct{}{}
	}
}

// MarkDoubleSpend implements §4.8's mark_double_spend: on observing that
// an incoming block spends keyImage, flag every pool entry still using
// it for observability without removing them (removal happens via
// TakeTx/Prune against the block's own transactions instead).
func (p *Pool) MarkDoubleSpend(keyImage chainhash.Hash) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	for id := range p.keyImages[keyImage] {
		if e, ok := p.byID[id]; ok {
			e.Meta.DoubleSpendSeen = true
		}
	}
}

// TakeTx implements §4.8's take_tx: atomically remove and return the
// entry for block inclusion.
func (p *Pool) TakeTx(id chainhash.Hash) (*PoolEntry, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	e, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	p.removeLocked(id)
	return e, true
}

// LoadFromDB rebuilds every in-memory index by replaying
// ForAllTxpoolTxes in two passes — first non-block-kept, then
// block-kept — to avoid self-collision on key images during reload, per
// §6's "Persisted state" paragraph. Entries that fail to parse are
// dropped rather than re-indexed.
func (p *Pool) LoadFromDB() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	var pass func(keptByBlock bool)
	pass = func(keptByBlock bool) {
		p.cfg.DB.ForAllTxpoolTxes(func(id chainhash.Hash, meta PoolEntryMeta, blob []byte) bool {
			if meta.KeptByBlock != keptByBlock {
				return true
			}
			tx, ok := parseTransactionBlob(blob)
			if !ok {
				_ = p.cfg.DB.RemoveTxpoolTx(id)
				return true
			}
			entry := &PoolEntry{ID: id, Tx: tx, Blob: blob, Meta: meta}
			p.byID[id] = entry
			p.totalWeight += meta.Weight
			feeXHV := meta.Fee
			if meta.TxType.IsConversion() {
				if rec, ok := p.recordForTx(tx, 0); ok {
					feeXHV = feecalc.NormalizeToXHV(meta.FeeAsset, meta.Fee, rec, meta.TxType)
				}
			}
			p.insertFeeOrder(feeOrderKey{
				feePerWeight: safeDiv(float64(feeXHV), float64(meta.Weight)),
				receiveTime:  meta.ReceiveTime,
				id:           id,
			})
			for _, img := range keyImagesOf(tx) {
				if p.keyImages[img] == nil {
					p.keyImages[img] = make(map[chainhash.Hash]struct{})
				}
				p.keyImages[img][id] = struct{}{}
			}
			return true
		}, true, CategoryAll)
	}

	pass(false)
	pass(true)
	p.bumpCookie()
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// parseTransactionBlob is the hook LoadFromDB uses to deserialize a
// persisted blob back into a *wire.Transaction; the wire format itself
// is owned by the embedding daemon (this module only defines the parsed
// shape), so this is overridden via RegisterBlobParser.
var parseTransactionBlob = func(blob []byte) (*wire.Transaction, bool) { return nil, false }

// RegisterBlobParser lets the embedding daemon install its wire-format
// decoder, consumed by LoadFromDB during startup reload.
func RegisterBlobParser(parse func(blob []byte) (*wire.Transaction, bool)) {
	parseTransactionBlob = parse
}
