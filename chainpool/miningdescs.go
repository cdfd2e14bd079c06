package chainpool

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/miningtpl"
)

// MiningDescs implements miningtpl.TxSource, returning every pooled
// transaction best-fee-first, mirroring the teacher's
// mempool.TxPool.MiningDescs.
func (p *Pool) MiningDescs() []*miningtpl.TxDesc {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	descs := make([]*miningtpl.TxDesc, 0, len(p.feeOrder))
	for _, k := range p.feeOrder {
		e, ok := p.byID[k.id]
		if !ok {
			continue
		}
		descs = append(descs, &miningtpl.TxDesc{
			ID:            e.ID,
			Tx:            e.Tx,
			Weight:        e.Meta.Weight,
			Fee:           e.Meta.Fee,
			ConversionFee: e.Meta.ConversionFee,
			FeeAsset:      e.Meta.FeeAsset,
			Source:        e.Meta.Source,
			Destination:   e.Meta.Destination,
			TxType:        e.Meta.TxType,
			ReceiveTime:   e.Meta.ReceiveTime,
			KeptByBlock:   e.Meta.KeptByBlock,
			Pruned:        e.Meta.Pruned,
		})
	}
	return descs
}

// Readiness implements miningtpl.TxSource: it consults and refreshes the
// input-validity cache, short-circuiting repeated checks until the tip
// advances past a previously recorded failure (§4.7's ready-check
// policy).
func (p *Pool) Readiness(id chainhash.Hash, currentHeight uint64) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	cached, ok := p.inputCheckCache[id]
	if ok && cached.lastFailedHeight != 0 && currentHeight <= cached.lastFailedHeight {
		return false
	}

	e, ok := p.byID[id]
	if !ok {
		return false
	}
	ready := true
	if p.cfg.DB != nil {
		ready = !p.cfg.DB.HaveTxKeyImagesAsSpent(e.Tx)
	}
	if !ready {
		p.inputCheckCache[id] = inputCheckResult{ready: false, lastFailedHeight: currentHeight, lastFailedID: id}
	} else {
		p.inputCheckCache[id] = inputCheckResult{ready: true}
	}
	return ready
}

// ClaimKeyImage and ReleaseClaims implement the per-template-build
// key-image collision guard of §4.9 step 5. They are intentionally
// separate from the pool's persistent keyImages index: a template's
// claims are scratch state for one filler run, never persisted.
func (p *Pool) ClaimKeyImage(img chainhash.Hash) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.templateClaims == nil {
		p.templateClaims = make(map[chainhash.Hash]struct{})
	}
	if _, exists := p.templateClaims[img]; exists {
		return false
	}
	p.templateClaims[img] = struct{}{}
	return true
}

func (p *Pool) ReleaseClaims() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.templateClaims = nil
}
