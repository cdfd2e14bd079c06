package chainpool

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// NextRelay exposes the bookkeeping a Dandelion++ embargo scheduler
// needs without the pool running the Poisson-delay timer itself (§5
// places that at the enclosing daemon layer): the entry's current relay
// method and the last time it was relayed, or the zero time if it has
// never been relayed ("never" sentinel from §4.7 step 12).
func (p *Pool) NextRelay(id chainhash.Hash) (RelayMethod, time.Time, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	e, ok := p.byID[id]
	if !ok {
		return RelayNone, time.Time{}, false
	}
	return e.Meta.RelayMethod, e.Meta.LastRelayedTime, true
}

// MarkRelayed upgrades an entry's relay method and timestamp, the
// lifecycle mutation §3 describes as happening "on relay (timestamp and
// method upgrade)".
func (p *Pool) MarkRelayed(id chainhash.Hash, method RelayMethod, at time.Time) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if e, ok := p.byID[id]; ok {
		e.Meta.RelayMethod = method
		e.Meta.LastRelayedTime = at
		p.bumpCookie()
	}
}

// RelayableTransactions mirrors the original's
// get_relayable_transactions: entries visible under the given category
// filter, for the relay scheduler to consider.
func (p *Pool) RelayableTransactions(cat Category) []*PoolEntry {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	var out []*PoolEntry
	for _, k := range p.feeOrder {
		e := p.byID[k.id]
		if e == nil {
			continue
		}
		if matchesCategory(e.Meta.RelayMethod, cat) {
			out = append(out, e)
		}
	}
	return out
}

func matchesCategory(method RelayMethod, cat Category) bool {
	switch cat {
	case CategoryAll:
		return true
	case CategoryBroadcasted:
		return method == RelayFluff || method == RelayBlock
	case CategoryRelayable:
		return method == RelayLocal || method == RelayStem
	case CategoryLegacy:
		return method == RelayNone
	default:
		return false
	}
}

// PoolStats is the diagnostic summary from get_transactions_and_spent_
// keys_info, carried here because it is cheap (it only reads
// already-maintained indices) even though §8's Testable Properties don't
// require it.
type PoolStats struct {
	Count       int
	TotalWeight uint64
	KeyImages   int
}

// SpentKeyImageInfo names one key image and the pool entries currently
// claiming it.
type SpentKeyImageInfo struct {
	KeyImage chainhash.Hash
	TxIDs    []chainhash.Hash
}

// Info returns the pool's diagnostic snapshot.
func (p *Pool) Info() (PoolStats, []SpentKeyImageInfo) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	stats := PoolStats{Count: len(p.byID), TotalWeight: p.totalWeight, KeyImages: len(p.keyImages)}
	infos := make([]SpentKeyImageInfo, 0, len(p.keyImages))
	for img, ids := range p.keyImages {
		info := SpentKeyImageInfo{KeyImage: img}
		for id := range ids {
			info.TxIDs = append(info.TxIDs, id)
		}
		infos = append(infos, info)
	}
	return stats, infos
}
