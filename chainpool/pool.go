package chainpool

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
)

// Config bundles the external collaborators and tunables a Pool needs,
// mirroring the shape of the teacher's mempool.Config.
type Config struct {
	Params    *chaincfg.Params
	DB        BlockchainDB
	Verifier  RingVerifier
	FeePolicy FeePolicy

	// MaxPoolWeight bounds Prune's target (§4.8).
	MaxPoolWeight uint64
}

// feeOrderKey is the (fee_per_weight_in_xhv, receive_time) composite key
// the original's std::multimap-backed m_txs_by_fee_and_receive_time uses,
// ported here as a sorted slice rather than a tree: admission and
// removal are O(n) but block-filling, the hot iteration path, is a
// single linear scan in the desired descending order, with no
// rebalancing overhead.
type feeOrderKey struct {
	feePerWeight float64 // XHV units, per weight unit
	receiveTime  time.Time
	id           chainhash.Hash
}

// Pool is the adaptation of the teacher's mempool.TxPool: the same
// lock-protected map-of-indices shape, generalized to this chain's
// fee-density ordering, key-image uniqueness and pricing-record-aware
// lifecycle rules (§3, §4.7, §4.8).
//
// Lock order is pool_lock then chain_lock, global and uniform (§5); this
// port models that as one mutex (mtx) guarding the in-memory indices and
// relies on Config.DB's own internal synchronization for the "chain
// lock" tier, since the database is always the external collaborator,
// never pool-owned state.
type Pool struct {
	cookie int64 // bumped atomically on every mutation; see LastUpdated

	mtx sync.Mutex

	cfg Config

	byID      map[chainhash.Hash]*PoolEntry
	feeOrder  []feeOrderKey // sorted descending by (feePerWeight, -receiveTime)
	keyImages map[chainhash.Hash]map[chainhash.Hash]struct{}
	timedOut  map[chainhash.Hash]struct{}

	inputCheckCache map[chainhash.Hash]inputCheckResult

	totalWeight uint64

	// templateClaims is scratch state for one in-progress
	// miningtpl.NewBlockTemplate call; see ClaimKeyImage/ReleaseClaims.
	templateClaims map[chainhash.Hash]struct{}
}

// inputCheckResult is the cached outcome of a previous readiness
// (input-validity) check. Entries are not cleared on blockchain
// increments or decrements; Readiness overwrites an entry on each check,
// and a recorded failure stops short-circuiting once the height passed
// to Readiness exceeds lastFailedHeight.
type inputCheckResult struct {
	ready            bool
	maxUsedHeight    uint64
	maxUsedBlockID   chainhash.Hash
	lastFailedHeight uint64
	lastFailedID     chainhash.Hash
}

// New mirrors mempool.New's role as the sole constructor, wiring a
// zero-value Pool's maps before any caller can touch it.
func New(cfg *Config) *Pool {
	return &Pool{
		cfg:             *cfg,
		byID:            make(map[chainhash.Hash]*PoolEntry),
		keyImages:       make(map[chainhash.Hash]map[chainhash.Hash]struct{}),
		timedOut:        make(map[chainhash.Hash]struct{}),
		inputCheckCache: make(map[chainhash.Hash]inputCheckResult),
	}
}

// LastUpdated returns a monotonically increasing cookie value bumped on
// every mutation, letting external caches detect staleness without
// holding the pool's lock (§5).
func (p *Pool) LastUpdated() int64 {
	return atomic.LoadInt64(&p.cookie)
}

func (p *Pool) bumpCookie() {
	atomic.AddInt64(&p.cookie, 1)
}

// Count returns the number of transactions currently pooled.
func (p *Pool) Count() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.byID)
}

// TotalWeight returns the sum of every pooled entry's weight, the
// invariant Σ weight over pool == m_txpool_weight from §8.
func (p *Pool) TotalWeight() uint64 {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.totalWeight
}

// HaveTransaction reports whether id is currently pooled.
func (p *Pool) HaveTransaction(id chainhash.Hash) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	_, ok := p.byID[id]
	return ok
}

// FetchTransaction returns the pooled entry for id, if present.
func (p *Pool) FetchTransaction(id chainhash.Hash) (*PoolEntry, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	e, ok := p.byID[id]
	return e, ok
}

// insertFeeOrder inserts key into feeOrder keeping descending
// (feePerWeight, receiveTime-ascending-on-tie) order, matching §8's
// "fee_order iteration yields descending fee-per-weight; ties broken by
// ascending receive_time" property.
func (p *Pool) insertFeeOrder(key feeOrderKey) {
	i := sort.Search(len(p.feeOrder), func(i int) bool {
		return lessFeeOrder(key, p.feeOrder[i])
	})
	p.feeOrder = append(p.feeOrder, feeOrderKey{})
	copy(p.feeOrder[i+1:], p.feeOrder[i:])
	p.feeOrder[i] = key
}

// lessFeeOrder reports whether a sorts before b in feeOrder's desired
// descending-fee / ascending-receive-time order.
func lessFeeOrder(a, b feeOrderKey) bool {
	if a.feePerWeight != b.feePerWeight {
		return a.feePerWeight > b.feePerWeight
	}
	return a.receiveTime.Before(b.receiveTime)
}

func (p *Pool) removeFeeOrder(id chainhash.Hash) {
	for i, k := range p.feeOrder {
		if k.id == id {
			p.feeOrder = append(p.feeOrder[:i], p.feeOrder[i+1:]...)
			return
		}
	}
}

// FeeOrderedIDs returns pooled transaction ids best-first by fee
// density, the iteration order miningtpl.NewBlockTemplate walks.
func (p *Pool) FeeOrderedIDs() []chainhash.Hash {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	ids := make([]chainhash.Hash, len(p.feeOrder))
	for i, k := range p.feeOrder {
		ids[i] = k.id
	}
	return ids
}
