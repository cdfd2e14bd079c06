package coinbase

import (
	"math/bits"
	"sync"

	"github.com/haven-protocol-org/corepool/chaincfg"
)

// MoneySupply is the total emission target, matching the original's
// MONEY_SUPPLY constant (in atomic units).
const MoneySupply = uint64(18_400_000) * chaincfg.COIN

// EmissionSpeedFactor controls how fast the block reward decays toward
// zero as cumulative issuance approaches MoneySupply: base_reward =
// (MoneySupply - alreadyGenerated) >> EmissionSpeedFactor.
const EmissionSpeedFactor = 20

// RewardCache caches the baseline (unpenalized) reward per
// alreadyGeneratedCoins value, the same memoization shape as the
// teacher's blockchain.SubsidyCache (blockchain/subsidy.go), adapted here
// from decred's height-interval halving schedule to this chain's
// continuous, weight-penalized emission curve. It satisfies
// RewardCalculator.
type RewardCache struct {
	mu    sync.RWMutex
	cache map[uint64]uint64
}

// NewRewardCache returns an empty cache, mirroring
// blockchain.NewSubsidyCache's role as the pointer every coinbase build
// call shares.
func NewRewardCache() *RewardCache {
	return &RewardCache{cache: make(map[uint64]uint64)}
}

// CalcBlockReward implements the external reward-derivation function
// §4.4 step 1 and §4.9 step 1/2 require, following Haven/Monero's
// block-weight penalty: full reward up to the median weight, a
// quadratic penalty between median and 2*median, and outright rejection
// (ErrBlockTooBig) beyond 2*median.
func (c *RewardCache) CalcBlockReward(medianWeight, currentWeight, alreadyGeneratedCoins uint64, hf chaincfg.HFVersion) (uint64, error) {
	base := c.baseReward(alreadyGeneratedCoins)

	target := medianWeight
	const minTargetWeight = 300_000
	if target < minTargetWeight {
		target = minTargetWeight
	}

	if currentWeight <= target {
		return base, nil
	}
	if currentWeight > 2*target {
		return 0, ErrBlockTooBig
	}

	// Quadratic penalty: reward *= 1 - ((w-target)/target)^2, computed in
	// integer arithmetic with 128-bit-safe widened multiplies the way
	// consensus code must (see §9's note on reproducible arithmetic).
	excess := currentWeight - target
	penaltyNum := excess * excess
	penaltyDen := target * target
	if penaltyDen == 0 {
		return base, nil
	}
	reward := base - mulDiv(base, penaltyNum, penaltyDen)
	return reward, nil
}

func (c *RewardCache) baseReward(alreadyGeneratedCoins uint64) uint64 {
	c.mu.RLock()
	if v, ok := c.cache[alreadyGeneratedCoins]; ok {
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	remaining := uint64(0)
	if alreadyGeneratedCoins < MoneySupply {
		remaining = MoneySupply - alreadyGeneratedCoins
	}
	base := remaining >> EmissionSpeedFactor

	c.mu.Lock()
	c.cache[alreadyGeneratedCoins] = base
	c.mu.Unlock()
	return base
}

// mulDiv computes a*b/c from the full 128-bit product of a and b, so a
// product that overflows 64 bits (a COIN-scaled reward times a squared
// weight excess routinely does) is still divided exactly.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bitsMul64(a, b)
	if hi == 0 {
		return lo / c
	}
	if hi < c {
		quo, _ := bits.Div64(hi, lo, c)
		return quo
	}
	// Fall back to floating division only when the quotient itself does
	// not fit in 64 bits; CalcBlockReward never reaches this, since its
	// penalty fraction is at most 1.
	return uint64(float64(a) * float64(b) / float64(c))
}

func bitsMul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 0xffffffff
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t := aLo * bLo
	w0 := t & mask32
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & mask32
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	hi = aHi*bHi + w2 + k
	lo = (t << 32) | w0
	return hi, lo
}
