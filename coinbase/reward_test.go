package coinbase

import (
	"testing"

	"github.com/haven-protocol-org/corepool/chaincfg"
)

func TestRewardCacheFullRewardUnderMedian(t *testing.T) {
	c := NewRewardCache()
	got, err := c.CalcBlockReward(300_000, 100_000, 0, chaincfg.HFVersionHaven2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := MoneySupply >> EmissionSpeedFactor
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestRewardCacheRejectsDoubleMedian(t *testing.T) {
	c := NewRewardCache()
	_, err := c.CalcBlockReward(300_000, 700_000, 0, chaincfg.HFVersionHaven2)
	if err != ErrBlockTooBig {
		t.Fatalf("expected ErrBlockTooBig, got %v", err)
	}
}

func TestRewardCachePenalizesOverMedian(t *testing.T) {
	c := NewRewardCache()
	full, _ := c.CalcBlockReward(300_000, 300_000, 0, chaincfg.HFVersionHaven2)
	penalized, _ := c.CalcBlockReward(300_000, 450_000, 0, chaincfg.HFVersionHaven2)
	if penalized >= full {
		t.Fatalf("expected penalty to shrink the reward: full=%d penalized=%d", full, penalized)
	}
}
