package feecalc

import (
	"math"
	"testing"

	"github.com/haven-protocol-org/corepool/chaincfg"
)

func TestCollateralRequirementOffshoreMinimumOne(t *testing.T) {
	// A small ratio_mcap (0.01) keeps rate_mcvbs + slippage at about 1.05,
	// so VBS floors to 1 and collateral equals the amount itself.
	supply := Supply{XHV: 1_000_000, XAssetTotal: 10_000}
	priceXHV := uint64(chaincfg.COIN) // 1.0 XHV-equivalent
	amount := uint64(100 * chaincfg.COIN)

	got, err := CollateralRequirement(chaincfg.TxTypeOffshore, amount, priceXHV, supply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint64(100 * chaincfg.COIN) // VBS=1 * 100 XHV
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestCollateralRequirementRejectsTransfer(t *testing.T) {
	_, err := CollateralRequirement(chaincfg.TxTypeTransfer, 100, chaincfg.COIN, Supply{})
	if err == nil {
		t.Fatal("expected an error for a non-convertible tx type")
	}
}

func TestBlockConversionCapMonotonicInSupply(t *testing.T) {
	priceXHV := uint64(chaincfg.COIN)
	small := BlockConversionCap(Supply{XHV: 1_000}, priceXHV)
	big := BlockConversionCap(Supply{XHV: 1_000_000}, priceXHV)
	if !(big > small) {
		t.Fatalf("expected cap to grow with supply: small=%d big=%d", small, big)
	}
}

func TestRateMCVBSBranches(t *testing.T) {
	if v := rateMCVBS(0); v != 0 {
		t.Fatalf("rateMCVBS(0) = %v, want 0", v)
	}
	lowBranch := rateMCVBS(0.5)
	wantLow := math.Exp((0.5+math.Sqrt(0.5))*2) - 0.5
	if lowBranch != wantLow {
		t.Fatalf("rateMCVBS(0.5) = %v, want %v", lowBranch, wantLow)
	}
	highBranch := rateMCVBS(0.95)
	wantHigh := math.Sqrt(0.95) * 40
	if highBranch != wantHigh {
		t.Fatalf("rateMCVBS(0.95) = %v, want %v", highBranch, wantHigh)
	}
}
