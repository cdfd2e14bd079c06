package feecalc

import (
	"testing"

	"github.com/haven-protocol-org/corepool/chaincfg"
)

func TestConversionFeeCollateralEpoch(t *testing.T) {
	amount := uint64(100 * chaincfg.COIN)
	got := ConversionFee(chaincfg.TxTypeOffshore, amount, 0, chaincfg.HFVersionCollateral)
	want := amount * 3 / 200
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestConversionFeeLegacyUnlockTiers(t *testing.T) {
	amount := uint64(1000)
	cases := []struct {
		unlock uint64
		divide uint64
	}{
		{5040, 500},
		{1440, 20},
		{720, 10},
		{10, 5},
	}
	for _, c := range cases {
		got := ConversionFee(chaincfg.TxTypeOffshore, amount, c.unlock, chaincfg.HFVersionOffshoreFull)
		want := amount / c.divide
		if got != want {
			t.Errorf("unlock=%d: got %d want %d", c.unlock, got, want)
		}
	}
}

func TestConversionFeeXAssetLegacyFlat(t *testing.T) {
	amount := uint64(1000 * chaincfg.COIN)
	got := ConversionFee(chaincfg.TxTypeXAssetToXUSD, amount, 0, chaincfg.HFVersionOffshoreFull)
	want := amount * 3 / 1000
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestBoundaryScenarioOffshore100XHV(t *testing.T) {
	// §8 scenario 2: 100 XHV offshore at collateral epoch.
	amount := uint64(100 * chaincfg.COIN)
	fee := ConversionFee(chaincfg.TxTypeOffshore, amount, 0, chaincfg.HFVersionCollateral)
	want := amount * 3 / 200 // 1.5 XHV
	if fee != want {
		t.Fatalf("got %d want %d", fee, want)
	}
}

func TestBoundaryScenarioXUSDToXBTC(t *testing.T) {
	// §8 scenario 4.
	amount := uint64(1000 * chaincfg.COIN)
	fee := ConversionFee(chaincfg.TxTypeXUSDToXAsset, amount, 0, chaincfg.HFVersionCollateral)
	want := amount * 15 / 1000
	if fee != want {
		t.Fatalf("got %d want %d", fee, want)
	}
}
