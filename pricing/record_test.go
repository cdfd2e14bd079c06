package pricing

import (
	"testing"

	"github.com/haven-protocol-org/corepool/chaincfg"
)

func TestIsValidAt(t *testing.T) {
	if IsValidAt(0, 100, 10) {
		t.Fatal("height 0 must never be valid")
	}
	if !IsValidAt(95, 100, 10) {
		t.Fatal("95 should be within 10 blocks of 100")
	}
	if IsValidAt(80, 100, 10) {
		t.Fatal("80 is outside the 10-block window")
	}
	if IsValidAt(100, 100, 10) {
		t.Fatal("a record can't reference the tip itself")
	}
}

func TestXHVPriceDirection(t *testing.T) {
	r := &Record{XHVMovingAverage: 100, XHVSpot: 120}
	if got := r.XHVPrice(DirOffshore); got != 100 {
		t.Fatalf("offshore should take the min: got %d", got)
	}
	if got := r.XHVPrice(DirOnshore); got != 120 {
		t.Fatalf("onshore should take the max: got %d", got)
	}
}

func TestNonZeroComponents(t *testing.T) {
	r := &Record{XHVMovingAverage: 1, XHVSpot: 1, PerAssetRate: map[chaincfg.AssetType]uint64{"XBTC": 1}}
	if !NonZeroComponents(r, chaincfg.TxTypeXUSDToXAsset, chaincfg.XUSD, "XBTC") {
		t.Fatal("expected valid rate components")
	}
	r2 := &Record{XHVMovingAverage: 1, XHVSpot: 1}
	if NonZeroComponents(r2, chaincfg.TxTypeXUSDToXAsset, chaincfg.XUSD, "XBTC") {
		t.Fatal("missing xasset rate should fail the check")
	}
}
