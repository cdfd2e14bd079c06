package txrules

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/wire"
)

func mkOut(asset chaincfg.AssetType, amount uint64) wire.TxOutVariant {
	return wire.Output{Asset: asset, Amount: amount}
}

func mkIn(asset chaincfg.AssetType, amount uint64) wire.TxIn {
	return wire.SpendIn{Tag: wire.SpendAssetTag{Asset: asset}, Amount: amount}
}

func TestClassifyTransfer(t *testing.T) {
	tx := &wire.Transaction{
		Inputs:  []wire.TxIn{mkIn(chaincfg.XHV, 100)},
		Outputs: []wire.TxOutVariant{mkOut(chaincfg.XHV, 100)},
	}
	src, dst, typ, err := Classify(chainhash.Hash{}, tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != chaincfg.XHV || dst != chaincfg.XHV || typ != chaincfg.TxTypeTransfer {
		t.Fatalf("got (%s,%s,%s)", src, dst, typ)
	}
}

func TestClassifyOffshore(t *testing.T) {
	tx := &wire.Transaction{
		Inputs:  []wire.TxIn{mkIn(chaincfg.XHV, 100)},
		Outputs: []wire.TxOutVariant{mkOut(chaincfg.XUSD, 50)},
	}
	src, dst, typ, err := Classify(chainhash.Hash{}, tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != chaincfg.XHV || dst != chaincfg.XUSD || typ != chaincfg.TxTypeOffshore {
		t.Fatalf("got (%s,%s,%s)", src, dst, typ)
	}
}

func TestClassifyOnshoreWithCollateral(t *testing.T) {
	tx := &wire.Transaction{
		Inputs: []wire.TxIn{
			mkIn(chaincfg.XUSD, 50),
			wire.SpendIn{Tag: wire.SpendAssetTag{Asset: chaincfg.XHV, OnshoreXHVCollateral: true}, Amount: 100},
		},
		Outputs: []wire.TxOutVariant{mkOut(chaincfg.XHV, 50)},
	}
	src, dst, typ, err := Classify(chainhash.Hash{}, tx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != chaincfg.XUSD || dst != chaincfg.XHV || typ != chaincfg.TxTypeOnshore {
		t.Fatalf("got (%s,%s,%s)", src, dst, typ)
	}
}

func TestClassifyMixedSourceAssetsRejected(t *testing.T) {
	tx := &wire.Transaction{
		Inputs:  []wire.TxIn{mkIn(chaincfg.XHV, 10), mkIn("XBTC", 10)},
		Outputs: []wire.TxOutVariant{mkOut(chaincfg.XHV, 10)},
	}
	_, _, _, err := Classify(chainhash.Hash{}, tx)
	if err == nil {
		t.Fatal("expected an error for mixed source assets")
	}
}

func TestClassifyTooManyDestinationAssets(t *testing.T) {
	tx := &wire.Transaction{
		Inputs: []wire.TxIn{mkIn(chaincfg.XUSD, 10)},
		Outputs: []wire.TxOutVariant{
			mkOut(chaincfg.XUSD, 3),
			mkOut("XBTC", 3),
			mkOut("XJPY", 4),
		},
	}
	_, _, _, err := Classify(chainhash.Hash{}, tx)
	if err != ErrTooManyDestinations {
		t.Fatalf("expected ErrTooManyDestinations, got %v", err)
	}
}

func TestTypeForAssetsRoundTrip(t *testing.T) {
	cases := []struct {
		src, dst chaincfg.AssetType
		want     chaincfg.TxType
	}{
		{chaincfg.XHV, chaincfg.XHV, chaincfg.TxTypeTransfer},
		{chaincfg.XUSD, chaincfg.XUSD, chaincfg.TxTypeOffshoreTransfer},
		{"XBTC", "XBTC", chaincfg.TxTypeXAssetTransfer},
		{chaincfg.XHV, chaincfg.XUSD, chaincfg.TxTypeOffshore},
		{chaincfg.XUSD, chaincfg.XHV, chaincfg.TxTypeOnshore},
		{chaincfg.XUSD, "XBTC", chaincfg.TxTypeXUSDToXAsset},
		{"XBTC", chaincfg.XUSD, chaincfg.TxTypeXAssetToXUSD},
	}
	for _, c := range cases {
		got, ok := TypeForAssets(c.src, c.dst)
		if !ok || got != c.want {
			t.Errorf("TypeForAssets(%s,%s) = (%s,%v), want %s", c.src, c.dst, got, ok, c.want)
		}
	}
}
