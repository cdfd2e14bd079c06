package chaincfg

// HFVersion identifies a protocol-version epoch. Transaction version
// numbers and admission rules are both gated off this value.
type HFVersion uint8

const (
	// HFVersionBase is the earliest epoch this module understands.
	HFVersionBase HFVersion = 2

	// HFVersionOffshoreFull introduces fully-functional OFFSHORE/ONSHORE
	// conversions plus per-asset coinbase outputs.
	HFVersionOffshoreFull HFVersion = 3

	// HFVersionXAssetFeesV2 changes the xAsset conversion fee schedule.
	HFVersionXAssetFeesV2 HFVersion = 4

	// HFVersionHaven2 is the epoch boundary between the legacy and
	// modernized admission code paths (see chainpool.Pool.AddTx).
	HFVersionHaven2 HFVersion = 5

	// HFVersionPerOutputUnlock introduces per-output unlock times and
	// normalizes conversion fees into XHV ("bulletproof-plus epoch" in
	// the original source).
	HFVersionPerOutputUnlock HFVersion = 6

	// HFVersionCollateral introduces XHV-denominated collateral posting
	// for OFFSHORE/ONSHORE conversions.
	HFVersionCollateral HFVersion = 7
)

// TxVersionForHF returns the transaction version mandated for hfVersion by
// §4.3's epoch table. Every accepted transaction's Version field must
// equal this value exactly.
func TxVersionForHF(hf HFVersion) uint32 {
	switch {
	case hf >= HFVersionCollateral:
		return 7
	case hf >= HFVersionPerOutputUnlock:
		return 6
	case hf >= HFVersionHaven2:
		return 5
	case hf >= HFVersionXAssetFeesV2:
		return 4
	case hf >= HFVersionOffshoreFull:
		return 3
	default:
		return 2
	}
}
