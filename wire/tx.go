// Package wire defines the on-chain transaction representation consumed
// by txrules, feecalc, chainpool and miningtpl. Input and output variants
// are modeled as sum types (one concrete Go type per variant, satisfying a
// sealed interface) rather than a single struct with an asset-kind tag, so
// that classification logic (txrules.Classify) works by type assertion
// over a closed set of variants instead of a runtime typeid dispatch. The
// unexported marker methods keep other packages from adding variants; the
// Go compiler does not check switches over them for exhaustiveness.
package wire

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
)

// TxIn is the sealed interface satisfied by every input variant.
type TxIn interface {
	isTxIn()
}

// CoinbaseIn is the input variant legal only in a coinbase transaction.
type CoinbaseIn struct {
	Height uint64
}

func (CoinbaseIn) isTxIn() {}

// SpendAssetTag identifies which asset (or collateral role) a SpendIn
// draws from. OnshoreXHVCollateral marks the second input of an ONSHORE
// transaction that posts XHV collateral alongside the XUSD being
// converted — it is not itself a distinct asset, just a role tag on an
// XHV-denominated input.
type SpendAssetTag struct {
	Asset                chaincfg.AssetType
	OnshoreXHVCollateral bool
}

// SpendIn is a ring-signature input spending a previously created
// output.
type SpendIn struct {
	Tag               SpendAssetTag
	Amount            uint64
	KeyImage          chainhash.Hash
	AbsoluteRingOffsets []uint64
}

func (SpendIn) isTxIn() {}

// TxOutVariant is the sealed interface satisfied by every output
// variant.
type TxOutVariant interface {
	isTxOut()
}

// Output is the sole output variant: an amount of a given asset locked to
// a one-time public key.
type Output struct {
	Asset          chaincfg.AssetType
	Amount         uint64
	OneTimePublicKey [32]byte
}

func (Output) isTxOut() {}

// Transaction is the wire representation of a candidate or pooled
// transaction.
type Transaction struct {
	Version             uint32
	UnlockTime          uint64
	PricingRecordHeight uint64
	Inputs              []TxIn
	Outputs             []TxOutVariant
	PerOutputUnlockTimes []uint64 // empty pre per-output-unlock epoch
	CollateralIndices   [2]int    // only meaningful len==2 semantics; -1 = unset
	AmountBurnt         uint64
	AmountMinted        uint64
	Extra               []byte
	Fee                 uint64
	ConversionFee       uint64

	// RctSignatures is opaque to this module: it is handed, unparsed, to
	// the external ring/commitment verifier (chainpool.RingVerifier).
	RctSignatures []byte
}

// IsCoinbase reports whether tx has exactly one input and that input is
// the CoinbaseIn marker. Transaction carries no id of its own: computing
// one is the embedding daemon's job (it requires the exact serialization
// format), and this module takes ids as chainhash.Hash values supplied by
// the caller.
func (tx *Transaction) IsCoinbase() bool {
	if len(tx.Inputs) != 1 {
		return false
	}
	_, ok := tx.Inputs[0].(CoinbaseIn)
	return ok
}

// HasCollateral reports whether tx carries the pair of collateral output
// indices introduced at the collateral epoch.
func (tx *Transaction) HasCollateral() bool {
	return tx.CollateralIndices[0] >= 0 && tx.CollateralIndices[1] >= 0
}
