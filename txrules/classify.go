// Package txrules derives a transaction's (source, destination, type)
// triple from its typed input/output variants, the extraction the
// original inlines throughout tx_pool.cpp's add_tx and that §9 calls out
// for promotion to a single function over the sealed wire variants.
package txrules

import (
	"errors"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/wire"
)

// Errors mirror the InvalidInput/InvalidOutput taxonomy of §7; chainpool
// maps these onto its ErrInvalidInput/ErrInvalidOutput codes
// (classifyErrorCode) when classification fails during admission.
var (
	ErrMixedSourceAssets   = errors.New("txrules: mixed non-{XHV,XUSD} input assets")
	ErrUnsupportedInput    = errors.New("txrules: unsupported input variant")
	ErrUnsupportedOutput   = errors.New("txrules: unsupported output variant")
	ErrTooManyDestinations = errors.New("txrules: more than two distinct destination assets")
	ErrDestinationMismatch = errors.New("txrules: destination set does not preserve source asset")
	ErrCoinbaseMixedInputs = errors.New("txrules: coinbase marker mixed with spend inputs")
)

// Classify implements §4.1. id is the transaction's own hash, consulted
// only to apply the hardcoded XJPY replay exceptions.
func Classify(id chainhash.Hash, tx *wire.Transaction) (source, destination chaincfg.AssetType, txType chaincfg.TxType, err error) {
	if tx.IsCoinbase() {
		if len(tx.Inputs) != 1 {
			return "", "", chaincfg.TxTypeUnknown, ErrCoinbaseMixedInputs
		}
		return chaincfg.XHV, chaincfg.XHV, chaincfg.TxTypeTransfer, nil
	}

	source, err = classifySource(tx.Inputs)
	if err != nil {
		return "", "", chaincfg.TxTypeUnknown, err
	}

	destination, err = classifyDestination(tx.Outputs, source)
	if err != nil {
		return "", "", chaincfg.TxTypeUnknown, err
	}

	if chaincfg.IsXJPYReplayException(id) {
		destination = "XJPY"
	}

	txType, ok := TypeForAssets(source, destination)
	if !ok {
		return "", "", chaincfg.TxTypeUnknown, ErrDestinationMismatch
	}
	return source, destination, txType, nil
}

// classifySource implements the "unique asset across input variants"
// rule, including the dual-{XHV,XUSD} onshore-collateral special case.
func classifySource(inputs []wire.TxIn) (chaincfg.AssetType, error) {
	seen := map[chaincfg.AssetType]bool{}
	hasOnshoreCollateral := false
	for _, in := range inputs {
		spend, ok := in.(wire.SpendIn)
		if !ok {
			return "", ErrUnsupportedInput
		}
		if spend.Tag.Asset == "" {
			return "", ErrUnsupportedInput
		}
		if spend.Tag.OnshoreXHVCollateral {
			hasOnshoreCollateral = true
			continue
		}
		seen[spend.Tag.Asset] = true
	}

	switch {
	case hasOnshoreCollateral && seen[chaincfg.XUSD] && len(seen) == 1:
		// {XHV, XUSD} simultaneously present, XHV tagged as collateral:
		// an onshore posting XHV collateral. Source is XUSD.
		return chaincfg.XUSD, nil
	case len(seen) == 1:
		for asset := range seen {
			return asset, nil
		}
	}
	return "", ErrMixedSourceAssets
}

// classifyDestination implements the "asset of outputs that differ from
// the source" rule plus the legality checks of §4.1's failure bullet.
func classifyDestination(outputs []wire.TxOutVariant, source chaincfg.AssetType) (chaincfg.AssetType, error) {
	destSet := map[chaincfg.AssetType]bool{}
	for _, o := range outputs {
		out, ok := o.(wire.Output)
		if !ok {
			return "", ErrUnsupportedOutput
		}
		if out.Asset == "" {
			return "", ErrUnsupportedOutput
		}
		if out.Asset != chaincfg.XHV && out.Asset != chaincfg.XUSD && out.Asset.IsXAsset() {
			// xAsset outputs are fine as long as they aren't mistagged
			// as XHV/XUSD elsewhere; nothing further to validate here.
		}
		destSet[out.Asset] = true
	}

	switch len(destSet) {
	case 0:
		return "", ErrUnsupportedOutput
	case 1:
		for a := range destSet {
			return a, nil
		}
	case 2:
		if !destSet[source] {
			return "", ErrDestinationMismatch
		}
		for a := range destSet {
			if a != source {
				return a, nil
			}
		}
	default:
		return "", ErrTooManyDestinations
	}
	return "", ErrUnsupportedOutput
}

// TypeForAssets is the total mapping table from (source, destination)
// pairs to chaincfg.TxType, used both by Classify and by round-trip
// tests (§8).
func TypeForAssets(source, destination chaincfg.AssetType) (chaincfg.TxType, bool) {
	switch {
	case source == destination:
		switch {
		case source == chaincfg.XHV:
			return chaincfg.TxTypeTransfer, true
		case source == chaincfg.XUSD:
			return chaincfg.TxTypeOffshoreTransfer, true
		case source.IsXAsset():
			return chaincfg.TxTypeXAssetTransfer, true
		}
	case source == chaincfg.XHV && destination == chaincfg.XUSD:
		return chaincfg.TxTypeOffshore, true
	case source == chaincfg.XUSD && destination == chaincfg.XHV:
		return chaincfg.TxTypeOnshore, true
	case source == chaincfg.XUSD && destination.IsXAsset():
		return chaincfg.TxTypeXUSDToXAsset, true
	case source.IsXAsset() && destination == chaincfg.XUSD:
		return chaincfg.TxTypeXAssetToXUSD, true
	}
	return chaincfg.TxTypeUnknown, false
}
