// Package coinbase assembles the miner transaction, grounded on
// construct_miner_tx in cryptonote_tx_utils.cpp, adapting the teacher's
// blockchain.SubsidyCache (blockchain/subsidy.go) height/iteration cache
// shape to this chain's median/current-weight-penalized reward, which
// §4.4 step 1 specifies only as an external collaborator.
package coinbase

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/wire"
)

// ErrBlockTooBig is returned when the reward calculator rejects the
// block's weight (§4.4 step 6).
var ErrBlockTooBig = errors.New("coinbase: block weight rejected by reward calculator")

// RewardCalculator is the out-of-scope external collaborator from §4.4
// step 1: given the median and current block weights and the chain's
// cumulative issuance so far, it returns the base block reward, or an
// error if the block is oversized.
type RewardCalculator interface {
	CalcBlockReward(medianWeight, currentWeight uint64, alreadyGeneratedCoins uint64, hf chaincfg.HFVersion) (uint64, error)
}

// AssetFees bundles the per-asset XHV transaction fees and, separately,
// conversion fees already denominated however §4.9 requires for the
// current epoch (in the source asset pre-bulletproof-plus, in XHV
// thereafter).
type AssetFees struct {
	FeeMap                 map[chaincfg.AssetType]uint64
	ConversionFeeMap       map[chaincfg.AssetType]uint64
	XAssetConversionFeeMap map[chaincfg.AssetType]uint64
}

// BuildParams bundles every input to Build (§4.4).
type BuildParams struct {
	Height                uint64
	MedianBlockWeight     uint64
	AlreadyGeneratedCoins uint64
	CurrentBlockWeight    uint64
	Fees                  AssetFees
	MinerOneTimePublicKey [32]byte
	ExtraNonce            []byte
	HFVersion             chaincfg.HFVersion
	Params                *chaincfg.Params
	Reward                RewardCalculator
}

// Build implements §4.4 steps 1-6, returning the assembled coinbase
// transaction.
func Build(p BuildParams) (*wire.Transaction, error) {
	baseReward, err := p.Reward.CalcBlockReward(p.MedianBlockWeight, p.CurrentBlockWeight, p.AlreadyGeneratedCoins, p.HFVersion)
	if err != nil {
		return nil, ErrBlockTooBig
	}

	tx := &wire.Transaction{
		Version:    chaincfg.TxVersionForHF(p.HFVersion),
		UnlockTime: p.Height + chaincfg.MinedMoneyUnlockWindow,
		Extra:      p.ExtraNonce,
		Inputs:     []wire.TxIn{wire.CoinbaseIn{Height: p.Height}},
	}

	minerXHV := baseReward
	var governanceXHV uint64

	// Step 2: 5% governance split from hf>=3 once issuance has begun.
	if p.HFVersion >= chaincfg.HFVersionOffshoreFull && p.AlreadyGeneratedCoins != 0 {
		governanceXHV = baseReward * 5 / 100
		minerXHV = baseReward - governanceXHV
	}
	minerXHV += p.Fees.FeeMap[chaincfg.XHV]

	tx.Outputs = append(tx.Outputs, wire.Output{
		Asset:            chaincfg.XHV,
		Amount:           minerXHV,
		OneTimePublicKey: p.MinerOneTimePublicKey,
	})
	if governanceXHV > 0 {
		govKey, err := governanceOutputKey(p.Height)
		if err != nil {
			return nil, err
		}
		tx.Outputs = append(tx.Outputs, wire.Output{
			Asset:            chaincfg.XHV,
			Amount:           governanceXHV,
			OneTimePublicKey: govKey,
		})
	}

	// Step 3: per-asset miner+governance output pairs from the
	// offshore-full epoch, with the xasset conversion-fee burn/no-burn
	// split that changes at the collateral epoch.
	if p.HFVersion >= chaincfg.HFVersionOffshoreFull {
		for asset, fee := range p.Fees.FeeMap {
			if asset == chaincfg.XHV || fee == 0 {
				continue
			}
			appendAssetFeeOutputs(tx, asset, fee, p.Height)
		}
		for asset, fee := range p.Fees.ConversionFeeMap {
			if fee == 0 {
				continue
			}
			appendConversionFeeOutputs(tx, asset, fee, p.Height, p.HFVersion)
		}
		for asset, fee := range p.Fees.XAssetConversionFeeMap {
			if fee == 0 {
				continue
			}
			appendConversionFeeOutputs(tx, asset, fee, p.Height, p.HFVersion)
		}
	}

	// Step 5: per-output unlock times from the per-output-unlock epoch.
	if p.HFVersion >= chaincfg.HFVersionPerOutputUnlock {
		tx.PerOutputUnlockTimes = make([]uint64, len(tx.Outputs))
		for i := range tx.Outputs {
			tx.PerOutputUnlockTimes[i] = tx.UnlockTime
		}
	}

	return tx, nil
}

// appendAssetFeeOutputs handles a plain (non-conversion) transaction fee
// paid in a non-XHV asset: it splits the fee miner/governance 95/5, the
// same ratio step 2 applies to the XHV base reward. XHV transaction fees
// themselves are not split; Build adds them wholly to the miner output.
func appendAssetFeeOutputs(tx *wire.Transaction, asset chaincfg.AssetType, fee uint64, height uint64) {
	gov := fee * 5 / 100
	miner := fee - gov
	minerKey, _ := minerFeeOutputKey(height, asset, 0)
	tx.Outputs = append(tx.Outputs, wire.Output{Asset: asset, Amount: miner, OneTimePublicKey: minerKey})
	if gov > 0 {
		govKey, _ := governanceOutputKey(height)
		tx.Outputs = append(tx.Outputs, wire.Output{Asset: asset, Amount: gov, OneTimePublicKey: govKey})
	}
}

// appendConversionFeeOutputs implements §4.4 step 3's burn/no-burn
// split. Build applies it to every ConversionFeeMap and
// XAssetConversionFeeMap entry alike.
func appendConversionFeeOutputs(tx *wire.Transaction, asset chaincfg.AssetType, fee uint64, height uint64, hf chaincfg.HFVersion) {
	if hf >= chaincfg.HFVersionCollateral {
		gov := fee * 80 / 100
		miner := fee - gov
		govKey, _ := governanceOutputKey(height)
		minerKey, _ := minerFeeOutputKey(height, asset, 1)
		tx.Outputs = append(tx.Outputs,
			wire.Output{Asset: asset, Amount: gov, OneTimePublicKey: govKey},
			wire.Output{Asset: asset, Amount: miner, OneTimePublicKey: minerKey},
		)
		return
	}
	// Pre-collateral: 80% burnt (no output created at all), remaining
	// 20% split 50/50 miner/governance.
	remaining := fee - fee*80/100
	half := remaining / 2
	minerKey, _ := minerFeeOutputKey(height, asset, 1)
	govKey, _ := governanceOutputKey(height)
	tx.Outputs = append(tx.Outputs,
		wire.Output{Asset: asset, Amount: half, OneTimePublicKey: minerKey},
		wire.Output{Asset: asset, Amount: remaining - half, OneTimePublicKey: govKey},
	)
}

// governanceOutputKey and the helpers below implement §4.4 step 4's
// deterministic-by-height keypair. The real chain derives this via
// base-point scalar multiplication over the low 8 bytes of height; the
// elliptic-curve primitive itself is out of scope here (§1 places key
// derivation among the external collaborators), so this seeds a stable
// 32-byte value from height that a concrete curve implementation would
// replace with the actual scalar multiplication. Only the seed
// derivation itself — "low 8 bytes of height form a scalar seed" — is
// the chain's; the 32-byte value returned is the SHA-256 of that seed,
// not a curve point, and VerifyGovernanceOutput compares against this
// same value.
func governanceOutputKey(height uint64) ([32]byte, error) {
	return deterministicKeypairFromHeight(height)
}

func minerFeeOutputKey(height uint64, asset chaincfg.AssetType, salt byte) ([32]byte, error) {
	var seed [16]byte
	binary.LittleEndian.PutUint64(seed[:8], height)
	copy(seed[8:], []byte(asset))
	seed[8+len(asset)%7] ^= salt
	h := sha256.Sum256(seed[:])
	return h, nil
}

// deterministicKeypairFromHeight derives a stable 32-byte value from the
// low 8 bytes of height, matching get_deterministic_keypair_from_height's
// seed convention. See the governanceOutputKey doc comment: the actual base-point
// multiplication lives behind the external key-derivation collaborator.
func deterministicKeypairFromHeight(height uint64) ([32]byte, error) {
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], height)
	return sha256.Sum256(seed[:]), nil
}

// VerifyGovernanceOutput rederives the expected governance key for
// height and compares it against the output actually present at index i
// of tx, implementing §4.4's verifier-side governance check.
func VerifyGovernanceOutput(tx *wire.Transaction, i int, height uint64) (bool, error) {
	if i < 0 || i >= len(tx.Outputs) {
		return false, errors.New("coinbase: governance output index out of range")
	}
	out, ok := tx.Outputs[i].(wire.Output)
	if !ok {
		return false, errors.New("coinbase: governance output index is not a plain output")
	}
	expected, err := governanceOutputKey(height)
	if err != nil {
		return false, err
	}
	return out.OneTimePublicKey == expected, nil
}
