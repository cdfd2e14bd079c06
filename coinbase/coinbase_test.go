package coinbase

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/wire"
)

// TestBoundaryScenarioCoinbase60Coin implements §8 scenario 5: height
// 50000, base_reward=60 XHV, no xasset fees.
func TestBoundaryScenarioCoinbase60Coin(t *testing.T) {
	reward := &fixedReward{reward: 60 * chaincfg.COIN}
	tx, err := Build(BuildParams{
		Height:                50_000,
		AlreadyGeneratedCoins: 1_000_000 * chaincfg.COIN,
		HFVersion:             chaincfg.HFVersionOffshoreFull,
		Params:                &chaincfg.MainNetParams,
		Reward:                reward,
		Fees:                  AssetFees{FeeMap: map[chaincfg.AssetType]uint64{}},
	})
	require.NoError(t, err)
	require.Len(t, tx.Outputs, 2)

	miner := tx.Outputs[0].(wire.Output)
	gov := tx.Outputs[1].(wire.Output)
	require.Equal(t, uint64(57*chaincfg.COIN), miner.Amount)
	require.Equal(t, uint64(3*chaincfg.COIN), gov.Amount)
	require.Equal(t, uint64(50_000+chaincfg.MinedMoneyUnlockWindow), tx.UnlockTime)
}

func TestBuildFailsOnOversizedBlock(t *testing.T) {
	_, err := Build(BuildParams{
		Height: 1,
		Reward: &fixedReward{err: ErrBlockTooBig},
		Params: &chaincfg.MainNetParams,
		Fees:   AssetFees{FeeMap: map[chaincfg.AssetType]uint64{}},
	})
	require.ErrorIs(t, err, ErrBlockTooBig)
}

func TestVerifyGovernanceOutput(t *testing.T) {
	reward := &fixedReward{reward: 60 * chaincfg.COIN}
	tx, err := Build(BuildParams{
		Height:                50_000,
		AlreadyGeneratedCoins: 1_000_000 * chaincfg.COIN,
		HFVersion:             chaincfg.HFVersionOffshoreFull,
		Params:                &chaincfg.MainNetParams,
		Reward:                reward,
		Fees:                  AssetFees{FeeMap: map[chaincfg.AssetType]uint64{}},
	})
	require.NoError(t, err)
	ok, err := VerifyGovernanceOutput(tx, 1, 50_000)
	require.NoError(t, err)
	require.True(t, ok)
}

type fixedReward struct {
	reward uint64
	err    error
}

func (f *fixedReward) CalcBlockReward(medianWeight, currentWeight, alreadyGeneratedCoins uint64, hf chaincfg.HFVersion) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.reward, nil
}
