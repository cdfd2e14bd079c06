// Package chaincfg defines the asset catalog, transaction-type taxonomy,
// and protocol-version gates shared by every other package in this module.
package chaincfg

// COIN is the atomic unit scale: one whole coin of any asset equals COIN
// atomic units.
const COIN = 1_000_000_000_000

// MaxBlockNumber is the sentinel above which an unlock_time is no longer a
// block height (it would instead be interpreted as a wallclock timestamp
// by older clients). unlock_time on every transaction accepted here must
// stay strictly below this value.
const MaxBlockNumber = 500_000_000

// MinedMoneyUnlockWindow is the number of blocks a coinbase output stays
// locked for after it is mined.
const MinedMoneyUnlockWindow = 60

// PricingRecordValidBlocks bounds how many blocks back of the tip a
// conversion transaction's referenced pricing record may be.
const PricingRecordValidBlocks = 10

// Unlock windows for cross-asset conversions, mainnet values. See
// Params.OffshoreUnlockBlocks and friends for the per-network table.
const (
	OffshoreUnlockBlocksMainnet = 720 * 21 // ~21 days at 2-minute blocks
	OffshoreUnlockBlocksTestnet = 60

	OnshoreUnlockBlocksMainnet        = 360 // ~12h pre-collateral
	OnshoreUnlockBlocksTestnet        = 30
	OnshoreUnlockBlocksCollateralMain = 720 * 21 // ~21 days from the collateral epoch
	OnshoreUnlockBlocksCollateralTest = 30

	XAssetUnlockBlocksMainnet = 720 * 2 // ~2 days
	XAssetUnlockBlocksTestnet = 60
)

// MempoolTxLivetime and MempoolTxFromAltBlockLivetime bound how long an
// unconfirmed transaction may sit in the pool before the stuck-tx sweep
// evicts it; see chainpool.Pool.RemoveStuckTransactions.
const (
	MempoolTxLivetime              = 72 * 3600  // 72h, in seconds
	MempoolTxFromAltBlockLivetime  = 7 * 24 * 3600
)

// DandelionppEmbargoAverage is the mean, in seconds, of the Poisson delay
// a Dandelion++ stem-phase transaction waits before fluffing if it is not
// relayed onward by a peer first. The pool only exposes the bookkeeping a
// scheduler needs (see chainpool.Pool.NextRelay); it never runs the timer
// itself.
const DandelionppEmbargoAverage = 39
