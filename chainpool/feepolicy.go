package chainpool

import (
	"github.com/haven-protocol-org/corepool/chaincfg"
	"github.com/haven-protocol-org/corepool/pricing"
)

// DefaultFeePolicy scales a minimum-fee-per-weight requirement the way
// mempool/policy.go's calcMinRequiredTxRelayFee scales a minimum relay fee
// from a per-kB rate: multiply the rate by the transaction's size (here,
// weight). The rate is already per weight unit, so no base-unit division
// follows. Conversions carry an additional per-mille surcharge on top,
// also computed from weight and the same rate.
type DefaultFeePolicy struct {
	// MinRelayFeePerWeight is the minimum fee, in atomic units, required
	// per unit of transaction weight.
	MinRelayFeePerWeight uint64

	// ConversionSurchargePerMille adds an extra fee-per-weight requirement
	// for OFFSHORE/ONSHORE/xasset-pair transactions, in parts per mille of
	// MinRelayFeePerWeight.
	ConversionSurchargePerMille uint64
}

// CheckFee reports whether fee meets the minimum relay requirement for a
// transaction of the given weight and type. pr and the asset pair are
// accepted to satisfy the FeePolicy interface; this default policy does not
// use them since it is fee-asset agnostic by construction (fees are always
// quoted in the source asset).
func (d DefaultFeePolicy) CheckFee(weight uint64, fee uint64, pr *pricing.Record, src, dst chaincfg.AssetType, txType chaincfg.TxType) bool {
	minFee := weight * d.MinRelayFeePerWeight
	if txType.IsConversion() {
		minFee += (weight * d.MinRelayFeePerWeight * d.ConversionSurchargePerMille) / 1000
	}
	return fee >= minFee
}
