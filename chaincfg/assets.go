package chaincfg

// AssetType identifies an asset on the chain by its short symbolic name.
// The catalog is open-ended: the chain's governance can add new xAssets
// without a code change here, so AssetType is a string wrapper rather than
// a closed enum.
type AssetType string

// Well-known assets. Any AssetType not equal to one of these two is an
// xAsset.
const (
	XHV  AssetType = "XHV"
	XUSD AssetType = "XUSD"
)

// IsXHV and IsXUSD are convenience predicates over the two distinguished
// assets; IsXAsset is everything else.
func (a AssetType) IsXHV() bool  { return a == XHV }
func (a AssetType) IsXUSD() bool { return a == XUSD }
func (a AssetType) IsXAsset() bool {
	return a != XHV && a != XUSD && a != ""
}

// TxType is the derived (never stored) transaction classification from
// §3 of the data model.
type TxType int

const (
	TxTypeUnknown TxType = iota
	TxTypeTransfer
	TxTypeOffshoreTransfer
	TxTypeXAssetTransfer
	TxTypeOffshore     // XHV -> XUSD
	TxTypeOnshore      // XUSD -> XHV
	TxTypeXUSDToXAsset // XUSD -> xAsset
	TxTypeXAssetToXUSD // xAsset -> XUSD
)

func (t TxType) String() string {
	switch t {
	case TxTypeTransfer:
		return "TRANSFER"
	case TxTypeOffshoreTransfer:
		return "OFFSHORE_TRANSFER"
	case TxTypeXAssetTransfer:
		return "XASSET_TRANSFER"
	case TxTypeOffshore:
		return "OFFSHORE"
	case TxTypeOnshore:
		return "ONSHORE"
	case TxTypeXUSDToXAsset:
		return "XUSD_TO_XASSET"
	case TxTypeXAssetToXUSD:
		return "XASSET_TO_XUSD"
	default:
		return "UNKNOWN"
	}
}

// IsConversion reports whether t moves value across two distinct assets,
// as opposed to a same-asset transfer.
func (t TxType) IsConversion() bool {
	switch t {
	case TxTypeOffshore, TxTypeOnshore, TxTypeXUSDToXAsset, TxTypeXAssetToXUSD:
		return true
	default:
		return false
	}
}

// NetworkType selects which unlock-window table and governance address
// apply; see Params.
type NetworkType int

const (
	Mainnet NetworkType = iota
	Testnet
	Stagenet
)

// Params bundles the network-dependent constants every component in this
// module needs, the way chaincfg.Params does in the teacher. One Params
// value is threaded through chainpool, coinbase and miningtpl rather than
// scattering network switches through each package.
type Params struct {
	Net NetworkType

	// GovernanceWallet is the base58 (or equivalent) address that
	// receives governance outputs on this network. Carried here instead
	// of hardcoded so mainnet/testnet/stagenet each get their own value,
	// per the original's get_governance_address.
	GovernanceWallet string
}

// OffshoreUnlockBlocks returns the minimum full-unlock window for an
// OFFSHORE conversion on p's network.
func (p *Params) OffshoreUnlockBlocks() uint64 {
	if p.Net == Mainnet {
		return OffshoreUnlockBlocksMainnet
	}
	return OffshoreUnlockBlocksTestnet
}

// OnshoreUnlockBlocks returns the minimum full-unlock window for an
// ONSHORE conversion on p's network, given whether the collateral epoch
// is active.
func (p *Params) OnshoreUnlockBlocks(collateralActive bool) uint64 {
	if p.Net == Mainnet {
		if collateralActive {
			return OnshoreUnlockBlocksCollateralMain
		}
		return OnshoreUnlockBlocksMainnet
	}
	if collateralActive {
		return OnshoreUnlockBlocksCollateralTest
	}
	return OnshoreUnlockBlocksTestnet
}

// XAssetUnlockBlocks returns the minimum full-unlock window for an
// XUSD<->xAsset conversion on p's network.
func (p *Params) XAssetUnlockBlocks() uint64 {
	if p.Net == Mainnet {
		return XAssetUnlockBlocksMainnet
	}
	return XAssetUnlockBlocksTestnet
}

// MainNetParams, TestNetParams and StageNetParams are the three built-in
// network configurations, mirroring chaincfg.MainNetParams in the
// teacher.
var (
	MainNetParams = Params{
		Net:              Mainnet,
		GovernanceWallet: "hvxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxgovernance",
	}
	TestNetParams = Params{
		Net:              Testnet,
		GovernanceWallet: "hvtxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxgovernance",
	}
	StageNetParams = Params{
		Net:              Stagenet,
		GovernanceWallet: "hvsxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxgovernance",
	}
)
