// Command poold is a minimal reference daemon wiring chainpool.Pool and
// miningtpl.NewBlockTemplate together, the way btcd's top-level command
// wires mempool.TxPool into the rest of the node. It is not a complete
// node: no blockchain database, ring verifier or P2P relay is wired in
// (the pool's DB and Verifier are left nil), and run returns right after
// constructing the pool.
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/haven-protocol-org/corepool/chaincfg"
)

// config mirrors the declarative flag-struct idiom the teacher uses in
// btcd/config.go, via github.com/jessevdk/go-flags.
type config struct {
	Network                     string `long:"network" description:"mainnet, testnet or stagenet" default:"mainnet"`
	MaxPoolWeight               uint64 `long:"maxpoolweight" description:"maximum total pool weight before pruning" default:"300000000"`
	LogLevel                    string `long:"loglevel" description:"debug, info, warn, error" default:"info"`
	MinRelayFee                 uint64 `long:"minrelayfee" description:"minimum fee per unit of transaction weight required for relay" default:"500"`
	ConversionSurchargePerMille uint64 `long:"conversionsurcharge" description:"extra relay fee surcharge for conversions, in parts per mille" default:"50"`
}

func loadConfig() (*config, *chaincfg.Params, error) {
	cfg := &config{}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, nil, err
	}

	var params *chaincfg.Params
	switch cfg.Network {
	case "mainnet":
		params = &chaincfg.MainNetParams
	case "testnet":
		params = &chaincfg.TestNetParams
	case "stagenet":
		params = &chaincfg.StageNetParams
	default:
		return nil, nil, fmt.Errorf("unknown network %q", cfg.Network)
	}
	return cfg, params, nil
}
