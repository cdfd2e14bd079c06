package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/haven-protocol-org/corepool/chainpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, params, err := loadConfig()
	if err != nil {
		return err
	}

	backend := btclog.NewBackend(os.Stdout)
	logger := backend.Logger("POOL")
	logger.SetLevel(logLevelFromString(cfg.LogLevel))
	chainpool.UseLogger(logger)

	pool := chainpool.New(&chainpool.Config{
		Params:        params,
		MaxPoolWeight: cfg.MaxPoolWeight,
		FeePolicy: chainpool.DefaultFeePolicy{
			MinRelayFeePerWeight:        cfg.MinRelayFee,
			ConversionSurchargePerMille: cfg.ConversionSurchargePerMille,
		},
	})

	logger.Infof("pool started on %s, max weight %d", params.GovernanceWallet, cfg.MaxPoolWeight)
	_ = pool
	return nil
}

func logLevelFromString(s string) btclog.Level {
	switch s {
	case "trace":
		return btclog.LevelTrace
	case "debug":
		return btclog.LevelDebug
	case "warn":
		return btclog.LevelWarn
	case "error":
		return btclog.LevelError
	default:
		return btclog.LevelInfo
	}
}
