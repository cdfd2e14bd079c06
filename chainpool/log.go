package chainpool

import "github.com/btcsuite/btclog"

// log is a package-scoped logger, disabled by default. The embedding
// daemon wires a concrete btclog.Logger via UseLogger, mirroring the
// teacher's mempool/fees logging convention.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
