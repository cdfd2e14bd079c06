package chainpool

import "github.com/haven-protocol-org/corepool/pricing"

// hardcodedPricingRecord backs HardcodedPricingRecord; it is nil until
// RegisterHardcodedPricingRecord is called by the embedding daemon's
// genesis/checkpoint configuration, the same deferred-registration shape
// chaincfg uses for the replay-exception tables (chaincfg/legacy.go).
var hardcodedPricingRecord *pricing.Record

// RegisterHardcodedPricingRecord installs the one pricing record
// substituted in place of the database lookup for
// chaincfg.HardcodedPricingRecordHeight (§9's "one
// pricing_record_height == 821428 hardcoded record").
func RegisterHardcodedPricingRecord(rec *pricing.Record) {
	hardcodedPricingRecord = rec
}

// HardcodedPricingRecord returns the registered hardcoded record, if
// any.
func HardcodedPricingRecord() (*pricing.Record, bool) {
	if hardcodedPricingRecord == nil {
		return nil, false
	}
	return hardcodedPricingRecord, true
}
