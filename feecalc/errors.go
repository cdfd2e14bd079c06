package feecalc

import "errors"

var (
	errZeroPrice      = errors.New("feecalc: zero XHV price")
	errNotConvertible = errors.New("feecalc: collateral requested for a non-OFFSHORE/ONSHORE tx type")
)
