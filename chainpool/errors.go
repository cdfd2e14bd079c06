package chainpool

import "fmt"

// ErrorCode identifies the reason a transaction was rejected on
// admission, the taxonomy from §7.
type ErrorCode int

const (
	// ErrVerificationFailed is the generic rejection wrapper.
	ErrVerificationFailed ErrorCode = iota
	ErrInvalidInput
	ErrInvalidOutput
	ErrFeeTooLow
	ErrTooBig
	ErrDoubleSpend
	ErrVerificationImpossible
)

func (e ErrorCode) String() string {
	switch e {
	case ErrVerificationFailed:
		return "VerificationFailed"
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrInvalidOutput:
		return "InvalidOutput"
	case ErrFeeTooLow:
		return "FeeTooLow"
	case ErrTooBig:
		return "TooBig"
	case ErrDoubleSpend:
		return "DoubleSpend"
	case ErrVerificationImpossible:
		return "VerificationImpossible"
	default:
		return "Unknown"
	}
}

// RuleError identifies a rule violation, carrying an ErrorCode and a
// human-readable description, mirroring the teacher's RuleError/
// TxRuleError pattern (see mempool/policy_test.go's use of
// RuleError.Err.(TxRuleError)).
type RuleError struct {
	Code        ErrorCode
	Description string
}

func (e RuleError) Error() string {
	return e.Description
}

func ruleErr(code ErrorCode, format string, args ...interface{}) RuleError {
	return RuleError{Code: code, Description: fmt.Sprintf(format, args...)}
}
