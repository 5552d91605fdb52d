package payout

import (
	"errors"
	"fmt"
)

// Kind classifies a payout failure so callers can branch on it (retry, alert, surface to user).
type Kind string

const (
	KindInvalidArgument          Kind = "invalid_argument"
	KindAuthenticationFailed     Kind = "authentication_failed"
	KindServerError              Kind = "server_error"
	KindBadEndpoint              Kind = "bad_endpoint"
	KindGatewayError             Kind = "gateway_error"
	KindTransactionLimitExceeded Kind = "transaction_limit_exceeded"
	KindInvalidAccount           Kind = "invalid_account"
	KindInsufficientFunds        Kind = "insufficient_funds"
	KindDuplicateTransaction     Kind = "duplicate_transaction"
	KindRateLimitExceeded        Kind = "rate_limit_exceeded"
	KindGenericFailure           Kind = "generic_failure"
)

// Error is returned for every failure the SDK detects itself: local validation
// and provider responses classified as unsuccessful. StatusCode is the provider's
// status_code (or the HTTP status when the body carried none); empty for validation.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode string
}

func (e *Error) Error() string {
	if e.StatusCode == "" {
		return fmt.Sprintf("paymob %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("paymob %s [%s]: %s", e.Kind, e.StatusCode, e.Message)
}

// Is matches any *Error of the same Kind, which makes the Err* sentinels usable with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is. They carry no message or status code.
var (
	ErrInvalidArgument          = &Error{Kind: KindInvalidArgument}
	ErrAuthenticationFailed     = &Error{Kind: KindAuthenticationFailed}
	ErrServerError              = &Error{Kind: KindServerError}
	ErrBadEndpoint              = &Error{Kind: KindBadEndpoint}
	ErrGatewayError             = &Error{Kind: KindGatewayError}
	ErrTransactionLimitExceeded = &Error{Kind: KindTransactionLimitExceeded}
	ErrInvalidAccount           = &Error{Kind: KindInvalidAccount}
	ErrInsufficientFunds        = &Error{Kind: KindInsufficientFunds}
	ErrDuplicateTransaction     = &Error{Kind: KindDuplicateTransaction}
	ErrRateLimitExceeded        = &Error{Kind: KindRateLimitExceeded}
	ErrGenericFailure           = &Error{Kind: KindGenericFailure}
)

// KindOf extracts the Kind of a payout error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func newError(kind Kind, message, statusCode string) *Error {
	return &Error{Kind: kind, Message: message, StatusCode: statusCode}
}

func invalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}
