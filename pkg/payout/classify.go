package payout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// statusCodeKinds maps provider status_code values to failure kinds.
// The provider reports business outcomes with HTTP 200, so the body wins over the transport status.
var statusCodeKinds = map[string]Kind{
	"403":    KindAuthenticationFailed,
	"1056":   KindAuthenticationFailed,
	"4056":   KindAuthenticationFailed,
	"583":    KindTransactionLimitExceeded,
	"604":    KindTransactionLimitExceeded,
	"6061":   KindTransactionLimitExceeded,
	"6065":   KindTransactionLimitExceeded,
	"618":    KindInvalidAccount,
	"4055":   KindInvalidAccount,
	"000102": KindInvalidAccount,
	"000105": KindInvalidAccount,
	"000108": KindInvalidAccount,
	"6005":   KindInsufficientFunds,
	"501":    KindDuplicateTransaction,
	"429":    KindRateLimitExceeded,
}

var defaultMessages = map[Kind]string{
	KindAuthenticationFailed:     "Authentication failed",
	KindTransactionLimitExceeded: "Transaction limit exceeded",
	KindInvalidAccount:           "Invalid account",
	KindInsufficientFunds:        "Insufficient funds",
	KindDuplicateTransaction:     "Duplicate transaction",
	KindRateLimitExceeded:        "Rate limit exceeded",
	KindGenericFailure:           "API request failed",
}

// acceptedStatusCodes are provider codes that mean success even on a non-2xx response.
var acceptedStatusCodes = map[string]bool{
	"200":  true,
	"8000": true,
	"8111": true,
	"8222": true,
	"8333": true,
}

// classifyTokenResponse checks an o/token/ response by HTTP status only.
func classifyTokenResponse(resp *RawResponse) error {
	code := strconv.Itoa(resp.StatusCode)
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return newError(KindAuthenticationFailed, "Invalid credentials", code)
	case http.StatusInternalServerError:
		return newError(KindServerError, "Server error", code)
	case http.StatusNotFound:
		return newError(KindBadEndpoint, "Bad URL", code)
	case http.StatusGatewayTimeout:
		return newError(KindGatewayError, "Bad gateway", code)
	}
	if !resp.Successful() {
		return newError(KindGenericFailure, "Token generation failed", code)
	}
	return nil
}

// classifyAPIResponse checks an authenticated call: known status codes first,
// then any non-2xx response whose status_code is not an accepted success code.
func classifyAPIResponse(resp *RawResponse) error {
	code := statusCodeOf(resp)

	if kind, ok := statusCodeKinds[code]; ok {
		return newError(kind, describe(resp, defaultMessages[kind]), code)
	}

	if !resp.Successful() && !acceptedStatusCodes[code] {
		return newError(KindGenericFailure, describe(resp, defaultMessages[KindGenericFailure]), code)
	}
	return nil
}

// statusCodeOf returns the body's status_code, or the HTTP status when absent.
func statusCodeOf(resp *RawResponse) string {
	if s, ok := stringField(resp.JSON, "status_code"); ok {
		return s
	}
	return strconv.Itoa(resp.StatusCode)
}

func describe(resp *RawResponse, def string) string {
	if s, ok := stringField(resp.JSON, "status_description"); ok {
		return s
	}
	return def
}

// stringField renders a scalar body field as text. Missing and null fields report false.
func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// decodeObject parses a JSON object body keeping numbers as json.Number.
// Non-object bodies yield nil.
func decodeObject(body []byte) map[string]any {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil
	}
	return obj
}
