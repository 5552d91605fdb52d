package payout

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(status int, body string) *RawResponse {
	return &RawResponse{StatusCode: status, Body: []byte(body), JSON: decodeObject([]byte(body))}
}

func TestClassifyTokenResponse(t *testing.T) {
	tests := []struct {
		status  int
		kind    Kind
		message string
	}{
		{400, KindAuthenticationFailed, "Invalid credentials"},
		{500, KindServerError, "Server error"},
		{404, KindBadEndpoint, "Bad URL"},
		{504, KindGatewayError, "Bad gateway"},
		{401, KindGenericFailure, "Token generation failed"},
		{503, KindGenericFailure, "Token generation failed"},
	}
	for _, tc := range tests {
		err := classifyTokenResponse(raw(tc.status, `{"error":"x"}`))
		require.Error(t, err, tc.status)

		var pe *Error
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, tc.kind, pe.Kind, tc.status)
		assert.Equal(t, tc.message, pe.Message)
		assert.Equal(t, strconv.Itoa(tc.status), pe.StatusCode)
	}

	assert.NoError(t, classifyTokenResponse(raw(200, `{"access_token":"a"}`)))
}

func TestClassifyAPIResponse_StatusCodeTable(t *testing.T) {
	tests := []struct {
		code string
		kind Kind
		def  string
	}{
		{"403", KindAuthenticationFailed, "Authentication failed"},
		{"1056", KindAuthenticationFailed, "Authentication failed"},
		{"4056", KindAuthenticationFailed, "Authentication failed"},
		{"583", KindTransactionLimitExceeded, "Transaction limit exceeded"},
		{"604", KindTransactionLimitExceeded, "Transaction limit exceeded"},
		{"6061", KindTransactionLimitExceeded, "Transaction limit exceeded"},
		{"6065", KindTransactionLimitExceeded, "Transaction limit exceeded"},
		{"618", KindInvalidAccount, "Invalid account"},
		{"4055", KindInvalidAccount, "Invalid account"},
		{"000102", KindInvalidAccount, "Invalid account"},
		{"000105", KindInvalidAccount, "Invalid account"},
		{"000108", KindInvalidAccount, "Invalid account"},
		{"6005", KindInsufficientFunds, "Insufficient funds"},
		{"501", KindDuplicateTransaction, "Duplicate transaction"},
		{"429", KindRateLimitExceeded, "Rate limit exceeded"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			// HTTP 200 with a failure code in the body is still a failure.
			err := classifyAPIResponse(raw(200, `{"status_code":"`+tc.code+`"}`))
			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.kind, pe.Kind)
			assert.Equal(t, tc.def, pe.Message)
			assert.Equal(t, tc.code, pe.StatusCode)

			err = classifyAPIResponse(raw(200, `{"status_code":"`+tc.code+`","status_description":"provider says no"}`))
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "provider says no", pe.Message)
		})
	}
}

func TestClassifyAPIResponse_NumericStatusCode(t *testing.T) {
	err := classifyAPIResponse(raw(200, `{"status_code":6005,"status_description":"Insufficient balance"}`))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	kind, _ := KindOf(err)
	assert.Equal(t, KindInsufficientFunds, kind)
}

func TestClassifyAPIResponse_FallsBackToHTTPStatus(t *testing.T) {
	assert.ErrorIs(t, classifyAPIResponse(raw(429, `too many`)), ErrRateLimitExceeded)
	assert.ErrorIs(t, classifyAPIResponse(raw(403, `{}`)), ErrAuthenticationFailed)
	assert.ErrorIs(t, classifyAPIResponse(raw(429, `{"status_code":null}`)), ErrRateLimitExceeded)
}

func TestClassifyAPIResponse_GenericFailure(t *testing.T) {
	err := classifyAPIResponse(raw(502, `<html>bad gateway</html>`))
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindGenericFailure, pe.Kind)
	assert.Equal(t, "API request failed", pe.Message)
	assert.Equal(t, "502", pe.StatusCode)

	err = classifyAPIResponse(raw(400, `{"status_code":"9999","status_description":"weird"}`))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindGenericFailure, pe.Kind)
	assert.Equal(t, "weird", pe.Message)
	assert.Equal(t, "9999", pe.StatusCode)
}

func TestClassifyAPIResponse_Success(t *testing.T) {
	for _, code := range []string{"200", "8000", "8111", "8222", "8333"} {
		// accepted codes pass even when the transport status is not 2xx
		assert.NoError(t, classifyAPIResponse(raw(400, `{"status_code":"`+code+`"}`)), code)
	}
	assert.NoError(t, classifyAPIResponse(raw(200, `{"status_code":"7777"}`)))
	assert.NoError(t, classifyAPIResponse(raw(200, `{"current_balance":"10"}`)))
	assert.NoError(t, classifyAPIResponse(raw(200, ``)))
}

func TestDecodeObject(t *testing.T) {
	assert.Nil(t, decodeObject(nil))
	assert.Nil(t, decodeObject([]byte(`[1,2]`)))
	assert.Nil(t, decodeObject([]byte(`{broken`)))

	obj := decodeObject([]byte(` {"status_code": 8000}`))
	s, ok := stringField(obj, "status_code")
	assert.True(t, ok)
	assert.Equal(t, "8000", s)
}
