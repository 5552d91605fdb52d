package payout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

//
// ────────────────────────────────────────────────
//   Token
// ────────────────────────────────────────────────
//

// Token is the OAuth2 bundle returned by o/token/.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds, as reported by the provider
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// UnmarshalJSON accepts expires_in as a number or a numeric string.
func (t *Token) UnmarshalJSON(b []byte) error {
	type alias Token
	aux := struct {
		*alias
		ExpiresIn lenientString `json:"expires_in"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.ExpiresIn = 0
	if aux.ExpiresIn != "" {
		f, err := strconv.ParseFloat(string(aux.ExpiresIn), 64)
		if err != nil {
			return fmt.Errorf("token expires_in %q: %w", aux.ExpiresIn, err)
		}
		t.ExpiresIn = int64(f)
	}
	return nil
}

// Valid reports whether the token can be used as a bearer credential.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// ParseToken decodes a raw token payload, rejecting payloads without an access token.
func ParseToken(raw []byte) (*Token, error) {
	var tok Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if !tok.Valid() {
		return nil, errors.New("token payload has empty access_token")
	}
	return &tok, nil
}

//
// ────────────────────────────────────────────────
//   Transaction
// ────────────────────────────────────────────────
//

// TransactionResponse is the result of a disbursement or an Aman cancellation.
// AdditionalData carries every top-level field not modeled explicitly.
type TransactionResponse struct {
	TransactionID      string
	DisbursementStatus string
	StatusDescription  string
	StatusCode         string
	ReferenceNumber    *string
	AdditionalData     map[string]any
}

var transactionKeys = []string{
	"transaction_id", "disbursement_status", "status_description", "status_code", "reference_number",
}

func (r *TransactionResponse) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("decode transaction response: %w", err)
	}

	named := make([]lenientString, len(transactionKeys))
	for i, key := range transactionKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &named[i]); err != nil {
			return fmt.Errorf("transaction response %s: %w", key, err)
		}
		delete(fields, key)
	}

	*r = TransactionResponse{
		TransactionID:      string(named[0]),
		DisbursementStatus: string(named[1]),
		StatusDescription:  string(named[2]),
		StatusCode:         string(named[3]),
		AdditionalData:     make(map[string]any, len(fields)),
	}
	if ref := string(named[4]); ref != "" {
		r.ReferenceNumber = &ref
	}

	for key, raw := range fields {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("transaction response %s: %w", key, err)
		}
		r.AdditionalData[key] = v
	}
	return nil
}

// MarshalJSON flattens the response back into the provider's shape.
func (r TransactionResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.AdditionalData)+5)
	for k, v := range r.AdditionalData {
		out[k] = v
	}
	out["transaction_id"] = r.TransactionID
	out["disbursement_status"] = r.DisbursementStatus
	out["status_description"] = r.StatusDescription
	out["status_code"] = r.StatusCode
	if r.ReferenceNumber != nil {
		out["reference_number"] = *r.ReferenceNumber
	}
	return json.Marshal(out)
}

// Status maps the provider's disbursement_status onto TransactionStatus.
// The provider reports completed payouts as "success".
func (r *TransactionResponse) Status() (TransactionStatus, bool) {
	if r.DisbursementStatus == "success" {
		return StatusSuccessful, true
	}
	s, err := ParseTransactionStatus(r.DisbursementStatus)
	if err != nil {
		return "", false
	}
	return s, true
}

//
// ────────────────────────────────────────────────
//   Budget
// ────────────────────────────────────────────────
//

// BudgetResponse is the remaining disbursement capacity of the account.
// When the provider reports the budget as prose ("Your current budget is 150.00 LE")
// the text is kept in BudgetText and the first number in it becomes CurrentBalance.
type BudgetResponse struct {
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	BudgetText        string          `json:"budget_text,omitempty"`
	StatusDescription *string         `json:"status_description,omitempty"`
	StatusCode        *string         `json:"status_code,omitempty"`
}

var amountPattern = regexp.MustCompile(`-?[0-9][0-9,]*(\.[0-9]+)?`)

func (r *BudgetResponse) UnmarshalJSON(b []byte) error {
	var aux struct {
		CurrentBalance    *lenientString `json:"current_balance"`
		CurrentBudget     *lenientString `json:"current_budget"`
		StatusDescription *string        `json:"status_description"`
		StatusCode        *lenientString `json:"status_code"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return fmt.Errorf("decode budget response: %w", err)
	}

	src := aux.CurrentBalance
	if src == nil {
		src = aux.CurrentBudget
	}
	if src == nil {
		return errors.New("budget response missing current_balance")
	}

	*r = BudgetResponse{StatusDescription: aux.StatusDescription}
	if aux.StatusCode != nil {
		code := string(*aux.StatusCode)
		r.StatusCode = &code
	}

	if d, err := decimal.NewFromString(string(*src)); err == nil {
		r.CurrentBalance = d
		return nil
	}

	r.BudgetText = string(*src)
	m := amountPattern.FindString(r.BudgetText)
	if m == "" {
		return fmt.Errorf("budget response: no amount in %q", r.BudgetText)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return fmt.Errorf("budget response amount %q: %w", m, err)
	}
	r.CurrentBalance = d
	return nil
}

//
// ────────────────────────────────────────────────
//   Bulk inquiry
// ────────────────────────────────────────────────
//

// BulkInquiryResponse is a single page of a bulk transaction inquiry.
// Next and Previous are page URLs; following them is left to the caller.
type BulkInquiryResponse struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []map[string]any `json:"results"`
}

//
// ────────────────────────────────────────────────
//   Raw API response
// ────────────────────────────────────────────────
//

// RawResponse is an API response that passed classification.
// JSON is nil when the body was not a JSON object.
type RawResponse struct {
	StatusCode int
	Body       []byte
	JSON       map[string]any
}

// Successful reports a 2xx HTTP status.
func (r *RawResponse) Successful() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Decode unmarshals the body into v.
func (r *RawResponse) Decode(v any) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// lenientString decodes a JSON string or number into its textual form; null stays empty.
type lenientString string

func (s *lenientString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = lenientString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = lenientString(n.String())
	return nil
}
