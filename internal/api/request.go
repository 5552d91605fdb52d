package api

import "github.com/shopspring/decimal"

// DisbursementRequest is the body of POST /api/v1/disbursements.
// Issuer selects which of the remaining fields apply.
type DisbursementRequest struct {
	Issuer string          `json:"issuer" example:"vodafone"`
	Amount decimal.Decimal `json:"amount" example:"100.50"`

	// wallet and Aman
	MSISDN string `json:"msisdn,omitempty" example:"01012345678"`

	// Aman
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`

	// bank card
	BankCardNumber      string `json:"bank_card_number,omitempty"`
	BankTransactionType string `json:"bank_transaction_type,omitempty" example:"salary"`
	BankCode            string `json:"bank_code,omitempty" example:"CIB"`
	FullName            string `json:"full_name,omitempty"`

	ClientReferenceID string `json:"client_reference_id,omitempty"`
	ClientReference   string `json:"client_reference,omitempty"`
	NationalID        string `json:"national_id,omitempty"`
}

// AmanCancelRequest is the body of POST /api/v1/aman/cancel.
type AmanCancelRequest struct {
	TransactionID string `json:"transaction_id"`
}
