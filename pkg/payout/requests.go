package payout

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CashInRequest is one of WalletCashIn, AmanCashIn or BankCardCashIn.
type CashInRequest interface {
	// Channel is the issuer the disbursement is routed through.
	Channel() IssuerType
	// Validate checks the request locally and returns an InvalidArgument *Error.
	Validate() error

	payload() map[string]any
}

// Options are the optional fields shared by every cash-in. Empty values are not sent.
type Options struct {
	ClientReferenceID string `json:"client_reference_id,omitempty"` // UUID chosen by the caller
	ClientReference   string `json:"client_reference,omitempty"`
	NationalID        string `json:"national_id,omitempty"`
}

func (o Options) apply(data map[string]any) {
	if o.ClientReferenceID != "" {
		data["client_reference_id"] = o.ClientReferenceID
	}
	if o.ClientReference != "" {
		data["client_reference"] = o.ClientReference
	}
	if o.NationalID != "" {
		data["national_id"] = o.NationalID
	}
}

// WalletCashIn pays a mobile wallet (Vodafone, Etisalat, Orange, bank wallet) by MSISDN.
type WalletCashIn struct {
	Issuer  IssuerType
	Amount  decimal.Decimal
	MSISDN  string
	Options Options
}

func (r WalletCashIn) Channel() IssuerType { return r.Issuer }

func (r WalletCashIn) Validate() error {
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	if !r.Issuer.IsWallet() {
		return invalidArgument(fmt.Sprintf("issuer %q is not a wallet issuer", r.Issuer))
	}
	if err := validateMSISDN(r.MSISDN, r.Issuer.Label()); err != nil {
		return err
	}
	return r.Options.validate()
}

func (r WalletCashIn) payload() map[string]any {
	data := basePayload(r.Issuer, r.Amount)
	data["msisdn"] = r.MSISDN
	r.Options.apply(data)
	return data
}

// AmanCashIn creates an Aman cash pickup for the recipient.
type AmanCashIn struct {
	Amount    decimal.Decimal
	MSISDN    string
	FirstName string
	LastName  string
	Email     string
	Options   Options
}

func (r AmanCashIn) Channel() IssuerType { return IssuerAman }

func (r AmanCashIn) Validate() error {
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	if err := validateMSISDN(r.MSISDN, "Aman transactions"); err != nil {
		return err
	}
	if r.FirstName == "" {
		return invalidArgument("First name is required for Aman transactions")
	}
	if r.LastName == "" {
		return invalidArgument("Last name is required for Aman transactions")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return r.Options.validate()
}

func (r AmanCashIn) payload() map[string]any {
	data := basePayload(IssuerAman, r.Amount)
	data["msisdn"] = r.MSISDN
	data["first_name"] = r.FirstName
	data["last_name"] = r.LastName
	data["email"] = r.Email
	r.Options.apply(data)
	return data
}

// BankCardCashIn credits a bank card or account.
type BankCardCashIn struct {
	Amount          decimal.Decimal
	CardNumber      string
	TransactionType BankTransactionType
	BankCode        BankCode
	FullName        string
	Options         Options
}

func (r BankCardCashIn) Channel() IssuerType { return IssuerBankCard }

func (r BankCardCashIn) Validate() error {
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	if r.CardNumber == "" {
		return invalidArgument("Bank card number is required for bank card transactions")
	}
	if r.TransactionType == "" {
		return invalidArgument("Bank transaction type is required for bank card transactions")
	}
	if _, ok := bankTransactionTypeLabels[r.TransactionType]; !ok {
		return invalidArgument(fmt.Sprintf("unknown bank transaction type %q", r.TransactionType))
	}
	if r.BankCode == "" {
		return invalidArgument("Bank code is required for bank card transactions")
	}
	if _, ok := bankLabels[r.BankCode]; !ok {
		return invalidArgument(fmt.Sprintf("unknown bank code %q", r.BankCode))
	}
	if r.FullName == "" {
		return invalidArgument("Full name is required for bank card transactions")
	}
	if err := validateCardNumber(r.CardNumber); err != nil {
		return err
	}
	return r.Options.validate()
}

func (r BankCardCashIn) payload() map[string]any {
	data := basePayload(IssuerBankCard, r.Amount)
	data["bank_card_number"] = r.CardNumber
	data["bank_transaction_type"] = string(r.TransactionType)
	data["bank_code"] = string(r.BankCode)
	data["full_name"] = r.FullName
	r.Options.apply(data)
	return data
}

// basePayload renders the amount as a JSON number without float rounding.
func basePayload(issuer IssuerType, amount decimal.Decimal) map[string]any {
	return map[string]any{
		"issuer": string(issuer),
		"amount": json.Number(amount.String()),
	}
}
