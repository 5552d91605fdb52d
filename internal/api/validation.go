package api

import (
	"fmt"
	"strings"

	"github.com/Checker-Finance/paymob-payout/pkg/payout"
)

func (r DisbursementRequest) Validate() error {
	if strings.TrimSpace(r.Issuer) == "" {
		return fmt.Errorf("issuer is required")
	}
	return nil
}

func (r AmanCancelRequest) Validate() error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("transaction_id is required")
	}
	return nil
}

// toCashIn picks the request variant for the issuer. Field validation is left to the payout package.
func (r DisbursementRequest) toCashIn() (payout.CashInRequest, error) {
	issuer, err := payout.ParseIssuerType(r.Issuer)
	if err != nil {
		return nil, err
	}
	opts := payout.Options{
		ClientReferenceID: strings.TrimSpace(r.ClientReferenceID),
		ClientReference:   strings.TrimSpace(r.ClientReference),
		NationalID:        strings.TrimSpace(r.NationalID),
	}

	switch issuer {
	case payout.IssuerAman:
		return payout.AmanCashIn{
			Amount:    r.Amount,
			MSISDN:    strings.TrimSpace(r.MSISDN),
			FirstName: strings.TrimSpace(r.FirstName),
			LastName:  strings.TrimSpace(r.LastName),
			Email:     strings.TrimSpace(r.Email),
			Options:   opts,
		}, nil
	case payout.IssuerBankCard:
		return payout.BankCardCashIn{
			Amount:          r.Amount,
			CardNumber:      strings.TrimSpace(r.BankCardNumber),
			TransactionType: payout.BankTransactionType(strings.ToLower(strings.TrimSpace(r.BankTransactionType))),
			BankCode:        payout.BankCode(strings.ToUpper(strings.TrimSpace(r.BankCode))),
			FullName:        strings.TrimSpace(r.FullName),
			Options:         opts,
		}, nil
	default:
		return payout.WalletCashIn{
			Issuer:  issuer,
			Amount:  r.Amount,
			MSISDN:  strings.TrimSpace(r.MSISDN),
			Options: opts,
		}, nil
	}
}

// parseIDs splits a comma-separated id list, dropping blanks.
func parseIDs(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(p); id != "" {
			out = append(out, id)
		}
	}
	return out
}
