package payout

import (
	"fmt"
	"slices"
	"strings"
)

//
// ────────────────────────────────────────────────
//   Issuer
// ────────────────────────────────────────────────
//

// IssuerType is the disbursement channel a cash-in is routed through.
type IssuerType string

const (
	IssuerVodafone   IssuerType = "vodafone"
	IssuerEtisalat   IssuerType = "etisalat"
	IssuerOrange     IssuerType = "orange"
	IssuerAman       IssuerType = "aman"
	IssuerBankWallet IssuerType = "bank_wallet"
	IssuerBankCard   IssuerType = "bank_card"
)

var issuerTypes = []IssuerType{
	IssuerVodafone, IssuerEtisalat, IssuerOrange, IssuerAman, IssuerBankWallet, IssuerBankCard,
}

var issuerLabels = map[IssuerType]string{
	IssuerVodafone:   "Vodafone Cash",
	IssuerEtisalat:   "Etisalat Cash",
	IssuerOrange:     "Orange Cash",
	IssuerAman:       "Aman",
	IssuerBankWallet: "Bank Wallet",
	IssuerBankCard:   "Bank Card",
}

// Label returns the human-readable issuer name.
func (i IssuerType) Label() string { return label(issuerLabels, i) }

// IsWallet reports whether the issuer is a mobile-wallet style channel keyed by MSISDN.
func (i IssuerType) IsWallet() bool {
	switch i {
	case IssuerVodafone, IssuerEtisalat, IssuerOrange, IssuerBankWallet:
		return true
	}
	return false
}

// AllIssuerTypes returns every issuer in declaration order, minus except.
func AllIssuerTypes(except ...IssuerType) []IssuerType { return all(issuerTypes, except) }

// ParseIssuerType validates an untrusted issuer string.
func ParseIssuerType(s string) (IssuerType, error) {
	return parse(issuerLabels, strings.ToLower(strings.TrimSpace(s)), "issuer")
}

//
// ────────────────────────────────────────────────
//   Bank codes
// ────────────────────────────────────────────────
//

// BankCode identifies the receiving bank for bank-card disbursements.
type BankCode string

const (
	BankAUB   BankCode = "AUB"
	BankCIB   BankCode = "CIB"
	BankNBE   BankCode = "NBE"
	BankMISR  BankCode = "MISR"
	BankALEX  BankCode = "ALEX"
	BankCAE   BankCode = "CAE"
	BankADIB  BankCode = "ADIB"
	BankARAB  BankCode = "ARAB"
	BankQNB   BankCode = "QNB"
	BankHSBC  BankCode = "HSBC"
	BankSCB   BankCode = "SCB"
	BankAAIB  BankCode = "AAIB"
	BankBLOM  BankCode = "BLOM"
	BankARIB  BankCode = "ARIB"
	BankEDBE  BankCode = "EDBE"
	BankPDAC  BankCode = "PDAC"
	BankUBOE  BankCode = "UBOE"
	BankSAIB  BankCode = "SAIB"
	BankADCB  BankCode = "ADCB"
	BankNSGB  BankCode = "NSGB"
	BankEGBE  BankCode = "EGBE"
	BankEXDE  BankCode = "EXDE"
	BankCRED  BankCode = "CRED"
	BankENBD  BankCode = "ENBD"
	BankMASH  BankCode = "MASH"
	BankFIBE  BankCode = "FIBE"
	BankATQB  BankCode = "ATQB"
	BankALAH  BankCode = "ALAH"
	BankMIDG  BankCode = "MIDG"
	BankCIEB  BankCode = "CIEB"
	BankIBANK BankCode = "IBANK"
)

var bankCodes = []BankCode{
	BankAUB, BankCIB, BankNBE, BankMISR, BankALEX, BankCAE, BankADIB, BankARAB, BankQNB,
	BankHSBC, BankSCB, BankAAIB, BankBLOM, BankARIB, BankEDBE, BankPDAC, BankUBOE, BankSAIB,
	BankADCB, BankNSGB, BankEGBE, BankEXDE, BankCRED, BankENBD, BankMASH, BankFIBE, BankATQB,
	BankALAH, BankMIDG, BankCIEB, BankIBANK,
}

var bankLabels = map[BankCode]string{
	BankAUB:   "Ahli United Bank",
	BankCIB:   "Commercial International Bank",
	BankNBE:   "National Bank of Egypt",
	BankMISR:  "Banque Misr",
	BankALEX:  "Bank of Alexandria",
	BankCAE:   "Credit Agricole Egypt",
	BankADIB:  "Abu Dhabi Islamic Bank",
	BankARAB:  "Arab African International Bank",
	BankQNB:   "QNB ALAHLI",
	BankHSBC:  "HSBC Bank Egypt",
	BankSCB:   "Suez Canal Bank",
	BankAAIB:  "Arab African International Bank",
	BankBLOM:  "Blom Bank Egypt",
	BankARIB:  "Arab Investment Bank",
	BankEDBE:  "Export Development Bank of Egypt",
	BankPDAC:  "Principal Bank for Development and Agricultural Credit",
	BankUBOE:  "Union Bank of Egypt",
	BankSAIB:  "Société Arabe Internationale de Banque",
	BankADCB:  "Abu Dhabi Commercial Bank",
	BankNSGB:  "Nasser Social Bank",
	BankEGBE:  "Egyptian Gulf Bank",
	BankEXDE:  "Export Development Bank",
	BankCRED:  "Credit Agricole Egypt",
	BankENBD:  "Emirates NBD Egypt",
	BankMASH:  "Mashreq Bank",
	BankFIBE:  "Faisal Islamic Bank of Egypt",
	BankATQB:  "Al Ahly Bank of Kuwait",
	BankALAH:  "Al Ahly Bank",
	BankMIDG:  "Midroc Gold Bank",
	BankCIEB:  "Crédit Industriel et Commercial",
	BankIBANK: "Investment Bank",
}

func (b BankCode) Label() string { return label(bankLabels, b) }

func AllBankCodes(except ...BankCode) []BankCode { return all(bankCodes, except) }

// ParseBankCode accepts codes case-insensitively ("cib" → CIB).
func ParseBankCode(s string) (BankCode, error) {
	return parse(bankLabels, strings.ToUpper(strings.TrimSpace(s)), "bank code")
}

//
// ────────────────────────────────────────────────
//   Transaction status
// ────────────────────────────────────────────────
//

type TransactionStatus string

const (
	StatusSuccessful TransactionStatus = "successful"
	StatusPending    TransactionStatus = "pending"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
)

var transactionStatuses = []TransactionStatus{StatusSuccessful, StatusPending, StatusFailed, StatusCancelled}

var transactionStatusLabels = map[TransactionStatus]string{
	StatusSuccessful: "Successful",
	StatusPending:    "Pending",
	StatusFailed:     "Failed",
	StatusCancelled:  "Cancelled",
}

func (s TransactionStatus) Label() string { return label(transactionStatusLabels, s) }

func AllTransactionStatuses(except ...TransactionStatus) []TransactionStatus {
	return all(transactionStatuses, except)
}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	return parse(transactionStatusLabels, strings.ToLower(strings.TrimSpace(s)), "transaction status")
}

//
// ────────────────────────────────────────────────
//   Bank transaction type
// ────────────────────────────────────────────────
//

// BankTransactionType classifies a bank-card disbursement for the receiving bank.
type BankTransactionType string

const (
	BankTxSalary       BankTransactionType = "salary"
	BankTxCreditCard   BankTransactionType = "credit_card"
	BankTxPrepaidCard  BankTransactionType = "prepaid_card"
	BankTxCashTransfer BankTransactionType = "cash_transfer"
)

var bankTransactionTypes = []BankTransactionType{BankTxSalary, BankTxCreditCard, BankTxPrepaidCard, BankTxCashTransfer}

var bankTransactionTypeLabels = map[BankTransactionType]string{
	BankTxSalary:       "Salary",
	BankTxCreditCard:   "Credit Card",
	BankTxPrepaidCard:  "Prepaid Card",
	BankTxCashTransfer: "Cash Transfer",
}

func (t BankTransactionType) Label() string { return label(bankTransactionTypeLabels, t) }

func AllBankTransactionTypes(except ...BankTransactionType) []BankTransactionType {
	return all(bankTransactionTypes, except)
}

func ParseBankTransactionType(s string) (BankTransactionType, error) {
	return parse(bankTransactionTypeLabels, strings.ToLower(strings.TrimSpace(s)), "bank transaction type")
}

// --- shared helpers ---

func label[T ~string](labels map[T]string, v T) string {
	if l, ok := labels[v]; ok {
		return l
	}
	return string(v)
}

func all[T comparable](values, except []T) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		if !slices.Contains(except, v) {
			out = append(out, v)
		}
	}
	return out
}

func parse[T ~string](labels map[T]string, s, what string) (T, error) {
	v := T(s)
	if _, ok := labels[v]; !ok {
		return "", invalidArgument(fmt.Sprintf("unknown %s %q", what, s))
	}
	return v, nil
}
