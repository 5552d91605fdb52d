package payout

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	msisdnPattern     = regexp.MustCompile(`^01[0-2][0-9]{8}$`)
	cardNumberPattern = regexp.MustCompile(`^[0-9]{13,19}$`)
)

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidArgument("Amount must be greater than 0")
	}
	return nil
}

func validateMSISDN(msisdn, channel string) error {
	if msisdn == "" {
		return invalidArgument(fmt.Sprintf("MSISDN is required for %s", channel))
	}
	if !msisdnPattern.MatchString(msisdn) {
		return invalidArgument("MSISDN must be 11 digits starting with 01")
	}
	return nil
}

// validateEmail accepts a bare address with a dotted domain; "Name <a@b.c>" is rejected.
func validateEmail(email string) error {
	if email == "" {
		return invalidArgument("Email is required for Aman transactions")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalidArgument("Invalid email format")
	}
	_, domain, _ := strings.Cut(email, "@")
	if !strings.Contains(domain, ".") {
		return invalidArgument("Invalid email format")
	}
	return nil
}

func validateCardNumber(card string) error {
	if !cardNumberPattern.MatchString(card) {
		return invalidArgument("Bank card number must be 13-19 digits")
	}
	return nil
}

func (o Options) validate() error {
	if o.ClientReferenceID == "" {
		return nil
	}
	if _, err := uuid.Parse(o.ClientReferenceID); err != nil {
		return invalidArgument("client_reference_id must be a UUID")
	}
	return nil
}
