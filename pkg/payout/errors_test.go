package payout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "paymob insufficient_funds [6005]: Insufficient funds",
		newError(KindInsufficientFunds, "Insufficient funds", "6005").Error())
	assert.Equal(t, "paymob invalid_argument: Amount must be greater than 0",
		invalidArgument("Amount must be greater than 0").Error())
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("cash-in: %w", newError(KindDuplicateTransaction, "dup", "501"))

	assert.ErrorIs(t, err, ErrDuplicateTransaction)
	assert.NotErrorIs(t, err, ErrInsufficientFunds)

	var pe *Error
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "501", pe.StatusCode)
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("wrapped: %w", newError(KindRateLimitExceeded, "slow down", "429")))
	assert.True(t, ok)
	assert.Equal(t, KindRateLimitExceeded, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
