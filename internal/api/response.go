package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Checker-Finance/paymob-payout/pkg/payout"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	StatusCode string `json:"status_code,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// statusFor maps a failure onto the HTTP status returned to our callers.
// Provider-side problems surface as 502 since this service is the gateway.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout
	}
	kind, ok := payout.KindOf(err)
	if !ok {
		return fiber.StatusBadGateway
	}
	switch kind {
	case payout.KindInvalidArgument:
		return fiber.StatusBadRequest
	case payout.KindInsufficientFunds:
		return fiber.StatusPaymentRequired
	case payout.KindDuplicateTransaction:
		return fiber.StatusConflict
	case payout.KindRateLimitExceeded:
		return fiber.StatusTooManyRequests
	case payout.KindTransactionLimitExceeded, payout.KindInvalidAccount:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadGateway
	}
}

func newErrorResponse(c *fiber.Ctx, err error) ErrorResponse {
	res := ErrorResponse{
		Error:     err.Error(),
		RequestID: c.GetRespHeader(fiber.HeaderXRequestID),
	}
	var pe *payout.Error
	if errors.As(err, &pe) {
		res.Error = pe.Message
		res.Kind = string(pe.Kind)
		res.StatusCode = pe.StatusCode
	}
	return res
}
