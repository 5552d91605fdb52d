package api

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/internal/metrics"
	"github.com/Checker-Finance/paymob-payout/pkg/payout"
)

// PayoutService defines the payout operations needed by the handler.
type PayoutService interface {
	InstantCashIn(ctx context.Context, req payout.CashInRequest) (*payout.TransactionResponse, error)
	CancelAmanTransaction(ctx context.Context, transactionID string) (*payout.TransactionResponse, error)
	BulkTransactionInquiry(ctx context.Context, ids []string, bankTransactions bool) (*payout.BulkInquiryResponse, error)
	BudgetInquiry(ctx context.Context) (*payout.BudgetResponse, error)
}

// PayoutHandler handles HTTP API requests for Paymob payouts.
type PayoutHandler struct {
	logger  *zap.Logger
	service PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(logger *zap.Logger, service PayoutService) *PayoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayoutHandler{logger: logger, service: service}
}

// CreateDisbursement handles instant cash-in requests for every issuer.
func (h *PayoutHandler) CreateDisbursement(c *fiber.Ctx) error {
	var req DisbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cashIn, err := req.toCashIn()
	if err != nil {
		return h.fail(c, "paymob.disbursement.failed", err, zap.String("issuer", req.Issuer))
	}

	tx, err := h.service.InstantCashIn(c.UserContext(), cashIn)
	if err != nil {
		return h.fail(c, "paymob.disbursement.failed", err, zap.String("issuer", req.Issuer))
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// CancelAman handles Aman cash pickup cancellations.
func (h *PayoutHandler) CancelAman(c *fiber.Ctx) error {
	var req AmanCancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tx, err := h.service.CancelAmanTransaction(c.UserContext(), req.TransactionID)
	if err != nil {
		return h.fail(c, "paymob.aman_cancel.failed", err, zap.String("transaction_id", req.TransactionID))
	}
	return c.Status(fiber.StatusOK).JSON(tx)
}

// InquireTransactions handles GET /api/v1/transactions?ids=A,B&bank=true.
func (h *PayoutHandler) InquireTransactions(c *fiber.Ctx) error {
	ids := parseIDs(c.Query("ids"))
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ids is required"})
	}

	bank, _ := strconv.ParseBool(c.Query("bank", "false"))

	res, err := h.service.BulkTransactionInquiry(c.UserContext(), ids, bank)
	if err != nil {
		return h.fail(c, "paymob.inquiry.failed", err, zap.Int("ids", len(ids)))
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

// GetBudget handles GET /api/v1/budget.
func (h *PayoutHandler) GetBudget(c *fiber.Ctx) error {
	res, err := h.service.BudgetInquiry(c.UserContext())
	if err != nil {
		return h.fail(c, "paymob.budget.failed", err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *PayoutHandler) fail(c *fiber.Ctx, event string, err error, fields ...zap.Field) error {
	status := statusFor(err)
	if kind, ok := payout.KindOf(err); ok {
		fields = append(fields, zap.String("kind", string(kind)))
		metrics.IncError("api", string(kind))
	} else {
		metrics.IncError("api", "transport")
	}
	fields = append(fields,
		zap.Int("status", status),
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.Error(err))

	if status >= fiber.StatusInternalServerError {
		h.logger.Error(event, fields...)
	} else {
		h.logger.Warn(event, fields...)
	}
	return c.Status(status).JSON(newErrorResponse(c, err))
}
