package payout

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/pkg/utils"
)

const (
	disbursePath   = "disburse/"
	amanCancelPath = "transaction/aman/cancel/"
	inquirePath    = "transaction/inquire/"
	budgetPath     = "budget/inquire/"
	maxLoggedIDs   = 10
)

// API is the authenticated transport a Service drives. *Client implements it.
type API interface {
	AcquireToken(ctx context.Context) (*Token, error)
	Call(ctx context.Context, method, path string, payload any) (*RawResponse, error)
}

// Service is the payout facade: it validates input, builds provider payloads
// and decodes responses into typed models.
type Service struct {
	api    API
	logger *zap.Logger
}

func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// GenerateToken returns a bearer token, from cache when available.
func (s *Service) GenerateToken(ctx context.Context) (*Token, error) {
	return s.api.AcquireToken(ctx)
}

// InstantCashIn validates req and sends it to disburse/.
// Validation failures return before any network call.
func (s *Service) InstantCashIn(ctx context.Context, req CashInRequest) (*TransactionResponse, error) {
	if req == nil {
		return nil, invalidArgument("cash-in request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("issuer", string(req.Channel()))}
	switch r := req.(type) {
	case WalletCashIn:
		fields = append(fields, zap.String("msisdn", utils.MaskMSISDN(r.MSISDN)), zap.String("amount", r.Amount.String()))
	case AmanCashIn:
		fields = append(fields, zap.String("msisdn", utils.MaskMSISDN(r.MSISDN)), zap.String("amount", r.Amount.String()))
	case BankCardCashIn:
		fields = append(fields, zap.String("card", utils.MaskCardNumber(r.CardNumber)), zap.String("amount", r.Amount.String()))
	}

	resp, err := s.api.Call(ctx, http.MethodPost, disbursePath, req.payload())
	if err != nil {
		s.logger.Warn("paymob.cash_in_failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	var tx TransactionResponse
	if err := resp.Decode(&tx); err != nil {
		return nil, fmt.Errorf("paymob cash-in response: %w", err)
	}
	s.logger.Info("paymob.cash_in_submitted", append(fields,
		zap.String("transaction_id", tx.TransactionID),
		zap.String("disbursement_status", tx.DisbursementStatus),
		zap.String("status_code", tx.StatusCode))...)
	return &tx, nil
}

// CashInWallet is InstantCashIn for a wallet issuer.
func (s *Service) CashInWallet(ctx context.Context, req WalletCashIn) (*TransactionResponse, error) {
	return s.InstantCashIn(ctx, req)
}

// CashInAman is InstantCashIn for an Aman cash pickup.
func (s *Service) CashInAman(ctx context.Context, req AmanCashIn) (*TransactionResponse, error) {
	return s.InstantCashIn(ctx, req)
}

// CashInBankCard is InstantCashIn for a bank card.
func (s *Service) CashInBankCard(ctx context.Context, req BankCardCashIn) (*TransactionResponse, error) {
	return s.InstantCashIn(ctx, req)
}

// CancelAmanTransaction cancels an Aman cash pickup that has not been collected.
func (s *Service) CancelAmanTransaction(ctx context.Context, transactionID string) (*TransactionResponse, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, invalidArgument("transaction id is required")
	}

	resp, err := s.api.Call(ctx, http.MethodPost, amanCancelPath, map[string]string{
		"transaction_id": transactionID,
	})
	if err != nil {
		s.logger.Warn("paymob.aman_cancel_failed", zap.String("transaction_id", transactionID), zap.Error(err))
		return nil, err
	}

	var tx TransactionResponse
	if err := resp.Decode(&tx); err != nil {
		return nil, fmt.Errorf("paymob aman cancel response: %w", err)
	}
	s.logger.Info("paymob.aman_cancelled",
		zap.String("transaction_id", transactionID),
		zap.String("disbursement_status", tx.DisbursementStatus))
	return &tx, nil
}

// BulkTransactionInquiry returns the first page of results for the given transaction ids.
// bankTransactions selects the bank-card ledger instead of wallets.
func (s *Service) BulkTransactionInquiry(ctx context.Context, ids []string, bankTransactions bool) (*BulkInquiryResponse, error) {
	path, err := bulkInquiryPath(ids, bankTransactions)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out BulkInquiryResponse
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("paymob bulk inquiry response: %w", err)
	}
	logged := ids
	if len(logged) > maxLoggedIDs {
		logged = logged[:maxLoggedIDs]
	}
	s.logger.Debug("paymob.bulk_inquiry",
		zap.Strings("ids", logged),
		zap.Int("requested", len(ids)),
		zap.Int("count", out.Count),
		zap.Bool("bank_transactions", bankTransactions))
	return &out, nil
}

// BudgetInquiry returns the remaining disbursement budget.
func (s *Service) BudgetInquiry(ctx context.Context) (*BudgetResponse, error) {
	resp, err := s.api.Call(ctx, http.MethodGet, budgetPath, nil)
	if err != nil {
		return nil, err
	}
	var out BudgetResponse
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("paymob budget response: %w", err)
	}
	return &out, nil
}

// bulkInquiryPath repeats transactions_ids_list once per id.
func bulkInquiryPath(ids []string, bankTransactions bool) (string, error) {
	if len(ids) == 0 {
		return "", invalidArgument("at least one transaction id is required")
	}
	q := url.Values{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return "", invalidArgument("transaction ids must not be empty")
		}
		q.Add("transactions_ids_list", id)
	}
	q.Set("bank_transactions", strconv.FormatBool(bankTransactions))
	return inquirePath + "?" + q.Encode(), nil
}
