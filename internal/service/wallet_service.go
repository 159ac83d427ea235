package service

import (
	"context"
	"errors"
	"sort"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/util"

	"go.uber.org/zap"
)

// ErrBadWithdrawalAmount rejects non-positive withdrawal amounts before any
// request is issued.
var ErrBadWithdrawalAmount = errors.New("withdrawal amount must be positive")

// WalletOverview is the store's ledger with derived totals. Balance is the
// running balance carried by the newest transaction.
type WalletOverview struct {
	Balance      float64                    `json:"balance"`
	TotalCredits float64                    `json:"total_credits"`
	TotalDebits  float64                    `json:"total_debits"`
	Transactions []models.WalletTransaction `json:"transactions"`
}

// WalletService reads the wallet ledger and submits withdrawal requests.
type WalletService struct {
	backend *backend.Client
	logger  *zap.Logger
}

// NewWalletService creates a wallet service.
func NewWalletService(backendClient *backend.Client) *WalletService {
	return &WalletService{
		backend: backendClient,
		logger:  util.GetLogger(),
	}
}

// Overview fetches and summarizes the store's transactions, newest first.
func (s *WalletService) Overview(ctx context.Context, storeID string) (*WalletOverview, error) {
	ctx, span := util.StartSpan(ctx, "WalletService.Overview")
	defer span.End()

	txns, err := s.backend.StoreTransactions(ctx, storeID)
	if err != nil {
		return nil, err
	}

	sort.Slice(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})

	overview := &WalletOverview{Transactions: txns}
	if len(txns) > 0 {
		overview.Balance = txns[0].CurrentAmount
	}
	for _, txn := range txns {
		switch txn.Type {
		case models.TxnTypeCredit:
			overview.TotalCredits += txn.Amount
		case models.TxnTypeDebit:
			overview.TotalDebits += txn.Amount
		}
	}
	return overview, nil
}

// RequestWithdrawal submits a withdrawal for the given amount and returns
// the pending ledger entry.
func (s *WalletService) RequestWithdrawal(ctx context.Context, storeID string, amount float64) (*models.WalletTransaction, string, error) {
	ctx, span := util.StartSpan(ctx, "WalletService.RequestWithdrawal")
	defer span.End()

	if amount <= 0 {
		util.WithdrawalRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, "", ErrBadWithdrawalAmount
	}

	pending, message, err := s.backend.WithdrawalRequest(ctx, storeID, amount)
	if err != nil {
		util.WithdrawalRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Withdrawal request failed",
			zap.String("store_id", storeID),
			zap.Float64("amount", amount),
			zap.Error(err))
		return nil, "", err
	}

	util.WithdrawalRequestsTotal.WithLabelValues("success").Inc()
	return pending, message, nil
}
