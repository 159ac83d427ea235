package backend

import (
	"context"
	"fmt"
	"net/http"

	"seller-console/internal/models"
)

// StoreTransactions fetches the store's wallet ledger.
func (c *Client) StoreTransactions(ctx context.Context, storeID string) ([]models.WalletTransaction, error) {
	var resp struct {
		StoreData []models.WalletTransaction `json:"storeData"`
	}
	if err := c.doJSON(ctx, http.MethodGet, pathTransactions+storeID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return resp.StoreData, nil
}

// WithdrawalRequest submits a withdrawal and returns the pending ledger
// entry plus the server's acknowledgment message.
func (c *Client) WithdrawalRequest(ctx context.Context, storeID string, amount float64) (*models.WalletTransaction, string, error) {
	body := map[string]interface{}{
		"storeId": storeID,
		"amount":  amount,
	}
	var resp struct {
		Message           string                    `json:"message"`
		PendingWithdrawal *models.WalletTransaction `json:"pendingWithdrawal"`
	}
	if err := c.doJSON(ctx, http.MethodPost, pathWithdrawalRequest, body, &resp); err != nil {
		return nil, "", fmt.Errorf("withdrawal request failed: %w", err)
	}
	return resp.PendingWithdrawal, resp.Message, nil
}

// DashboardStats fetches the store's dashboard numbers.
func (c *Client) DashboardStats(ctx context.Context, storeID string) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, pathDashboardStats+storeID, nil, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	return &stats, nil
}

// SetStoreStatus opens or closes the store.
func (c *Client) SetStoreStatus(ctx context.Context, storeID string, open bool) error {
	body := map[string]interface{}{"storeStatus": open}
	if err := c.doJSON(ctx, http.MethodPut, pathStoreStatus+storeID, body, nil); err != nil {
		return fmt.Errorf("failed to update store status: %w", err)
	}
	return nil
}
