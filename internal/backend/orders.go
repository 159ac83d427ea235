package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"seller-console/internal/models"
)

// OrderQuery identifies one page of a store's orders.
type OrderQuery struct {
	StoreID  string
	Page     int
	PageSize int
	Search   string
}

// DeliveryStatuses fetches the full delivery-status catalog.
func (c *Client) DeliveryStatuses(ctx context.Context) ([]models.DeliveryStatus, error) {
	var resp struct {
		Status []models.DeliveryStatus `json:"Status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, pathDeliveryStatuses, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch delivery statuses: %w", err)
	}
	return resp.Status, nil
}

// Orders fetches one page of orders for a store along with the total count.
func (c *Client) Orders(ctx context.Context, q OrderQuery) ([]models.Order, int, error) {
	params := url.Values{}
	params.Set("storeId", q.StoreID)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))
	params.Set("search", q.Search)

	var resp struct {
		Orders []models.Order `json:"orders"`
		Count  int            `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, pathOrders+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if resp.Count == 0 {
		resp.Count = len(resp.Orders)
	}
	return resp.Orders, resp.Count, nil
}

// UpdateOrderStatus submits a status transition and returns the status the
// backend actually recorded, which is authoritative over the chosen value.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, statusTitle string) (string, error) {
	body := map[string]string{"status": statusTitle}
	var resp struct {
		Update struct {
			OrderStatus string `json:"orderStatus"`
		} `json:"update"`
	}
	if err := c.doJSON(ctx, http.MethodPut, pathOrderStatus+orderID, body, &resp); err != nil {
		return "", fmt.Errorf("failed to update order status: %w", err)
	}
	return resp.Update.OrderStatus, nil
}

// Invoice fetches the generated invoice document for an order.
func (c *Client) Invoice(ctx context.Context, orderID string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, pathThermalInvoice+orderID, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice: %w", err)
	}
	return data, nil
}
