package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"seller-console/internal/models"
)

// ProductQuery identifies one page of a store's product listings.
type ProductQuery struct {
	StoreID  string
	Page     int
	PageSize int
	Search   string
	Category string
}

// VariantStock is one variant's values in a stock update payload.
type VariantStock struct {
	VariantID string  `json:"variantId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	MRP       float64 `json:"mrp"`
}

// SellerProducts fetches one page of a store's products with variants.
func (c *Client) SellerProducts(ctx context.Context, q ProductQuery) ([]models.SellerProduct, int, error) {
	params := url.Values{}
	params.Set("sellerId", q.StoreID)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))
	params.Set("search", q.Search)
	params.Set("category", q.Category)

	var resp struct {
		Products   []models.SellerProduct `json:"products"`
		TotalCount int                    `json:"totalCount"`
	}
	if err := c.doJSON(ctx, http.MethodGet, pathSellerProducts+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seller products: %w", err)
	}
	if resp.TotalCount == 0 {
		resp.TotalCount = len(resp.Products)
	}
	return resp.Products, resp.TotalCount, nil
}

// UpdateStock submits one product's variant stock/price/MRP values.
func (c *Client) UpdateStock(ctx context.Context, productID, storeID string, stock []VariantStock) error {
	body := map[string]interface{}{
		"storeId": storeID,
		"stock":   stock,
	}
	if err := c.doJSON(ctx, http.MethodPost, pathUpdateStock+productID, body, nil); err != nil {
		return fmt.Errorf("failed to update stock for product %s: %w", productID, err)
	}
	return nil
}

// UpdateProductStatus toggles a seller product's active flag.
func (c *Client) UpdateProductStatus(ctx context.Context, storeID, productID string, active bool) error {
	body := map[string]interface{}{
		"productId": productID,
		"status":    active,
	}
	if err := c.doJSON(ctx, http.MethodPut, pathProductStatus+storeID, body, nil); err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	return nil
}

// SellerCategories fetches the store's category mappings.
func (c *Client) SellerCategories(ctx context.Context, storeID string) ([]models.Category, error) {
	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.doJSON(ctx, http.MethodGet, pathSellerCategories+storeID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch seller categories: %w", err)
	}
	return resp.Categories, nil
}

// AddCategory maps a marketplace category onto the store.
func (c *Client) AddCategory(ctx context.Context, storeID, categoryID string) error {
	body := map[string]string{
		"storeId":    storeID,
		"categoryId": categoryID,
	}
	if err := c.doJSON(ctx, http.MethodPut, pathAddCategory, body, nil); err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}
