package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsDeriveNetAmounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/getSellerProducts", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []models.SellerProduct{
				{
					ID:         "p1",
					Commission: 20,
					Variants: []models.ProductVariant{
						{ID: "v1", Stock: 3, SellPrice: 100},
						{ID: "v2", Stock: 4, SellPrice: 50},
					},
				},
			},
			"totalCount": 7,
		})
	}))
	defer srv.Close()

	svc := NewSellerService(backend.NewClient(srv.URL, 5*time.Second))

	views, total, err := svc.Products(context.Background(), backend.ProductQuery{StoreID: "store-1"})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, views, 1)
	assert.Equal(t, 7, views[0].TotalStock)
	assert.Equal(t, []float64{80, 40}, views[0].NetAmounts)
}

func TestToggleProductStatus(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	svc := NewSellerService(backend.NewClient(srv.URL, 5*time.Second))

	require.NoError(t, svc.ToggleProductStatus(context.Background(), "store-1", "p1", false))
	assert.Equal(t, "/updateSellerProductStatus/store-1", gotPath)
	assert.Equal(t, "p1", gotBody["productId"])
	assert.Equal(t, false, gotBody["status"])
}
