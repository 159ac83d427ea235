package backend

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"seller-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv.Close
}

func TestAPIErrorFromMessageEnvelope(t *testing.T) {
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"store not found"}`, http.StatusNotFound)
	})
	defer closeFn()

	_, _, err := client.Orders(context.Background(), OrderQuery{StoreID: "nope", Page: 1, PageSize: 10})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "store not found", apiErr.Message)
}

func TestAPIErrorFromErrorEnvelope(t *testing.T) {
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	})
	defer closeFn()

	err := client.AddCategory(context.Background(), "store-1", "cat-1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad request", apiErr.Message)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	_, _, err := client.Orders(context.Background(), OrderQuery{StoreID: "s", Page: 1, PageSize: 10})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestOrdersQueryParams(t *testing.T) {
	var got map[string]string
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"storeId": q.Get("storeId"),
			"page":    q.Get("page"),
			"limit":   q.Get("limit"),
			"search":  q.Get("search"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"orders": []models.Order{{ID: "o1"}, {ID: "o2"}},
		})
	})
	defer closeFn()

	orders, total, err := client.Orders(context.Background(), OrderQuery{
		StoreID:  "store-1",
		Page:     3,
		PageSize: 25,
		Search:   "ORD-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "store-1", got["storeId"])
	assert.Equal(t, "3", got["page"])
	assert.Equal(t, "25", got["limit"])
	assert.Equal(t, "ORD-10", got["search"])

	// count falls back to the page length when the server omits it
	assert.Len(t, orders, 2)
	assert.Equal(t, 2, total)
}

func TestUpdateOrderStatusReturnsRecordedStatus(t *testing.T) {
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/orderStatus/o1", r.URL.Path)

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "Accepted", body["status"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"update": map[string]string{"orderStatus": "Accepted"},
		})
	})
	defer closeFn()

	updated, err := client.UpdateOrderStatus(context.Background(), "o1", "Accepted")
	require.NoError(t, err)
	assert.Equal(t, "Accepted", updated)
}

func TestCreateCouponMultipart(t *testing.T) {
	var fields map[string]string
	var files []string
	client, closeFn := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{
			"storeId": r.FormValue("storeId"),
			"title":   r.FormValue("title"),
			"offer":   r.FormValue("offer"),
			"limit":   r.FormValue("limit"),
		}
		for name := range r.MultipartForm.File {
			files = append(files, name)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "created"})
	})
	defer closeFn()

	err := client.CreateCoupon(context.Background(), CouponUpload{
		StoreID:   "store-1",
		Title:     "Weekend Sale",
		Offer:     15,
		Limit:     100,
		FromDate:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidDays: 7,
		Banner:    strings.NewReader("banner-bytes"),
		Slider:    strings.NewReader("slider-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "store-1", fields["storeId"])
	assert.Equal(t, "Weekend Sale", fields["title"])
	assert.Equal(t, "15", fields["offer"])
	assert.Equal(t, "100", fields["limit"])
	assert.ElementsMatch(t, []string{"image", "file"}, files)
}
