package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderBackend is a stub marketplace serving just enough of the order API
// for the service under test.
type orderBackend struct {
	mu           sync.Mutex
	orders       []models.Order
	count        int
	failList     bool
	updateStatus string

	listHits    int64
	statusHits  int64
	invoiceHits int64

	blockFirstList bool
	firstStarted   chan struct{}
}

func (b *orderBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/getdeliveryStatus":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Status": []models.DeliveryStatus{
				{StatusCode: "101", StatusTitle: "Pending"},
				{StatusCode: "103", StatusTitle: "Accepted"},
				{StatusCode: "105", StatusTitle: "Going to Pickup"},
				{StatusCode: "106", StatusTitle: "Delivered"},
				{StatusCode: "109", StatusTitle: "Cancelled"},
			},
		})

	case r.URL.Path == "/orders":
		hit := atomic.AddInt64(&b.listHits, 1)
		if b.blockFirstList && hit == 1 {
			close(b.firstStarted)
			<-r.Context().Done()
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failList {
			http.Error(w, `{"message":"internal error"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"orders": b.orders,
			"count":  b.count,
		})

	case strings.HasPrefix(r.URL.Path, "/orderStatus/"):
		atomic.AddInt64(&b.statusHits, 1)
		var body struct {
			Status string `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		returned := b.updateStatus
		b.mu.Unlock()
		if returned == "" {
			returned = body.Status
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"update": map[string]string{"orderStatus": returned},
		})

	case strings.HasPrefix(r.URL.Path, "/thermal-invoice/"):
		atomic.AddInt64(&b.invoiceHits, 1)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 test"))

	default:
		http.NotFound(w, r)
	}
}

func newOrderHarness(t *testing.T, stub *orderBackend) (*OrderService, func()) {
	t.Helper()
	srv := httptest.NewServer(stub)
	client := backend.NewClient(srv.URL, 5*time.Second)
	catalog := status.NewCatalog(client, nil)
	return NewOrderService(client, catalog), srv.Close
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "o1", OrderID: "ORD-1001", OrderStatus: "Pending"},
		{ID: "o2", OrderID: "ORD-1002", OrderStatus: "Accepted"},
		{ID: "o3", OrderID: "ORD-1003", OrderStatus: "106"},
	}
}

func TestListReturnsPage(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 42}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	result, err := svc.List(context.Background(), "store-1", ListQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, result.Orders, 3)
	assert.Equal(t, 42, result.Total)
	assert.Equal(t, 2, result.Page)
}

func TestListSearchChangeResetsPage(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)

	result, err := svc.List(context.Background(), "store-1", ListQuery{Page: 3, PageSize: 10, Search: "ORD"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
}

func TestListErrorEmptiesProjection(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{})
	require.NoError(t, err)

	stub.mu.Lock()
	stub.failList = true
	stub.mu.Unlock()

	_, err = svc.List(context.Background(), "store-1", ListQuery{})
	require.Error(t, err)

	// the stale page must not survive a failed fetch
	_, err = svc.AllowedTransitions("store-1", "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListLatestWins(t *testing.T) {
	stub := &orderBackend{
		orders:         sampleOrders(),
		count:          3,
		blockFirstList: true,
		firstStarted:   make(chan struct{}),
	}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.List(context.Background(), "store-1", ListQuery{Page: 1})
		firstErr <- err
	}()

	<-stub.firstStarted

	result, err := svc.List(context.Background(), "store-1", ListQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)

	assert.ErrorIs(t, <-firstErr, ErrSuperseded)
}

func TestAllowedTransitions(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{})
	require.NoError(t, err)

	titles, err := svc.AllowedTransitions("store-1", "o2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Going to Pickup", "Cancelled"}, titles)

	// delivered order, stored under the legacy code
	titles, err = svc.AllowedTransitions("store-1", "o3")
	require.NoError(t, err)
	assert.Empty(t, titles)

	_, err = svc.AllowedTransitions("store-1", "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSubmitTransitionGuards(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{})
	require.NoError(t, err)

	// skipping stages is rejected locally
	_, err = svc.SubmitTransition(context.Background(), "store-1", "o1", "Delivered")
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	// no-op transition
	_, err = svc.SubmitTransition(context.Background(), "store-1", "o1", "Pending")
	assert.ErrorIs(t, err, ErrSameStatus)

	// unrecognized target
	_, err = svc.SubmitTransition(context.Background(), "store-1", "o1", "Refunded")
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)

	// none of the rejections may reach the backend
	assert.Zero(t, atomic.LoadInt64(&stub.statusHits))
}

func TestSubmitTransitionAcceptsCode(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{})
	require.NoError(t, err)

	// the catalog resolves "103" to Accepted before submission
	updated, err := svc.SubmitTransition(context.Background(), "store-1", "o1", "103")
	require.NoError(t, err)
	assert.Equal(t, "Accepted", updated)
	assert.Equal(t, int64(1), atomic.LoadInt64(&stub.statusHits))
}

func TestSubmitTransitionAdoptsBackendStatus(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3, updateStatus: "Cancelled"}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{})
	require.NoError(t, err)

	updated, err := svc.SubmitTransition(context.Background(), "store-1", "o1", "Accepted")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", updated)

	// the projection carries what the backend recorded, not what was chosen
	titles, err := svc.AllowedTransitions("store-1", "o1")
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestInvoiceOnlyForDelivered(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{})
	require.NoError(t, err)

	_, _, err = svc.Invoice(context.Background(), "store-1", "o1")
	assert.ErrorIs(t, err, ErrInvoiceUnavailable)
	assert.Zero(t, atomic.LoadInt64(&stub.invoiceHits))

	data, filename, err := svc.Invoice(context.Background(), "store-1", "o3")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "thermal_invoice_ORD-1003.pdf", filename)
}

func TestRefetchRerunsCurrentQuery(t *testing.T) {
	stub := &orderBackend{orders: sampleOrders(), count: 3}
	svc, closeFn := newOrderHarness(t, stub)
	defer closeFn()

	_, err := svc.List(context.Background(), "store-1", ListQuery{Page: 2, Search: "ORD"})
	require.NoError(t, err)

	before := atomic.LoadInt64(&stub.listHits)
	require.NoError(t, svc.Refetch(context.Background(), "store-1"))
	require.NoError(t, svc.Refetch(context.Background(), "store-1"))
	assert.Equal(t, before+2, atomic.LoadInt64(&stub.listHits))
}
