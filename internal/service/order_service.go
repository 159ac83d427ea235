package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/status"
	"seller-console/internal/util"

	"go.uber.org/zap"
)

// Guard rejections raised before any network call is made.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrSameStatus           = errors.New("order already has that status")
	ErrTransitionNotAllowed = errors.New("transition not allowed from current status")
	ErrSuperseded           = errors.New("request superseded by a newer one")
	ErrInvoiceUnavailable   = errors.New("invoice only available for delivered orders")
)

// ListQuery selects one page of a store's orders.
type ListQuery struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
}

// ListResult is a snapshot of the order list after a fetch.
type ListResult struct {
	Orders []models.Order `json:"orders"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
}

// OrderService owns the order-list projection per store and enforces the
// status transition table before anything reaches the backend.
type OrderService struct {
	backend *backend.Client
	catalog *status.Catalog
	logger  *zap.Logger

	mu     sync.Mutex
	stores map[string]*storeOrders
}

// storeOrders is one store's view state. gen implements latest-wins: a
// response whose generation is stale is discarded, and its in-flight
// request is cancelled when a newer one starts.
type storeOrders struct {
	gen    uint64
	cancel context.CancelFunc
	query  ListQuery
	orders []models.Order
	total  int
}

// NewOrderService creates an order service.
func NewOrderService(backendClient *backend.Client, catalog *status.Catalog) *OrderService {
	return &OrderService{
		backend: backendClient,
		catalog: catalog,
		logger:  util.GetLogger(),
		stores:  make(map[string]*storeOrders),
	}
}

func (s *OrderService) state(storeID string) *storeOrders {
	st, ok := s.stores[storeID]
	if !ok {
		st = &storeOrders{}
		s.stores[storeID] = st
	}
	return st
}

// List fetches one page of orders for a store. A changed search term resets
// to page 1. If a newer List call starts before this one's response lands,
// this one is cancelled and returns ErrSuperseded.
func (s *OrderService) List(ctx context.Context, storeID string, q ListQuery) (*ListResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.List")
	defer span.End()

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}

	s.mu.Lock()
	st := s.state(storeID)
	if q.Search != st.query.Search {
		q.Page = 1
	}
	st.gen++
	myGen := st.gen
	if st.cancel != nil {
		st.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	st.cancel = cancel
	st.query = q
	s.mu.Unlock()

	// Catalog load rides along with every list fetch; a failure only
	// degrades status display, never the list itself.
	_ = s.catalog.Load(fetchCtx)

	orders, total, err := s.backend.Orders(fetchCtx, backend.OrderQuery{
		StoreID:  storeID,
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if st.gen != myGen {
		util.OrderListFetchesTotal.WithLabelValues("superseded").Inc()
		return nil, ErrSuperseded
	}
	if err != nil {
		st.orders = nil
		st.total = 0
		util.OrderListFetchesTotal.WithLabelValues("error").Inc()
		s.logger.Error("Order list fetch failed",
			zap.String("store_id", storeID),
			zap.Error(err))
		return nil, err
	}

	st.orders = orders
	st.total = total
	util.OrderListFetchesTotal.WithLabelValues("success").Inc()
	return &ListResult{Orders: orders, Total: total, Page: q.Page}, nil
}

// Refetch re-runs the current query. It is the realtime notifier's entry
// point and is idempotent: repeated calls converge on the same state.
func (s *OrderService) Refetch(ctx context.Context, storeID string) error {
	s.mu.Lock()
	q := s.state(storeID).query
	s.mu.Unlock()

	util.OrderRefetchesTotal.Inc()
	_, err := s.List(ctx, storeID, q)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

func (s *OrderService) find(storeID, orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.state(storeID).orders {
		if o.ID == orderID || o.OrderID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// AllowedTransitions returns the status titles the given order may move to.
func (s *OrderService) AllowedTransitions(storeID, orderID string) ([]string, error) {
	order, ok := s.find(storeID, orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}

	current := s.catalog.Resolve(order.OrderStatus)
	next := status.AllowedTransitions(current)
	titles := make([]string, len(next))
	for i, st := range next {
		titles[i] = st.Title()
	}
	return titles, nil
}

// SubmitTransition moves an order to a new status. The target may be a code
// or a title; it is resolved to the canonical title before submission. The
// backend's returned status is adopted, not the locally chosen value. On
// failure the local projection is left unchanged.
func (s *OrderService) SubmitTransition(ctx context.Context, storeID, orderID, target string) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SubmitTransition")
	defer span.End()

	order, ok := s.find(storeID, orderID)
	if !ok {
		util.StatusTransitionsRejected.WithLabelValues("not_found").Inc()
		return "", ErrOrderNotFound
	}

	current := s.catalog.Resolve(order.OrderStatus)
	next := s.catalog.Resolve(target)

	if next == status.StatusUnknown {
		util.StatusTransitionsRejected.WithLabelValues("unknown_target").Inc()
		return "", fmt.Errorf("%w: unknown status %q", ErrTransitionNotAllowed, target)
	}
	if next == current {
		util.StatusTransitionsRejected.WithLabelValues("same_status").Inc()
		return "", ErrSameStatus
	}
	if !status.CanTransition(current, next) {
		util.StatusTransitionsRejected.WithLabelValues("not_allowed").Inc()
		return "", fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, current.Title(), next.Title())
	}

	updated, err := s.backend.UpdateOrderStatus(ctx, order.ID, next.Title())
	if err != nil {
		s.logger.Error("Status update failed",
			zap.String("order_id", order.ID),
			zap.String("target", next.Title()),
			zap.Error(err))
		return "", err
	}

	s.mu.Lock()
	st := s.state(storeID)
	for i := range st.orders {
		if st.orders[i].ID == order.ID {
			st.orders[i].OrderStatus = updated
			break
		}
	}
	s.mu.Unlock()

	util.StatusTransitionsTotal.WithLabelValues(next.Title()).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", updated))
	return updated, nil
}

// Invoice fetches the invoice PDF for a delivered order. Any other status
// is rejected before a request is issued.
func (s *OrderService) Invoice(ctx context.Context, storeID, orderID string) ([]byte, string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Invoice")
	defer span.End()

	order, ok := s.find(storeID, orderID)
	if !ok {
		return nil, "", ErrOrderNotFound
	}

	resolved := s.catalog.Resolve(order.OrderStatus)
	if resolved != status.StatusDelivered && !status.IsDelivered(order.OrderStatus) {
		util.InvoiceDownloadsTotal.WithLabelValues("unavailable").Inc()
		return nil, "", ErrInvoiceUnavailable
	}

	data, err := s.backend.Invoice(ctx, order.OrderID)
	if err != nil {
		util.InvoiceDownloadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Invoice download failed",
			zap.String("order_id", order.OrderID),
			zap.Error(err))
		return nil, "", err
	}

	util.InvoiceDownloadsTotal.WithLabelValues("success").Inc()
	return data, fmt.Sprintf("thermal_invoice_%s.pdf", order.OrderID), nil
}
