package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"seller-console/internal/models"
	"seller-console/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Refetcher is what a store order event ultimately triggers: a full
// re-fetch of the current order-list page. Never an incremental merge, so
// duplicate or out-of-order events are harmless.
type Refetcher interface {
	Refetch(ctx context.Context, storeID string) error
}

// OrderNotifier routes store order events to refetches for the stores that
// have joined. A store joins when its order view mounts and leaves when it
// unmounts.
type OrderNotifier struct {
	consumer  *Consumer
	refetcher Refetcher
	logger    *zap.Logger

	mu     sync.Mutex
	joined map[string]struct{}
}

// NewOrderNotifier creates a notifier over the given consumer.
func NewOrderNotifier(consumer *Consumer, refetcher Refetcher) *OrderNotifier {
	return &OrderNotifier{
		consumer:  consumer,
		refetcher: refetcher,
		logger:    util.GetLogger(),
		joined:    make(map[string]struct{}),
	}
}

// Join subscribes a store to order notifications.
func (n *OrderNotifier) Join(storeID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.joined[storeID] = struct{}{}
	n.logger.Info("Store joined order channel", zap.String("store_id", storeID))
}

// Leave unsubscribes a store.
func (n *OrderNotifier) Leave(storeID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.joined, storeID)
	n.logger.Info("Store left order channel", zap.String("store_id", storeID))
}

func (n *OrderNotifier) isJoined(storeID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.joined[storeID]
	return ok
}

// HandleMessage decodes a store order event and triggers a refetch when the
// store is joined.
func (n *OrderNotifier) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event models.StoreOrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		util.RealtimeEventsTotal.WithLabelValues("invalid").Inc()
		n.logger.Warn("Failed to unmarshal store order event", zap.Error(err))
		return nil
	}

	if event.EventType != models.EventTypeStoreOrder || !n.isJoined(event.StoreID) {
		util.RealtimeEventsTotal.WithLabelValues("ignored").Inc()
		return nil
	}

	n.logger.Info("New order event received",
		zap.String("store_id", event.StoreID),
		zap.String("order_id", event.OrderID))

	refetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := n.refetcher.Refetch(refetchCtx, event.StoreID); err != nil {
		util.RealtimeEventsTotal.WithLabelValues("refetch_error").Inc()
		return err
	}
	util.RealtimeEventsTotal.WithLabelValues("refetched").Inc()
	return nil
}

// Start consumes events until the context is cancelled.
func (n *OrderNotifier) Start(ctx context.Context) error {
	return n.consumer.StartConsuming(ctx, n.HandleMessage)
}

// Stop tears the channel down.
func (n *OrderNotifier) Stop() error {
	return n.consumer.Close()
}
