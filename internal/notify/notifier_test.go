package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"seller-console/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefetcher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeRefetcher) Refetch(ctx context.Context, storeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, storeID)
	return f.err
}

func (f *fakeRefetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func orderEvent(t *testing.T, storeID string) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(models.StoreOrderEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: models.EventTypeStoreOrder},
		StoreID:   storeID,
		OrderID:   "ORD-1001",
	})
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestHandleMessageTriggersRefetch(t *testing.T) {
	refetcher := &fakeRefetcher{}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")

	require.NoError(t, n.HandleMessage(context.Background(), orderEvent(t, "store-1")))
	assert.Equal(t, []string{"store-1"}, refetcher.calls)
}

func TestHandleMessageIgnoresUnjoinedStore(t *testing.T) {
	refetcher := &fakeRefetcher{}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")

	require.NoError(t, n.HandleMessage(context.Background(), orderEvent(t, "store-2")))
	assert.Zero(t, refetcher.callCount())
}

func TestHandleMessageAfterLeave(t *testing.T) {
	refetcher := &fakeRefetcher{}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")
	n.Leave("store-1")

	require.NoError(t, n.HandleMessage(context.Background(), orderEvent(t, "store-1")))
	assert.Zero(t, refetcher.callCount())
}

func TestHandleMessageInvalidPayload(t *testing.T) {
	refetcher := &fakeRefetcher{}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")

	// malformed events are dropped, not retried
	require.NoError(t, n.HandleMessage(context.Background(), kafka.Message{Value: []byte("{not json")}))
	assert.Zero(t, refetcher.callCount())
}

func TestHandleMessageIgnoresOtherEventTypes(t *testing.T) {
	refetcher := &fakeRefetcher{}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")

	payload, err := json.Marshal(models.StoreOrderEvent{
		BaseEvent: models.BaseEvent{EventID: "e1", EventType: "PAYMENT_SETTLED"},
		StoreID:   "store-1",
	})
	require.NoError(t, err)

	require.NoError(t, n.HandleMessage(context.Background(), kafka.Message{Value: payload}))
	assert.Zero(t, refetcher.callCount())
}

func TestHandleMessageDuplicateEventsConverge(t *testing.T) {
	refetcher := &fakeRefetcher{}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")

	msg := orderEvent(t, "store-1")
	require.NoError(t, n.HandleMessage(context.Background(), msg))
	require.NoError(t, n.HandleMessage(context.Background(), msg))

	// a refetch per duplicate is harmless: both land on the same state
	assert.Equal(t, 2, refetcher.callCount())
}

func TestHandleMessagePropagatesRefetchError(t *testing.T) {
	refetcher := &fakeRefetcher{err: errors.New("backend down")}
	n := NewOrderNotifier(nil, refetcher)
	n.Join("store-1")

	assert.Error(t, n.HandleMessage(context.Background(), orderEvent(t, "store-1")))
}
