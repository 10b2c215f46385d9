package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveCatalog/internal/catalog"
)

func recv(t *testing.T, sub *catalog.Subscriber) catalog.Product {
	t.Helper()
	select {
	case p, ok := <-sub.C():
		require.True(t, ok, "subscriber channel closed")
		return p
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published product")
		return catalog.Product{}
	}
}

func TestHubDeliversInPublishOrder(t *testing.T) {
	h := catalog.NewHub()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	x := catalog.Product{ID: 1, Name: "X"}
	y := catalog.Product{ID: 2, Name: "Y"}
	h.Publish(x)
	h.Publish(y)

	assert.Equal(t, x, recv(t, sub))
	assert.Equal(t, y, recv(t, sub))
}

func TestHubLateSubscriberMissesEarlierEvents(t *testing.T) {
	h := catalog.NewHub()

	early := h.Subscribe()
	defer h.Unsubscribe(early)

	x := catalog.Product{ID: 1, Name: "X"}
	h.Publish(x)

	late := h.Subscribe()
	defer h.Unsubscribe(late)

	y := catalog.Product{ID: 2, Name: "Y"}
	h.Publish(y)

	assert.Equal(t, x, recv(t, early))
	assert.Equal(t, y, recv(t, early))

	// The late subscriber's first event is Y; X was never replayed.
	assert.Equal(t, y, recv(t, late))
}

func TestHubDropsOldestWhenQueueFull(t *testing.T) {
	h := catalog.NewHub()
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	const published = 105 // queue capacity is 100
	for i := 1; i <= published; i++ {
		h.Publish(catalog.Product{ID: int64(i)})
	}

	var got []int64
	for {
		select {
		case p := <-sub.C():
			got = append(got, p.ID)
			continue
		default:
		}
		break
	}

	require.Len(t, got, 100)
	assert.Equal(t, int64(6), got[0], "oldest unread items should have been dropped")
	assert.Equal(t, int64(published), got[len(got)-1])
}

func TestHubUnsubscribe(t *testing.T) {
	h := catalog.NewHub()

	a := h.Subscribe()
	b := h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	h.Unsubscribe(a)
	assert.Equal(t, 1, h.Subscribers())

	_, ok := <-a.C()
	assert.False(t, ok, "unsubscribed channel should be closed")

	// Idempotent, and publishing afterwards must not panic.
	h.Unsubscribe(a)
	h.Publish(catalog.Product{ID: 1})
	assert.Equal(t, int64(1), recv(t, b).ID)

	h.Unsubscribe(b)
	assert.Equal(t, 0, h.Subscribers())
}

func TestHubConcurrentPublishUnsubscribe(t *testing.T) {
	h := catalog.NewHub()

	subs := make([]*catalog.Subscriber, 50)
	for i := range subs {
		subs[i] = h.Subscribe()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			h.Publish(catalog.Product{ID: int64(i)})
		}
	}()

	for _, sub := range subs {
		h.Unsubscribe(sub)
	}
	<-done

	assert.Equal(t, 0, h.Subscribers())
}
