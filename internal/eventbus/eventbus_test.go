package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grepscope/internal/domain"
)

func TestPublishSubscribe(t *testing.T) {
	bus := New()

	received := make(chan DomainEvent, 1)
	bus.Subscribe(EventSearchStarted, func(e DomainEvent) {
		received <- e
	})

	bus.Publish(domain.SearchStartedEvent{Query: "needle", Directory: "/tmp"})

	select {
	case e := <-received:
		ev, ok := e.(domain.SearchStartedEvent)
		require.True(t, ok)
		require.Equal(t, "needle", ev.Query)
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestEventsDeliveredInPublishOrder(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var order []domain.SearchStatus
	done := make(chan struct{})
	bus.Subscribe(EventSearchProgress, func(e DomainEvent) {
		ev := e.(domain.SearchProgressEvent)
		mu.Lock()
		order = append(order, ev.Progress.Status)
		n := len(order)
		mu.Unlock()
		if n == 3 {
			close(done)
		}
	})

	bus.Publish(domain.SearchProgressEvent{Progress: domain.SearchProgress{Status: domain.StatusStarted}})
	bus.Publish(domain.SearchProgressEvent{Progress: domain.SearchProgress{Status: domain.StatusInProgress}})
	bus.Publish(domain.SearchProgressEvent{Progress: domain.SearchProgress{Status: domain.StatusCancelled}})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("events never delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []domain.SearchStatus{
		domain.StatusStarted,
		domain.StatusInProgress,
		domain.StatusCancelled,
	}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	count := 0
	unsub := bus.Subscribe(EventSearchCompleted, func(DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(domain.SearchCompletedEvent{})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 5*time.Millisecond)

	unsub()
	unsub() // second call is a no-op

	bus.Publish(domain.SearchCompletedEvent{})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, count)
}

func TestPanickingHandlerDoesNotKillDispatcher(t *testing.T) {
	bus := New()

	bus.Subscribe(EventSearchFailed, func(DomainEvent) {
		panic("handler blew up")
	})
	survived := make(chan struct{}, 1)
	bus.Subscribe(EventSearchFailed, func(DomainEvent) {
		survived <- struct{}{}
	})

	bus.Publish(domain.SearchFailedEvent{Message: "boom"})

	select {
	case <-survived:
	case <-time.After(time.Second):
		t.Fatal("dispatcher died after handler panic")
	}
}

func TestSubscribersOnlySeeTheirEventType(t *testing.T) {
	bus := New()

	wrong := make(chan struct{}, 1)
	bus.Subscribe(EventSearchCancelled, func(DomainEvent) {
		wrong <- struct{}{}
	})
	right := make(chan struct{}, 1)
	bus.Subscribe(EventSearchCompleted, func(DomainEvent) {
		right <- struct{}{}
	})

	bus.Publish(domain.SearchCompletedEvent{})

	select {
	case <-right:
	case <-time.After(time.Second):
		t.Fatal("matching subscriber never notified")
	}
	select {
	case <-wrong:
		t.Fatal("subscriber received an event of another type")
	default:
	}
}
