package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(sub *Subscription) []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-sub.C():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestEmit_NoSubscribersIsNoop(t *testing.T) {
	bus := NewBus(Options{})
	assert.NotPanics(t, func() {
		bus.Emit(1, TypeTyping, TypingPayload{UserID: 2})
	})
	assert.Equal(t, 0, bus.deliverLocal(1, Event{Type: TypeTyping}))

	// Nothing was queued for a late subscriber.
	sub := bus.Subscribe(1)
	assert.Empty(t, drain(sub))
}

func TestEmit_EverySubscriptionReceivesOnceInOrder(t *testing.T) {
	bus := NewBus(Options{})
	subs := []*Subscription{bus.Subscribe(7), bus.Subscribe(7), bus.Subscribe(7)}
	other := bus.Subscribe(8)
	assert.Equal(t, 3, bus.Subscribers(7))

	for i := 0; i < 5; i++ {
		bus.Emit(7, TypeReaction, i)
	}

	for _, sub := range subs {
		got := drain(sub)
		require.Len(t, got, 5)
		for i, ev := range got {
			assert.Equal(t, TypeReaction, ev.Type)
			assert.Equal(t, i, ev.Data)
		}
	}
	assert.Empty(t, drain(other))
}

func TestEmit_FullBufferDropsWithoutBlocking(t *testing.T) {
	bus := NewBus(Options{BufferSize: 2})
	slow := bus.Subscribe(1)
	fast := bus.Subscribe(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Emit(1, TypeTyping, i)
			if i%2 == 1 {
				drain(fast)
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit blocked on a full subscription")
	}

	got := drain(slow)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Data)
	assert.Equal(t, 1, got[1].Data)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	bus := NewBus(Options{})
	sub := bus.Subscribe(3)
	assert.True(t, bus.Online(3))

	bus.Unsubscribe(sub)
	sub.Close()
	bus.Unsubscribe(sub)
	bus.Unsubscribe(nil)

	assert.False(t, bus.Online(3))
	_, ok := <-sub.C()
	assert.False(t, ok)

	assert.NotPanics(t, func() { bus.Emit(3, TypeTyping, nil) })
}

func TestUnsubscribe_ConcurrentWithEmit(t *testing.T) {
	bus := NewBus(Options{BufferSize: 4})
	const userID = 42

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		sub := bus.Subscribe(userID)
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				bus.Emit(userID, TypeMessage, j)
			}
		}()
		go func() {
			defer wg.Done()
			bus.Unsubscribe(sub)
		}()
		go func() {
			defer wg.Done()
			for range sub.C() {
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bus.Subscribers(userID))
}

func TestClose_ClosesSubscriptionsAndIgnoresEmit(t *testing.T) {
	bus := NewBus(Options{})
	a := bus.Subscribe(1)
	b := bus.Subscribe(2)

	bus.Close()
	bus.Close()

	_, ok := <-a.C()
	assert.False(t, ok)
	_, ok = <-b.C()
	assert.False(t, ok)

	bus.Emit(1, TypeTyping, nil)
	late := bus.Subscribe(1)
	_, ok = <-late.C()
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Subscribers(1))
}

func TestSubscribe_ConcurrentWithCloseNeverLeaksOpenSubscription(t *testing.T) {
	for round := 0; round < 50; round++ {
		bus := NewBus(Options{})

		const n = 32
		subs := make(chan *Subscription, n)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				<-start
				subs <- bus.Subscribe(userID)
			}(uint(i % 4))
		}
		close(start)
		bus.Close()
		wg.Wait()
		close(subs)

		for sub := range subs {
			select {
			case _, ok := <-sub.C():
				assert.False(t, ok, "subscription for user %d still open after Close", sub.UserID)
			case <-time.After(time.Second):
				t.Fatalf("subscription for user %d still open after Close", sub.UserID)
			}
		}
		for u := uint(0); u < 4; u++ {
			assert.Equal(t, 0, bus.Subscribers(u))
		}
	}
}
