package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := New()
	assert.NoError(t, bus.Publish(MouseCursor, "ignored"))
}

func TestPublishOrderAndUnsubscribe(t *testing.T) {
	bus := New()
	var calls []string

	a := bus.Subscribe(MouseCursor, func(any) error {
		calls = append(calls, "A")
		return nil
	})
	bus.Subscribe(MouseCursor, func(any) error {
		calls = append(calls, "B")
		return nil
	})

	require.NoError(t, bus.Publish(MouseCursor, nil))
	assert.Equal(t, []string{"A", "B"}, calls)

	assert.True(t, bus.Unsubscribe(a))
	calls = nil
	require.NoError(t, bus.Publish(MouseCursor, nil))
	assert.Equal(t, []string{"B"}, calls)

	assert.False(t, bus.Unsubscribe(a), "second unsubscribe should report nothing removed")
}

func TestPublishOnlyMatchingKind(t *testing.T) {
	bus := New()
	var cursor, files int
	bus.Subscribe(MouseCursor, func(any) error { cursor++; return nil })
	bus.Subscribe(FileSelected, func(any) error { files++; return nil })

	require.NoError(t, bus.Publish(FileSelected, "map.xodr"))

	assert.Equal(t, 0, cursor)
	assert.Equal(t, 1, files)
	assert.Equal(t, 1, bus.SubscriberCount(MouseCursor))
}

func TestPublishPassesPayload(t *testing.T) {
	bus := New()
	var got any
	bus.Subscribe(MouseCursor, func(p any) error { got = p; return nil })

	payload := &struct{ X float64 }{X: 4}
	require.NoError(t, bus.Publish(MouseCursor, payload))

	assert.Same(t, payload, got)
}

func TestSubscriberErrorStopsDispatch(t *testing.T) {
	bus := New()
	boom := errors.New("boom")
	var reachedLast bool

	bus.Subscribe(FileSelected, func(any) error { return nil })
	h := bus.Subscribe(FileSelected, func(any) error { return boom })
	bus.Subscribe(FileSelected, func(any) error { reachedLast = true; return nil })

	err := bus.Publish(FileSelected, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var subErr *SubscriberError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, FileSelected, subErr.Kind)
	assert.Equal(t, h.id, subErr.SubscriberID)
	assert.False(t, reachedLast)
}

func TestSubscriberPanicPropagates(t *testing.T) {
	bus := New()
	bus.Subscribe(MouseCursor, func(any) error { panic("subscriber bug") })

	assert.PanicsWithValue(t, "subscriber bug", func() { _ = bus.Publish(MouseCursor, nil) })

	// the read lock was released by the deferred unlock
	bus.Subscribe(MouseCursor, func(any) error { return nil })
}

func TestSubscribeWaitsForInFlightPublish(t *testing.T) {
	bus := New()
	entered := make(chan struct{})
	release := make(chan struct{})
	var lateCalls atomic.Int32

	bus.Subscribe(MouseCursor, func(any) error {
		close(entered)
		<-release
		return nil
	})

	publishDone := make(chan error, 1)
	go func() { publishDone <- bus.Publish(MouseCursor, nil) }()
	<-entered

	subscribed := make(chan struct{})
	go func() {
		bus.Subscribe(MouseCursor, func(any) error { lateCalls.Add(1); return nil })
		close(subscribed)
	}()

	select {
	case <-subscribed:
		t.Fatal("Subscribe returned while a publish was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-publishDone)
	<-subscribed

	// the in-flight publish used the list from its start
	assert.Equal(t, int32(0), lateCalls.Load())
	assert.Equal(t, 2, bus.SubscriberCount(MouseCursor))
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := New()
	var delivered atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				h := bus.Subscribe(MouseCursor, func(any) error { delivered.Add(1); return nil })
				bus.Unsubscribe(h)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = bus.Publish(MouseCursor, j)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bus.SubscriberCount(MouseCursor))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MouseCursor", MouseCursor.String())
	assert.Equal(t, "FileSelected", FileSelected.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
