package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"streamvault_agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(t models.EventType, id int) models.Envelope {
	return models.Envelope{Type: t, Data: map[string]interface{}{"streamer_id": float64(id)}}
}

func TestDispatch_FiltersByAllowList(t *testing.T) {
	bus := NewBus(0)

	var got []models.EventType
	bus.Subscribe("online-only", []models.EventType{models.EventStreamOnline}, func(_ context.Context, e models.Envelope) {
		got = append(got, e.Type)
	})

	var all int
	bus.Subscribe("all", nil, func(_ context.Context, e models.Envelope) {
		all++
	})

	bus.Dispatch(context.Background(), env(models.EventStreamOnline, 1))
	bus.Dispatch(context.Background(), env(models.EventStreamOffline, 1))
	bus.Dispatch(context.Background(), env(models.EventChannelUpdate, 1))

	assert.Equal(t, []models.EventType{models.EventStreamOnline}, got)
	assert.Equal(t, 3, all)
}

func TestRun_PreservesPublishOrder(t *testing.T) {
	bus := NewBus(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		ids []int64
	)
	bus.Subscribe("recorder", nil, func(_ context.Context, e models.Envelope) {
		id, _ := e.StreamerID()
		mu.Lock()
		ids = append(ids, id)
		mu.Unlock()
	})

	go bus.Run(ctx)

	for i := 1; i <= 50; i++ {
		require.NoError(t, bus.Publish(ctx, env(models.EventChannelUpdate, i)))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) == 50
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(0)

	var calls int
	sub := bus.Subscribe("x", nil, func(_ context.Context, _ models.Envelope) { calls++ })

	bus.Dispatch(context.Background(), env(models.EventStreamOnline, 1))
	bus.Unsubscribe(sub)
	bus.Dispatch(context.Background(), env(models.EventStreamOnline, 1))

	assert.Equal(t, 1, calls)
}

func TestDispatch_PanickingSubscriberDoesNotStopOthers(t *testing.T) {
	bus := NewBus(0)

	bus.Subscribe("bad", nil, func(_ context.Context, _ models.Envelope) { panic("boom") })

	var reached bool
	bus.Subscribe("good", nil, func(_ context.Context, _ models.Envelope) { reached = true })

	assert.NotPanics(t, func() {
		bus.Dispatch(context.Background(), env(models.EventStreamOnline, 1))
	})
	assert.True(t, reached)
}

func TestPublish_AfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	bus.Close()

	err := bus.Publish(context.Background(), env(models.EventStreamOnline, 1))
	assert.ErrorIs(t, err, ErrBusClosed)
}
