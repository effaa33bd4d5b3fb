package eventbus

import (
	"context"
	"sync"

	"streamvault_agent/internal/metrics"
	"streamvault_agent/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	eventBusDispatch  = "eventBus_Dispatch"
	defaultBufferSize = 256
)

var ErrBusClosed = errors.New("event bus is closed")

type Handler func(ctx context.Context, env models.Envelope)

// Subscription receives the envelopes whose type is in its allow-list.
// An empty allow-list receives everything.
type Subscription struct {
	name    string
	types   map[models.EventType]struct{}
	handler Handler
}

func (s *Subscription) Name() string {
	return s.name
}

func (s *Subscription) Accepts(t models.EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Bus fans websocket envelopes out to subscribers. Envelopes are dispatched
// one at a time, in publish order, on the goroutine running Run.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	queue  chan models.Envelope
	done   chan struct{}
	closed bool
}

func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Bus{
		queue: make(chan models.Envelope, bufferSize),
		done:  make(chan struct{}),
	}
}

func (b *Bus) Subscribe(name string, types []models.EventType, handler Handler) *Subscription {
	sub := &Subscription{
		name:    name,
		types:   make(map[models.EventType]struct{}, len(types)),
		handler: handler,
	}
	for _, t := range types {
		sub.types[t] = struct{}{}
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return sub
}

func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish enqueues env, blocking while the buffer is full.
func (b *Bus) Publish(ctx context.Context, env models.Envelope) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBusClosed
	}

	metrics.EventsReceived.WithLabelValues(string(env.Type)).Inc()

	select {
	case b.queue <- env:
		return nil
	case <-b.done:
		return ErrBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches queued envelopes until ctx is done or the bus is closed.
func (b *Bus) Run(ctx context.Context) {
	logrus.Infof("started bg %s process", eventBusDispatch)

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("stoping bg %s process", eventBusDispatch)
			return
		case <-b.done:
			logrus.Infof("stoping bg %s process", eventBusDispatch)
			return
		case env := <-b.queue:
			b.Dispatch(ctx, env)
		}
	}
}

// Dispatch hands env to every matching subscriber, synchronously and in
// subscription order.
func (b *Bus) Dispatch(ctx context.Context, env models.Envelope) {
	b.mu.RLock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if !sub.Accepts(env.Type) {
			continue
		}
		b.call(ctx, sub, env)
	}
}

func (b *Bus) call(ctx context.Context, sub *Subscription, env models.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("event bus subscriber %s panicked on %s: %v", sub.name, env.Type, r)
		}
	}()

	sub.handler(ctx, env)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}
