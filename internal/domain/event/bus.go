package event

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/metrics"
)

// Handler consumes one event. A handler error is logged and isolated; it
// never stops the remaining handlers for the same event and never reaches
// the publisher's caller.
type Handler func(ctx context.Context, e Event) error

// Subscription identifies one registration so it can be removed later.
type Subscription struct {
	eventType Type
	id        uint64
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus is the process-wide fan-out publisher. Delivery is best-effort: an
// event with no subscribers is dropped silently, by design. Handlers of a
// single publish run sequentially in registration order; concurrent publishes
// of different events may interleave freely.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Type][]registration
	logger *zap.Logger
}

// NewBus creates an empty bus. A nil logger falls back to zap.NewNop.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[Type][]registration),
		logger: logger,
	}
}

// Subscribe registers a handler for exactly one event type and returns the
// subscription to pass to Unsubscribe.
func (b *Bus) Subscribe(t Type, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := Subscription{eventType: t, id: b.nextID}
	b.subs[t] = append(b.subs[t], registration{id: sub.id, handler: h})
	return sub
}

// Unsubscribe removes the registration identified by sub. Unsubscribing an
// unknown or already removed subscription is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.subs[sub.eventType]
	for i, reg := range regs {
		if reg.id == sub.id {
			b.subs[sub.eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every handler subscribed to its exact type. Handler
// failures (errors and panics) are logged and do not interrupt delivery to
// the remaining handlers.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	regs := b.subs[e.EventType()]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.RUnlock()

	metrics.EventsPublishedTotal.WithLabelValues(string(e.EventType())).Inc()
	for _, reg := range snapshot {
		b.invoke(ctx, reg, e)
	}
}

func (b *Bus) invoke(ctx context.Context, reg registration, e Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.EventHandlerFailuresTotal.WithLabelValues(string(e.EventType())).Inc()
			b.logger.Error("event handler panicked",
				zap.String("event_type", string(e.EventType())),
				zap.String("event_id", e.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()
	if err := reg.handler(ctx, e); err != nil {
		metrics.EventHandlerFailuresTotal.WithLabelValues(string(e.EventType())).Inc()
		b.logger.Error("event handler failed",
			zap.String("event_type", string(e.EventType())),
			zap.String("event_id", e.EventID().String()),
			zap.Error(err),
		)
	}
}

// WaitFor blocks until an event of type t matching pred is published or ctx
// is done. The temporary subscription is released on every exit path. A nil
// pred matches any event of the type.
func (b *Bus) WaitFor(ctx context.Context, t Type, pred func(Event) bool) (Event, error) {
	ch := make(chan Event, 1)
	sub := b.Subscribe(t, func(_ context.Context, e Event) error {
		if pred != nil && !pred(e) {
			return nil
		}
		select {
		case ch <- e:
		default:
		}
		return nil
	})
	defer b.Unsubscribe(sub)

	select {
	case e := <-ch:
		return e, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s: %w", t, ctx.Err())
	}
}
