package events

import (
	"context"
	"sync"

	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

// Outbox is the per-request queue of domain events awaiting the deferred
// cascade. Commands append to it after their transaction commits; the
// dispatcher drains it in FIFO order once the response is on its way.
type Outbox struct {
	mu    sync.Mutex
	queue []domain.Event
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Enqueue(events ...domain.Event) {
	if len(events) == 0 {
		return
	}
	o.mu.Lock()
	o.queue = append(o.queue, events...)
	o.mu.Unlock()
}

// Dequeue pops the oldest queued event, reporting false when empty.
func (o *Outbox) Dequeue() (domain.Event, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queue) == 0 {
		return domain.Event{}, false
	}
	ev := o.queue[0]
	o.queue = o.queue[1:]
	return ev, true
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

type outboxKey struct{}

// NewContext returns a context carrying the outbox.
func NewContext(ctx context.Context, o *Outbox) context.Context {
	return context.WithValue(ctx, outboxKey{}, o)
}

// FromContext returns the request's outbox, or nil when none is installed.
func FromContext(ctx context.Context) *Outbox {
	o, _ := ctx.Value(outboxKey{}).(*Outbox)
	return o
}

// Enqueue appends events to the outbox carried by ctx. Outside a request
// pipeline there is no outbox and the events are dropped; commands only
// raise events on paths that run behind the consistency middleware.
func Enqueue(ctx context.Context, events ...domain.Event) {
	if o := FromContext(ctx); o != nil {
		o.Enqueue(events...)
	}
}
