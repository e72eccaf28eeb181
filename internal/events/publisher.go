package events

import (
	"context"
	"fmt"

	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

// Handler reacts to one domain event. Handlers registered for the same kind
// run in registration order but must not rely on it; each must be
// idempotent and independent of its siblings.
type Handler func(ctx context.Context, event domain.Event) error

// Publisher dispatches events synchronously to every handler registered for
// their kind. Errors propagate to the caller.
type Publisher struct {
	handlers map[domain.EventKind][]Handler
}

func NewPublisher() *Publisher {
	return &Publisher{handlers: make(map[domain.EventKind][]Handler)}
}

func (p *Publisher) Register(kind domain.EventKind, h Handler) {
	p.handlers[kind] = append(p.handlers[kind], h)
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	for _, h := range p.handlers[event.Kind] {
		if err := h(ctx, event); err != nil {
			return fmt.Errorf("publish %s: %w", event.Kind, err)
		}
	}
	return nil
}
