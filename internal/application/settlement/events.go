package settlement

import (
	"context"

	"github.com/lendingdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

type eventSource interface {
	PullDomainEvents() []shared.DomainEvent
}

// pendingEvents gathers events raised inside a transaction so they can be
// published once it has committed.
type pendingEvents struct {
	events []shared.DomainEvent
}

func (p *pendingEvents) collect(sources ...eventSource) {
	for _, src := range sources {
		p.events = append(p.events, src.PullDomainEvents()...)
	}
}

func (p *pendingEvents) reset() {
	p.events = nil
}

// publishAfterCommit hands events to the bus. Failures are logged only: the
// business operation has already committed.
func publishAfterCommit(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("Failed to publish domain events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
