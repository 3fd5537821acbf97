package ports

import (
	"context"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// EventSink accepts committed project events for asynchronous delivery.
type EventSink interface {
	Enqueue(event domain.ProjectEvent)
}

// EventPublisher delivers a single project event to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ProjectEvent) error
}

// IdempotencyStore remembers which project a client-supplied key created.
type IdempotencyStore interface {
	// Reserve claims key. When the key is already known it returns the stored project
	// id (empty while the first request is still in flight) and reserved=false.
	Reserve(ctx context.Context, key string) (projectID string, reserved bool, err error)
	Complete(ctx context.Context, key, projectID string) error
	Release(ctx context.Context, key string) error
}

// EventProcessor handles one event taken off the dispatcher queue.
type EventProcessor interface {
	Process(ctx context.Context, event domain.ProjectEvent) error
}
