package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/metrics"
	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

const (
	defaultPublishAttempts = 3
	defaultRetryBackoff    = 200 * time.Millisecond
)

type eventRelay struct {
	publisher ports.EventPublisher
	attempts  int
	backoff   time.Duration
	log       zerolog.Logger
}

// NewEventRelay returns an EventProcessor that hands committed project events to
// publisher, retrying transient failures with linear backoff.
func NewEventRelay(publisher ports.EventPublisher, log zerolog.Logger) ports.EventProcessor {
	return &eventRelay{
		publisher: publisher,
		attempts:  defaultPublishAttempts,
		backoff:   defaultRetryBackoff,
		log:       log,
	}
}

// Process publishes a single event. The project change it describes is already
// committed, so a failure here is only logged and counted by the caller.
func (r *eventRelay) Process(ctx context.Context, event domain.ProjectEvent) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = r.publisher.Publish(ctx, event); err == nil {
			metrics.EventsPublishedTotal.WithLabelValues(string(event.Type)).Inc()
			r.log.Debug().
				Str("event_id", event.ID).
				Str("type", string(event.Type)).
				Str("project_id", event.ProjectID).
				Msg("event published")
			return nil
		}

		r.log.Warn().Err(err).
			Str("event_id", event.ID).
			Int("attempt", attempt).
			Msg("publish failed")

		if attempt == r.attempts {
			break
		}
		select {
		case <-ctx.Done():
			metrics.EventsErrorsTotal.WithLabelValues(string(event.Type)).Inc()
			return fmt.Errorf("publish %s: %w", event.Type, ctx.Err())
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}

	metrics.EventsErrorsTotal.WithLabelValues(string(event.Type)).Inc()
	return fmt.Errorf("publish %s after %d attempts: %w", event.Type, r.attempts, err)
}
