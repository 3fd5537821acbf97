package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// LogPublisher writes project events to the log. Used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.ProjectEvent) error {
	p.log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("project_id", event.ProjectID).
		Int64("actor", event.Actor).
		Str("from", string(event.From)).
		Str("to", string(event.To)).
		Int64("version", event.Version).
		Msg("project event")
	return nil
}
