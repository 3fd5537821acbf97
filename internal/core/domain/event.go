package domain

import "time"

// EventType names a project change published to downstream consumers.
type EventType string

const (
	EventProjectCreated     EventType = "project.created"
	EventProjectUpdated     EventType = "project.updated"
	EventProjectDeleted     EventType = "project.deleted"
	EventProjectApproved    EventType = "project.approved"
	EventProjectRejected    EventType = "project.rejected"
	EventProjectEstimateSet EventType = "project.estimate_set"
	EventProjectAttended    EventType = "project.attended"
	EventProjectPaused      EventType = "project.paused"
	EventProjectResumed     EventType = "project.resumed"
	EventProjectCompleted   EventType = "project.completed"
)

// TimelineType is the timeline entry type recorded for the event.
func (t EventType) TimelineType() string {
	return string(t)[len("project."):]
}

// ProjectEvent is emitted once per committed project change, for an external notifier.
type ProjectEvent struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	ProjectID  string        `json:"project_id"`
	Actor      int64         `json:"actor"`
	From       ProjectStatus `json:"from,omitempty"`
	To         ProjectStatus `json:"to,omitempty"`
	Note       string        `json:"note,omitempty"`
	Version    int64         `json:"version"`
	OccurredAt time.Time     `json:"occurred_at"`
}
