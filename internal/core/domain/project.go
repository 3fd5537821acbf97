package domain

import (
	"time"
)

// ProjectStatus represents the lifecycle state of a project request.
type ProjectStatus string

const (
	StatusRequested  ProjectStatus = "requested"
	StatusApproved   ProjectStatus = "approved"
	StatusRejected   ProjectStatus = "rejected"
	StatusInProgress ProjectStatus = "in_progress"
	StatusPaused     ProjectStatus = "paused"
	StatusCompleted  ProjectStatus = "completed"
)

// validTransitions defines the allowed state machine transitions.
// rejected and completed are terminal.
var validTransitions = map[ProjectStatus][]ProjectStatus{
	StatusRequested:  {StatusApproved, StatusRejected},
	StatusApproved:   {StatusInProgress},
	StatusInProgress: {StatusPaused, StatusCompleted},
	StatusPaused:     {StatusInProgress},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s ProjectStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusRejected, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// ProjectType classifies the work requested.
type ProjectType string

const (
	TypeAppDevelopment    ProjectType = "app_development"
	TypeProcessAutomation ProjectType = "process_automation"
	TypeAppImprovement    ProjectType = "app_improvement"
	TypeAppFix            ProjectType = "app_fix"
	TypeCarpentry         ProjectType = "carpentry"
	TypeMetalwork         ProjectType = "metalwork"
)

func (t ProjectType) Valid() bool {
	switch t {
	case TypeAppDevelopment, TypeProcessAutomation, TypeAppImprovement, TypeAppFix, TypeCarpentry, TypeMetalwork:
		return true
	}
	return false
}

// Urgency is the priority classification of a request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// ServiceAutomation is the attend service type that assigns the acting team member.
const ServiceAutomation = "automation"

// PauseRecord is an open/closed interval recording why and by whom a project was paused.
// End stays nil until the project is resumed.
type PauseRecord struct {
	Start  time.Time  `json:"start" bson:"start"`
	End    *time.Time `json:"end" bson:"end"`
	Reason string     `json:"reason" bson:"reason"`
	Actor  int64      `json:"actor" bson:"actor"`
}

// IsOpen reports whether the pause has not been closed yet.
func (p PauseRecord) IsOpen() bool { return p.End == nil }

// AssignedTeam is the snapshot of the team member that attended the project.
type AssignedTeam struct {
	MemberID     string `json:"member_id" bson:"member_id"`
	Registration int64  `json:"registration" bson:"registration"`
	Name         string `json:"name" bson:"name"`
}

// TimelineEntry is one append-only audit record of a project change.
type TimelineEntry struct {
	Type  string        `json:"type" bson:"type"`
	From  ProjectStatus `json:"from,omitempty" bson:"from,omitempty"`
	To    ProjectStatus `json:"to,omitempty" bson:"to,omitempty"`
	Actor int64         `json:"actor" bson:"actor"`
	Note  string        `json:"note,omitempty" bson:"note,omitempty"`
	At    time.Time     `json:"at" bson:"at"`
}

// Project is the core aggregate root.
type Project struct {
	ID            string      `json:"id" bson:"_id"`
	Name          string      `json:"name" bson:"name"`
	Sector        string      `json:"sector" bson:"sector"`
	Description   string      `json:"description" bson:"description"`
	Type          ProjectType `json:"type" bson:"type"`
	Urgency       Urgency     `json:"urgency" bson:"urgency"`
	Tags          []string    `json:"tags" bson:"tags"`
	ExpectedGains []string    `json:"expected_gains" bson:"expected_gains"`
	Pictures      []string    `json:"pictures" bson:"pictures"`

	Status                ProjectStatus     `json:"status" bson:"status"`
	StartDate             *time.Time        `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EstimatedDurationTime EstimatedDuration `json:"estimated_duration_time" bson:"estimated_duration_time"`
	ApprovedBy            *int64            `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt            *time.Time        `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	PausedAt              *time.Time        `json:"paused_at,omitempty" bson:"paused_at,omitempty"`
	ConcludedAt           *time.Time        `json:"concluded_at,omitempty" bson:"concluded_at,omitempty"`
	RecordedPauses        []PauseRecord     `json:"recorded_pauses" bson:"recorded_pauses"`

	RequestedBy    int64           `json:"requested_by" bson:"requested_by"`
	RequesterName  string          `json:"requester_name,omitempty" bson:"requester_name,omitempty"`
	AutomationTeam *AssignedTeam   `json:"automation_team,omitempty" bson:"automation_team,omitempty"`
	Timeline       []TimelineEntry `json:"timeline" bson:"timeline"`

	Version   int64      `json:"version" bson:"version"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
}

// Clone returns a deep copy so a transition can be prepared without touching the
// caller's value.
func (p *Project) Clone() *Project {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	c.ExpectedGains = append([]string(nil), p.ExpectedGains...)
	c.Pictures = append([]string(nil), p.Pictures...)
	c.Timeline = append([]TimelineEntry(nil), p.Timeline...)
	c.RecordedPauses = make([]PauseRecord, len(p.RecordedPauses))
	for i, r := range p.RecordedPauses {
		if r.End != nil {
			end := *r.End
			r.End = &end
		}
		c.RecordedPauses[i] = r
	}
	if p.AutomationTeam != nil {
		team := *p.AutomationTeam
		c.AutomationTeam = &team
	}
	c.StartDate = cloneTime(p.StartDate)
	c.ApprovedAt = cloneTime(p.ApprovedAt)
	c.PausedAt = cloneTime(p.PausedAt)
	c.ConcludedAt = cloneTime(p.ConcludedAt)
	c.DeletedAt = cloneTime(p.DeletedAt)
	if p.ApprovedBy != nil {
		by := *p.ApprovedBy
		c.ApprovedBy = &by
	}
	return &c
}

// LastOpenPause returns the index of the most recent pause record if it is still open,
// or -1. Earlier records are never eligible.
func (p *Project) LastOpenPause() int {
	n := len(p.RecordedPauses)
	if n == 0 || !p.RecordedPauses[n-1].IsOpen() {
		return -1
	}
	return n - 1
}

// IsAssignedTo reports whether registration is the assigned team member.
func (p *Project) IsAssignedTo(registration int64) bool {
	return p.AutomationTeam != nil && p.AutomationTeam.Registration == registration
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
