package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createProjectRequest struct {
	Name          string   `json:"name"           validate:"required,max=200"`
	Sector        string   `json:"sector"         validate:"required,max=100"`
	Description   string   `json:"description"    validate:"max=5000"`
	Type          string   `json:"type"           validate:"required,oneof=app_development process_automation app_improvement app_fix carpentry metalwork"`
	Urgency       string   `json:"urgency"        validate:"omitempty,oneof=low medium high"`
	Tags          []string `json:"tags"           validate:"max=20"`
	ExpectedGains []string `json:"expected_gains" validate:"max=20"`
	Pictures      []string `json:"pictures"       validate:"max=10"`
}

// updateProjectRequest carries only the fields to change; absent fields stay untouched.
type updateProjectRequest struct {
	Name          *string  `json:"name"           validate:"omitempty,min=1,max=200"`
	Sector        *string  `json:"sector"         validate:"omitempty,min=1,max=100"`
	Description   *string  `json:"description"    validate:"omitempty,max=5000"`
	Type          *string  `json:"type"           validate:"omitempty,oneof=app_development process_automation app_improvement app_fix carpentry metalwork"`
	Urgency       *string  `json:"urgency"        validate:"omitempty,oneof=low medium high"`
	Tags          []string `json:"tags"           validate:"omitempty,max=20"`
	ExpectedGains []string `json:"expected_gains" validate:"omitempty,max=20"`
	Pictures      []string `json:"pictures"       validate:"omitempty,max=10"`
}

type reviewRequest struct {
	Urgency string `json:"urgency" validate:"omitempty,oneof=low medium high"`
}

type estimateRequest struct {
	EstimatedDurationTime string `json:"estimated_duration_time" validate:"required"`
}

type attendRequest struct {
	Service string `json:"service" validate:"required"`
}

type pauseRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// --- Response types ---

// Response-only types owned by the transport layer so the JSON contract is not
// coupled to storage tags on domain types.

type pauseRecordResponse struct {
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end"`
	Reason string     `json:"reason"`
	Actor  int64      `json:"actor"`
}

type assignedTeamResponse struct {
	MemberID     string `json:"member_id"`
	Registration int64  `json:"registration"`
	Name         string `json:"name"`
}

type timelineEntryResponse struct {
	Type  string    `json:"type"`
	From  string    `json:"from,omitempty"`
	To    string    `json:"to,omitempty"`
	Actor int64     `json:"actor"`
	Note  string    `json:"note,omitempty"`
	At    time.Time `json:"at"`
}

type projectLinks struct {
	Self     string `json:"self"`
	Timeline string `json:"timeline"`
}

type projectResponse struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	Sector                string                `json:"sector"`
	Description           string                `json:"description"`
	Type                  string                `json:"type"`
	Urgency               string                `json:"urgency"`
	Tags                  []string              `json:"tags"`
	ExpectedGains         []string              `json:"expected_gains"`
	Pictures              []string              `json:"pictures"`
	Status                string                `json:"status"`
	StartDate             *time.Time            `json:"start_date"`
	EstimatedDurationTime string                `json:"estimated_duration_time"`
	ApprovedBy            *int64                `json:"approved_by"`
	ApprovedAt            *time.Time            `json:"approved_at"`
	PausedAt              *time.Time            `json:"paused_at"`
	ConcludedAt           *time.Time            `json:"concluded_at"`
	RecordedPauses        []pauseRecordResponse `json:"recorded_pauses"`
	RequestedBy           int64                 `json:"requested_by"`
	RequesterName         string                `json:"requester_name"`
	AutomationTeam        *assignedTeamResponse `json:"automation_team"`
	Version               int64                 `json:"version"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	Links                 projectLinks          `json:"_links"`
}

type timelineResponse struct {
	ProjectID string                  `json:"project_id"`
	Status    string                  `json:"status"`
	Entries   []timelineEntryResponse `json:"entries"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProjectsResponse struct {
	Data       []projectResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
