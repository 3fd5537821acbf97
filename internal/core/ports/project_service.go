package ports

import (
	"context"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// CreateProjectInput carries all data needed to open a project request.
type CreateProjectInput struct {
	Actor          int64
	Name           string
	Sector         string
	Description    string
	Type           string
	Urgency        string
	Tags           []string
	ExpectedGains  []string
	Pictures       []string
	IdempotencyKey string
}

// CreateProjectResult is returned after creating a project.
type CreateProjectResult struct {
	Project *domain.Project
	// AlreadyExisted is true when the Idempotency-Key matched an earlier request.
	AlreadyExisted bool
}

// UpdateProjectInput changes descriptive fields. Nil pointers and nil slices leave the
// field untouched.
type UpdateProjectInput struct {
	ProjectID     string
	Actor         int64
	Name          *string
	Sector        *string
	Description   *string
	Type          *string
	Urgency       *string
	Tags          []string
	ExpectedGains []string
	Pictures      []string
}

// ReviewInput approves or rejects a request. Urgency is optional.
type ReviewInput struct {
	ProjectID string
	Actor     int64
	Urgency   string
}

type EstimateInput struct {
	ProjectID         string
	Actor             int64
	EstimatedDuration string
}

type AttendInput struct {
	ProjectID string
	Actor     int64
	Service   string
}

type PauseInput struct {
	ProjectID string
	Actor     int64
	Reason    string
}

// ActorInput identifies a project and the acting actor for argument-less transitions.
type ActorInput struct {
	ProjectID string
	Actor     int64
}

// ListProjectsInput carries all parameters for the list endpoint.
type ListProjectsInput struct {
	Status  string
	Urgency string
	Sector  string
	Sort    string // created_at | updated_at
	Order   string // asc | desc
	Page    int
	Limit   int
}

// ListProjectsResult is returned by ListProjects.
type ListProjectsResult struct {
	Items      []*domain.Project
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProjectService defines use-case operations for projects, including the lifecycle
// transitions.
type ProjectService interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*CreateProjectResult, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, input ListProjectsInput) (*ListProjectsResult, error)
	UpdateProject(ctx context.Context, input UpdateProjectInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, input ActorInput) error

	Approve(ctx context.Context, input ReviewInput) (*domain.Project, error)
	Reject(ctx context.Context, input ReviewInput) (*domain.Project, error)
	SetEstimate(ctx context.Context, input EstimateInput) (*domain.Project, error)
	Attend(ctx context.Context, input AttendInput) (*domain.Project, error)
	Pause(ctx context.Context, input PauseInput) (*domain.Project, error)
	Resume(ctx context.Context, input ActorInput) (*domain.Project, error)
	Complete(ctx context.Context, input ActorInput) (*domain.Project, error)
}
