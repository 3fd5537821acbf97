package ports

import (
	"context"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// CreateApproverInput registers an approver. Registration is parsed explicitly.
type CreateApproverInput struct {
	Registration string
	Name         string
	Sector       string
	Role         string
	Permission   *string
}

// UpdateApproverInput changes descriptive fields; the registration is immutable.
type UpdateApproverInput struct {
	ID         string
	Name       *string
	Sector     *string
	Role       *string
	Permission *string
	Active     *bool
}

// ApproverService manages the approver registry.
type ApproverService interface {
	ListApprovers(ctx context.Context, activeOnly bool) ([]*domain.Approver, error)
	GetApprover(ctx context.Context, id string) (*domain.Approver, error)
	CreateApprover(ctx context.Context, input CreateApproverInput) (*domain.Approver, error)
	UpdateApprover(ctx context.Context, input UpdateApproverInput) (*domain.Approver, error)
	DeactivateApprover(ctx context.Context, id string) (*domain.Approver, error)
}

// CreateTeamMemberInput registers a team member. RFID and barcode arrive as text and
// must parse as safe integers.
type CreateTeamMemberInput struct {
	Registration string
	Name         string
	RFID         string
	Barcode      string
	Username     string
	Sector       string
	Role         string
	Level        string
}

// UpdateTeamMemberInput changes descriptive fields; the registration is immutable.
type UpdateTeamMemberInput struct {
	ID       string
	Name     *string
	RFID     *string
	Barcode  *string
	Username *string
	Sector   *string
	Role     *string
	Level    *string
}

// TeamService manages the execution team registry.
type TeamService interface {
	ListTeamMembers(ctx context.Context) ([]*domain.TeamMember, error)
	GetTeamMember(ctx context.Context, id string) (*domain.TeamMember, error)
	CreateTeamMember(ctx context.Context, input CreateTeamMemberInput) (*domain.TeamMember, error)
	UpdateTeamMember(ctx context.Context, input UpdateTeamMemberInput) (*domain.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) error
}
