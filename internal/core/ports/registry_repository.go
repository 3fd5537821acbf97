package ports

import (
	"context"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// ActorRepository is the read side of the external actor registry. Upsert exists for
// seeding development environments only.
type ActorRepository interface {
	// FindByRegistration returns domain.ErrActorNotFound when the actor is unknown.
	FindByRegistration(ctx context.Context, registration int64) (*domain.Actor, error)
	Upsert(ctx context.Context, a *domain.Actor) error
}

// TeamMemberRepository persists the execution team registry.
type TeamMemberRepository interface {
	FindByID(ctx context.Context, id string) (*domain.TeamMember, error)
	// FindByRegistration returns domain.ErrTeamMemberNotFound when absent.
	FindByRegistration(ctx context.Context, registration int64) (*domain.TeamMember, error)
	ExistsByRegistration(ctx context.Context, registration int64) (bool, error)
	List(ctx context.Context) ([]*domain.TeamMember, error)
	// Create returns domain.ErrTeamMemberExists on a registration or
	// (registration, rfid, barcode) collision.
	Create(ctx context.Context, m *domain.TeamMember) error
	Update(ctx context.Context, m *domain.TeamMember) error
	Delete(ctx context.Context, id string) error
}

// ApproverRepository persists the approver registry. Approvers are never removed.
type ApproverRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Approver, error)
	// FindByRegistration returns domain.ErrApproverNotFound when absent.
	FindByRegistration(ctx context.Context, registration int64) (*domain.Approver, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Approver, error)
	// Create returns domain.ErrApproverExists when the registration is taken.
	Create(ctx context.Context, a *domain.Approver) error
	Update(ctx context.Context, a *domain.Approver) error
}
