package ports

import (
	"context"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// IdentityResolver returns live role facts for an actor.
type IdentityResolver interface {
	// Resolve returns domain.ErrActorNotFound for unknown actors; callers must deny.
	Resolve(ctx context.Context, registration int64) (*domain.Identity, error)
}

// Policy checks return (false, nil) for unknown actors and an error only when the
// underlying registry could not be read.

type ApproverPolicy interface {
	IsActiveApprover(ctx context.Context, registration int64) (bool, error)
	CanApproveProjects(ctx context.Context, registration int64) (bool, error)
	CanManageApprovers(ctx context.Context, registration int64) (bool, error)
}

type TeamAdminPolicy interface {
	CanAdministerTeam(ctx context.Context, registration int64) (bool, error)
}

// PermissionChecker evaluates the action permission table for an actor.
type PermissionChecker interface {
	Check(ctx context.Context, registration int64, action, requiredRole string) (bool, error)
}
