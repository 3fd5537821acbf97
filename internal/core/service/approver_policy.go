package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/metrics"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// ApproverPolicy decides who may review project requests and who may manage the
// approver registry.
type ApproverPolicy struct {
	approvers  ports.ApproverRepository
	identities ports.IdentityResolver
	table      *permission.Table
	log        zerolog.Logger
}

func NewApproverPolicy(approvers ports.ApproverRepository, identities ports.IdentityResolver, table *permission.Table, log zerolog.Logger) *ApproverPolicy {
	return &ApproverPolicy{approvers: approvers, identities: identities, table: table, log: log}
}

// IsActiveApprover is true iff an approver entry for registration exists and is active.
func (p *ApproverPolicy) IsActiveApprover(ctx context.Context, registration int64) (bool, error) {
	a, err := p.approvers.FindByRegistration(ctx, registration)
	if err != nil {
		if ok, err := denyUnknown(err); err != nil {
			return ok, fmt.Errorf("lookup approver %d: %w", registration, err)
		}
		p.deny("approver", registration, "not registered")
		return false, nil
	}
	if !a.Active {
		p.deny("approver", registration, "inactive")
		return false, nil
	}
	return true, nil
}

// CanApproveProjects is exactly IsActiveApprover.
func (p *ApproverPolicy) CanApproveProjects(ctx context.Context, registration int64) (bool, error) {
	return p.IsActiveApprover(ctx, registration)
}

// CanManageApprovers requires a team membership whose role is in the approver manager
// set. Profile attributes alone never qualify.
func (p *ApproverPolicy) CanManageApprovers(ctx context.Context, registration int64) (bool, error) {
	identity, err := p.identities.Resolve(ctx, registration)
	if err != nil {
		if ok, err := denyUnknown(err); err != nil {
			return ok, err
		}
		p.deny("approver_manager", registration, "unknown actor")
		return false, nil
	}
	if !identity.IsTeamMember() {
		p.deny("approver_manager", registration, "not a team member")
		return false, nil
	}
	if !p.table.IsApproverManagerRole(identity.TeamMember.Role) {
		p.deny("approver_manager", registration, "role not allowed")
		return false, nil
	}
	return true, nil
}

func (p *ApproverPolicy) deny(policy string, registration int64, reason string) {
	metrics.PolicyDenialsTotal.WithLabelValues(policy).Inc()
	p.log.Debug().Str("policy", policy).Int64("actor", registration).Str("reason", reason).Msg("policy denied")
}
