package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/metrics"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// TeamAdminPolicy decides who may administer team membership records.
type TeamAdminPolicy struct {
	identities ports.IdentityResolver
	table      *permission.Table
	log        zerolog.Logger
}

func NewTeamAdminPolicy(identities ports.IdentityResolver, table *permission.Table, log zerolog.Logger) *TeamAdminPolicy {
	return &TeamAdminPolicy{identities: identities, table: table, log: log}
}

// CanAdministerTeam requires the automation sector, the senior level, an allowed
// function and a current team membership. Any missing fact denies.
func (p *TeamAdminPolicy) CanAdministerTeam(ctx context.Context, registration int64) (bool, error) {
	identity, err := p.identities.Resolve(ctx, registration)
	if err != nil {
		if ok, err := denyUnknown(err); err != nil {
			return ok, err
		}
		p.deny(registration, "unknown actor")
		return false, nil
	}

	a := identity.Actor
	if !p.table.IsTeamAdminProfile(a.Sector, a.Level, a.Function) {
		p.deny(registration, "profile not allowed")
		return false, nil
	}
	if !identity.IsTeamMember() {
		p.deny(registration, "not a team member")
		return false, nil
	}
	return true, nil
}

func (p *TeamAdminPolicy) deny(registration int64, reason string) {
	metrics.PolicyDenialsTotal.WithLabelValues("team_admin").Inc()
	p.log.Debug().Str("policy", "team_admin").Int64("actor", registration).Str("reason", reason).Msg("policy denied")
}
