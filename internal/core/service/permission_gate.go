package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/metrics"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// PermissionGate evaluates the action table against an actor's live profile. The
// actor's function is the role the table matches.
type PermissionGate struct {
	identities ports.IdentityResolver
	table      *permission.Table
	log        zerolog.Logger
}

func NewPermissionGate(identities ports.IdentityResolver, table *permission.Table, log zerolog.Logger) *PermissionGate {
	return &PermissionGate{identities: identities, table: table, log: log}
}

func (g *PermissionGate) Check(ctx context.Context, registration int64, action, requiredRole string) (bool, error) {
	identity, err := g.identities.Resolve(ctx, registration)
	if err != nil {
		if ok, err := denyUnknown(err); err != nil {
			return ok, err
		}
		g.deny(action, registration)
		return false, nil
	}

	profile := permission.Profile{
		Role:     identity.Actor.Function,
		Sector:   identity.Actor.Sector,
		Username: identity.Actor.Username,
	}
	if !g.table.Allowed(action, profile, requiredRole) {
		g.deny(action, registration)
		return false, nil
	}
	return true, nil
}

func (g *PermissionGate) deny(action string, registration int64) {
	label := action
	if _, known := g.table.Rule(action); !known {
		// action names can come from the URL
		label = "unknown"
	}
	metrics.PolicyDenialsTotal.WithLabelValues(label).Inc()
	g.log.Debug().Str("policy", action).Int64("actor", registration).Msg("permission denied")
}
