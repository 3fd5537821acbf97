package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// IdentityService resolves an actor registration into live profile and team facts.
// Every call reads the registries.
type IdentityService struct {
	actors ports.ActorRepository
	team   ports.TeamMemberRepository
	log    zerolog.Logger
}

func NewIdentityService(actors ports.ActorRepository, team ports.TeamMemberRepository, log zerolog.Logger) *IdentityService {
	return &IdentityService{actors: actors, team: team, log: log}
}

// Resolve returns domain.ErrActorNotFound for an unknown or non-positive registration.
func (s *IdentityService) Resolve(ctx context.Context, registration int64) (*domain.Identity, error) {
	if registration <= 0 {
		return nil, domain.ErrActorNotFound
	}

	actor, err := s.actors.FindByRegistration(ctx, registration)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("resolve actor %d: %w", registration, err)
	}

	identity := &domain.Identity{Actor: *actor}

	member, err := s.team.FindByRegistration(ctx, registration)
	switch {
	case err == nil:
		identity.TeamMember = member
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("resolve team member %d: %w", registration, err)
	}

	return identity, nil
}

// denyUnknown turns a not-found resolution into a plain denial.
func denyUnknown(err error) (bool, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}
