package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// TeamService manages the execution team registry. Authorization is enforced at the
// route level.
type TeamService struct {
	repo ports.TeamMemberRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewTeamService(repo ports.TeamMemberRepository, log zerolog.Logger) *TeamService {
	return &TeamService{repo: repo, now: time.Now, log: log}
}

func (s *TeamService) ListTeamMembers(ctx context.Context) ([]*domain.TeamMember, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	if items == nil {
		items = []*domain.TeamMember{}
	}
	return items, nil
}

func (s *TeamService) GetTeamMember(ctx context.Context, id string) (*domain.TeamMember, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRegistry("get team member", err)
	}
	return m, nil
}

// CreateTeamMember registers a member. RFID and barcode must be safe integers.
func (s *TeamService) CreateTeamMember(ctx context.Context, input ports.CreateTeamMemberInput) (*domain.TeamMember, error) {
	registration, err := domain.ParseRegistration(input.Registration)
	if err != nil {
		return nil, err
	}
	rfid, err := domain.ParseSafeInteger("rfid", input.RFID)
	if err != nil {
		return nil, err
	}
	barcode, err := domain.ParseSafeInteger("barcode", input.Barcode)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validation("name is required")
	}

	exists, err := s.repo.ExistsByRegistration(ctx, registration)
	if err != nil {
		return nil, fmt.Errorf("create team member: %w", err)
	}
	if exists {
		return nil, domain.ErrTeamMemberExists
	}

	now := s.now().UTC()
	m := &domain.TeamMember{
		ID:           uuid.NewString(),
		Registration: registration,
		Name:         name,
		RFID:         rfid,
		Barcode:      barcode,
		Username:     strings.TrimSpace(input.Username),
		Sector:       strings.TrimSpace(input.Sector),
		Role:         strings.TrimSpace(input.Role),
		Level:        strings.TrimSpace(input.Level),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, wrapRegistry("create team member", err)
	}

	s.log.Info().Str("member_id", m.ID).Int64("registration", registration).Msg("team member registered")
	return m, nil
}

// UpdateTeamMember changes descriptive fields; the registration is never touched.
func (s *TeamService) UpdateTeamMember(ctx context.Context, input ports.UpdateTeamMemberInput) (*domain.TeamMember, error) {
	m, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, wrapRegistry("update team member", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Validation("name cannot be blank")
		}
		m.Name = name
	}
	if input.RFID != nil {
		if m.RFID, err = domain.ParseSafeInteger("rfid", *input.RFID); err != nil {
			return nil, err
		}
	}
	if input.Barcode != nil {
		if m.Barcode, err = domain.ParseSafeInteger("barcode", *input.Barcode); err != nil {
			return nil, err
		}
	}
	if input.Username != nil {
		m.Username = strings.TrimSpace(*input.Username)
	}
	if input.Sector != nil {
		m.Sector = strings.TrimSpace(*input.Sector)
	}
	if input.Role != nil {
		m.Role = strings.TrimSpace(*input.Role)
	}
	if input.Level != nil {
		m.Level = strings.TrimSpace(*input.Level)
	}
	m.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, wrapRegistry("update team member", err)
	}

	s.log.Info().Str("member_id", m.ID).Msg("team member updated")
	return m, nil
}

func (s *TeamService) DeleteTeamMember(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapRegistry("delete team member", err)
	}
	s.log.Info().Str("member_id", id).Msg("team member removed")
	return nil
}
