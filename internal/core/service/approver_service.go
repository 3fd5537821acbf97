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

// ApproverService manages the approver registry. Authorization is enforced at the
// route level.
type ApproverService struct {
	repo ports.ApproverRepository
	now  func() time.Time
	log  zerolog.Logger
}

func NewApproverService(repo ports.ApproverRepository, log zerolog.Logger) *ApproverService {
	return &ApproverService{repo: repo, now: time.Now, log: log}
}

func (s *ApproverService) ListApprovers(ctx context.Context, activeOnly bool) ([]*domain.Approver, error) {
	items, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list approvers: %w", err)
	}
	if items == nil {
		items = []*domain.Approver{}
	}
	return items, nil
}

func (s *ApproverService) GetApprover(ctx context.Context, id string) (*domain.Approver, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRegistry("get approver", err)
	}
	return a, nil
}

// CreateApprover registers a new active approver. A registration already present,
// active or not, is a conflict.
func (s *ApproverService) CreateApprover(ctx context.Context, input ports.CreateApproverInput) (*domain.Approver, error) {
	registration, err := domain.ParseRegistration(input.Registration)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validation("name is required")
	}

	now := s.now().UTC()
	a := &domain.Approver{
		ID:           uuid.NewString(),
		Registration: registration,
		Name:         name,
		Sector:       strings.TrimSpace(input.Sector),
		Role:         strings.TrimSpace(input.Role),
		Permission:   trimmedPtr(input.Permission),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, wrapRegistry("create approver", err)
	}

	s.log.Info().Str("approver_id", a.ID).Int64("registration", registration).Msg("approver registered")
	return a, nil
}

// UpdateApprover changes descriptive fields and the active flag.
func (s *ApproverService) UpdateApprover(ctx context.Context, input ports.UpdateApproverInput) (*domain.Approver, error) {
	a, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, wrapRegistry("update approver", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Validation("name cannot be blank")
		}
		a.Name = name
	}
	if input.Sector != nil {
		a.Sector = strings.TrimSpace(*input.Sector)
	}
	if input.Role != nil {
		a.Role = strings.TrimSpace(*input.Role)
	}
	if input.Permission != nil {
		a.Permission = trimmedPtr(input.Permission)
	}
	if input.Active != nil {
		a.Active = *input.Active
	}
	a.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, wrapRegistry("update approver", err)
	}

	s.log.Info().Str("approver_id", a.ID).Bool("active", a.Active).Msg("approver updated")
	return a, nil
}

// DeactivateApprover flips the active flag off. Approvers are never removed.
func (s *ApproverService) DeactivateApprover(ctx context.Context, id string) (*domain.Approver, error) {
	inactive := false
	return s.UpdateApprover(ctx, ports.UpdateApproverInput{ID: id, Active: &inactive})
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func wrapRegistry(op string, err error) error {
	if resultLabel(err) != "error" {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
