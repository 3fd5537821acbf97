package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/metrics"
	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ProjectService implements ports.ProjectService. Every operation re-reads the
// project; nothing is cached between calls.
type ProjectService struct {
	repo        ports.ProjectRepository
	identities  ports.IdentityResolver
	team        ports.TeamMemberRepository
	approvers   ports.ApproverPolicy
	permissions ports.PermissionChecker
	events      ports.EventSink
	idempotency ports.IdempotencyStore
	now         func() time.Time
	log         zerolog.Logger
}

// ProjectOption configures optional collaborators.
type ProjectOption func(*ProjectService)

// WithEvents routes committed changes to sink.
func WithEvents(sink ports.EventSink) ProjectOption {
	return func(s *ProjectService) { s.events = sink }
}

// WithIdempotency enables Idempotency-Key handling on create.
func WithIdempotency(store ports.IdempotencyStore) ProjectOption {
	return func(s *ProjectService) { s.idempotency = store }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ProjectOption {
	return func(s *ProjectService) { s.now = now }
}

func NewProjectService(
	repo ports.ProjectRepository,
	identities ports.IdentityResolver,
	team ports.TeamMemberRepository,
	approvers ports.ApproverPolicy,
	permissions ports.PermissionChecker,
	log zerolog.Logger,
	opts ...ProjectOption,
) *ProjectService {
	s := &ProjectService{
		repo:        repo,
		identities:  identities,
		team:        team,
		approvers:   approvers,
		permissions: permissions,
		events:      discardEvents{},
		now:         time.Now,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type discardEvents struct{}

func (discardEvents) Enqueue(domain.ProjectEvent) {}

// CreateProject opens a request in status requested. If an idempotency key is
// provided and already seen, the previously created project is returned without
// side effects.
func (s *ProjectService) CreateProject(ctx context.Context, input ports.CreateProjectInput) (*ports.CreateProjectResult, error) {
	p, err := newProject(input)
	if err != nil {
		return nil, err
	}

	requester, err := s.identities.Resolve(ctx, input.Actor)
	if err != nil {
		return nil, err
	}

	key := ""
	if input.IdempotencyKey != "" && s.idempotency != nil {
		key = fmt.Sprintf("%d:%s", input.Actor, input.IdempotencyKey)
		existingID, reserved, err := s.idempotency.Reserve(ctx, key)
		switch {
		case err != nil:
			metrics.IdempotencyTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency check failed, creating anyway")
			key = ""
		case !reserved && existingID == "":
			return nil, domain.ErrIdempotencyPending
		case !reserved:
			metrics.IdempotencyTotal.WithLabelValues("hit").Inc()
			existing, err := s.repo.FindByID(ctx, existingID)
			if err != nil {
				return nil, wrapOp("create", err)
			}
			s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("project_id", existing.ID).Msg("idempotent replay")
			return &ports.CreateProjectResult{Project: existing, AlreadyExisted: true}, nil
		default:
			metrics.IdempotencyTotal.WithLabelValues("miss").Inc()
		}
	}

	now := s.now().UTC()
	p.ID = uuid.NewString()
	p.Status = domain.StatusRequested
	p.EstimatedDurationTime = domain.ZeroDuration
	p.RequestedBy = input.Actor
	p.RequesterName = requester.Actor.Name
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Timeline = []domain.TimelineEntry{{
		Type:  domain.EventProjectCreated.TimelineType(),
		To:    domain.StatusRequested,
		Actor: input.Actor,
		At:    now,
	}}

	if err := s.repo.Create(ctx, p); err != nil {
		if key != "" {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", input.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		s.log.Error().Err(err).Msg("failed to create project")
		return nil, fmt.Errorf("create project: %w", err)
	}
	if key != "" {
		if err := s.idempotency.Complete(ctx, key, p.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to store idempotency key")
			// A key left pending would answer every retry with 409.
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", input.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
	}

	metrics.ProjectsCreatedTotal.WithLabelValues(string(p.Type)).Inc()
	s.emit(p, domain.EventProjectCreated, input.Actor, "", "", now)
	s.log.Info().Str("project_id", p.ID).Int64("actor", input.Actor).Str("type", string(p.Type)).Msg("project created")

	return &ports.CreateProjectResult{Project: p}, nil
}

func newProject(input ports.CreateProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.Validation("name is required")
	}
	sector := strings.TrimSpace(input.Sector)
	if sector == "" {
		return nil, domain.Validation("sector is required")
	}
	typ, err := parseType(input.Type)
	if err != nil {
		return nil, err
	}
	urgency := domain.UrgencyLow
	if strings.TrimSpace(input.Urgency) != "" {
		if urgency, err = parseUrgency(input.Urgency); err != nil {
			return nil, err
		}
	}
	return &domain.Project{
		Name:           name,
		Sector:         sector,
		Description:    strings.TrimSpace(input.Description),
		Type:           typ,
		Urgency:        urgency,
		Tags:           cleanList(input.Tags),
		ExpectedGains:  cleanList(input.ExpectedGains),
		Pictures:       cleanList(input.Pictures),
		RecordedPauses: []domain.PauseRecord{},
	}, nil
}

func parseType(s string) (domain.ProjectType, error) {
	t := domain.ProjectType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", domain.Validation(fmt.Sprintf("invalid project type %q", s))
	}
	return t, nil
}

func parseUrgency(s string) (domain.Urgency, error) {
	u := domain.Urgency(strings.ToLower(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", domain.Validation(fmt.Sprintf("invalid urgency %q", s))
	}
	return u, nil
}

// cleanList trims entries, drops blanks and never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// GetProject returns a single project. Soft-deleted projects are not found.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapOp("get", err)
	}
	return p, nil
}

// ListProjects returns a paginated, filtered list of projects.
func (s *ProjectService) ListProjects(ctx context.Context, input ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	filter, err := buildFilter(input)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list projects")
		return nil, fmt.Errorf("list projects: %w", err)
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	if items == nil {
		items = []*domain.Project{}
	}

	return &ports.ListProjectsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func buildFilter(input ports.ListProjectsInput) (ports.ProjectFilter, error) {
	f := ports.ProjectFilter{
		Sector:   strings.TrimSpace(input.Sector),
		SortBy:   ports.SortByCreatedAt,
		SortDesc: true,
		Page:     input.Page,
		Limit:    input.Limit,
	}

	if st := strings.ToLower(strings.TrimSpace(input.Status)); st != "" {
		if !domain.ProjectStatus(st).Valid() {
			return f, domain.Validation(fmt.Sprintf("invalid status %q", input.Status))
		}
		f.Status = st
	}
	if strings.TrimSpace(input.Urgency) != "" {
		u, err := parseUrgency(input.Urgency)
		if err != nil {
			return f, err
		}
		f.Urgency = string(u)
	}

	switch strings.TrimSpace(input.Sort) {
	case "", "created_at", "createdAt":
	case "updated_at", "updatedAt":
		f.SortBy = ports.SortByUpdatedAt
	default:
		return f, domain.Validation(fmt.Sprintf("invalid sort %q, use created_at or updated_at", input.Sort))
	}
	switch strings.ToLower(strings.TrimSpace(input.Order)) {
	case "", "desc":
	case "asc":
		f.SortDesc = false
	default:
		return f, domain.Validation(fmt.Sprintf("invalid order %q, use asc or desc", input.Order))
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	return f, nil
}

// UpdateProject edits descriptive fields. Only the requester may edit, and only while
// the request has not been reviewed.
func (s *ProjectService) UpdateProject(ctx context.Context, input ports.UpdateProjectInput) (*domain.Project, error) {
	changes, err := parseChanges(input)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, "update", domain.EventProjectUpdated, input.ProjectID, input.Actor, func(p *domain.Project, _ time.Time) (string, error) {
		if p.RequestedBy != input.Actor {
			return "", domain.Forbidden("only the requester can edit this project")
		}
		if p.Status != domain.StatusRequested {
			return "", domain.InvalidState(fmt.Sprintf("project is %s, only requested projects can be edited", p.Status))
		}
		return changes.applyTo(p), nil
	})
}

type projectChanges struct {
	fields []string
	set    []func(*domain.Project)
}

func (c *projectChanges) add(field string, fn func(*domain.Project)) {
	c.fields = append(c.fields, field)
	c.set = append(c.set, fn)
}

func (c *projectChanges) applyTo(p *domain.Project) string {
	for _, fn := range c.set {
		fn(p)
	}
	return strings.Join(c.fields, ", ")
}

func parseChanges(in ports.UpdateProjectInput) (*projectChanges, error) {
	c := &projectChanges{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Validation("name cannot be blank")
		}
		c.add("name", func(p *domain.Project) { p.Name = name })
	}
	if in.Sector != nil {
		sector := strings.TrimSpace(*in.Sector)
		if sector == "" {
			return nil, domain.Validation("sector cannot be blank")
		}
		c.add("sector", func(p *domain.Project) { p.Sector = sector })
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		c.add("description", func(p *domain.Project) { p.Description = desc })
	}
	if in.Type != nil {
		typ, err := parseType(*in.Type)
		if err != nil {
			return nil, err
		}
		c.add("type", func(p *domain.Project) { p.Type = typ })
	}
	if in.Urgency != nil {
		u, err := parseUrgency(*in.Urgency)
		if err != nil {
			return nil, err
		}
		c.add("urgency", func(p *domain.Project) { p.Urgency = u })
	}
	if in.Tags != nil {
		tags := cleanList(in.Tags)
		c.add("tags", func(p *domain.Project) { p.Tags = tags })
	}
	if in.ExpectedGains != nil {
		gains := cleanList(in.ExpectedGains)
		c.add("expected_gains", func(p *domain.Project) { p.ExpectedGains = gains })
	}
	if in.Pictures != nil {
		pics := cleanList(in.Pictures)
		c.add("pictures", func(p *domain.Project) { p.Pictures = pics })
	}
	if len(c.fields) == 0 {
		return nil, domain.Validation("no fields to update")
	}
	return c, nil
}

// DeleteProject soft-deletes a project. Authorization is enforced by the caller
// through the delete_project permission.
func (s *ProjectService) DeleteProject(ctx context.Context, input ports.ActorInput) error {
	_, err := s.apply(ctx, "delete", domain.EventProjectDeleted, input.ProjectID, input.Actor, func(p *domain.Project, now time.Time) (string, error) {
		p.DeletedAt = &now
		return "", nil
	})
	return err
}

// wrapOp passes domain errors through untouched and wraps everything else.
func wrapOp(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%s project: %w", op, err)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Kind.String()
	}
	return "error"
}
