package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/automation-hub/project-requests/internal/api/metrics"
	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// mutation checks guards against a private copy of the project and applies the
// change to it. It returns the note recorded in the timeline.
type mutation func(p *domain.Project, now time.Time) (string, error)

// apply runs read, guard, mutate and persist for one operation. A failing guard or
// a lost version race leaves the stored project untouched. The event is emitted only
// after the write succeeded.
func (s *ProjectService) apply(ctx context.Context, op string, event domain.EventType, projectID string, actor int64, mutate mutation) (result *domain.Project, err error) {
	start := time.Now()
	defer func() {
		metrics.TransitionsTotal.WithLabelValues(op, resultLabel(err)).Inc()
		metrics.TransitionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if actor <= 0 {
		return nil, domain.ErrMissingIdentity
	}

	current, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, wrapOp(op, err)
	}

	next := current.Clone()
	now := s.now().UTC()
	note, err := mutate(next, now)
	if err != nil {
		s.log.Debug().Err(err).Str("project_id", projectID).Str("transition", op).Int64("actor", actor).Msg("transition rejected")
		return nil, wrapOp(op, err)
	}

	entry := domain.TimelineEntry{Type: event.TimelineType(), Actor: actor, Note: note, At: now}
	if next.Status != current.Status {
		entry.From, entry.To = current.Status, next.Status
	}
	next.Timeline = append(next.Timeline, entry)
	next.Version = current.Version + 1
	next.UpdatedAt = now

	if err := s.repo.Update(ctx, next, current.Version); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.log.Warn().Str("project_id", projectID).Str("transition", op).Int64("version", current.Version).Msg("version conflict")
			return nil, err
		}
		s.log.Error().Err(err).Str("project_id", projectID).Str("transition", op).Msg("failed to persist project")
		return nil, fmt.Errorf("%s project: %w", op, err)
	}

	s.emit(next, event, actor, current.Status, note, now)
	s.log.Info().
		Str("project_id", next.ID).
		Str("transition", op).
		Int64("actor", actor).
		Str("status", string(next.Status)).
		Int64("version", next.Version).
		Msg("project updated")

	return next, nil
}

func (s *ProjectService) emit(p *domain.Project, typ domain.EventType, actor int64, from domain.ProjectStatus, note string, at time.Time) {
	s.events.Enqueue(domain.ProjectEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		ProjectID:  p.ID,
		Actor:      actor,
		From:       from,
		To:         p.Status,
		Note:       note,
		Version:    p.Version,
		OccurredAt: at,
	})
}

// requireTransition fails with InvalidState unless p is exactly in from and the
// graph allows from -> to.
func requireTransition(p *domain.Project, from, to domain.ProjectStatus) error {
	if p.Status != from || !from.CanTransitionTo(to) {
		return domain.InvalidState(fmt.Sprintf("cannot move project from %s to %s, it must be %s", p.Status, to, from))
	}
	return nil
}

// Approve moves a requested project to approved.
func (s *ProjectService) Approve(ctx context.Context, input ports.ReviewInput) (*domain.Project, error) {
	return s.review(ctx, "approve", domain.StatusApproved, domain.EventProjectApproved, input)
}

// Reject moves a requested project to the terminal rejected state.
func (s *ProjectService) Reject(ctx context.Context, input ports.ReviewInput) (*domain.Project, error) {
	return s.review(ctx, "reject", domain.StatusRejected, domain.EventProjectRejected, input)
}

func (s *ProjectService) review(ctx context.Context, op string, target domain.ProjectStatus, event domain.EventType, input ports.ReviewInput) (*domain.Project, error) {
	var urgency domain.Urgency
	if strings.TrimSpace(input.Urgency) != "" {
		u, err := parseUrgency(input.Urgency)
		if err != nil {
			return nil, err
		}
		urgency = u
	}

	return s.apply(ctx, op, event, input.ProjectID, input.Actor, func(p *domain.Project, now time.Time) (string, error) {
		// Approver eligibility precedes the status guard.
		ok, err := s.approvers.CanApproveProjects(ctx, input.Actor)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", domain.ErrNotApprover
		}
		if err := requireTransition(p, domain.StatusRequested, target); err != nil {
			return "", err
		}

		reviewer := input.Actor
		p.Status = target
		p.ApprovedBy = &reviewer
		p.ApprovedAt = &now
		note := ""
		if urgency != "" && urgency != p.Urgency {
			note = fmt.Sprintf("urgency %s -> %s", p.Urgency, urgency)
			p.Urgency = urgency
		}
		return note, nil
	})
}

// SetEstimate records the estimated duration of an approved project without changing
// its status.
func (s *ProjectService) SetEstimate(ctx context.Context, input ports.EstimateInput) (*domain.Project, error) {
	return s.apply(ctx, "estimate", domain.EventProjectEstimateSet, input.ProjectID, input.Actor, func(p *domain.Project, _ time.Time) (string, error) {
		if p.Status != domain.StatusApproved {
			return "", domain.InvalidState(fmt.Sprintf("project is %s, estimates can only be set while approved", p.Status))
		}
		ok, err := s.permissions.Check(ctx, input.Actor, permission.ActionUpdateEstimate, "")
		if err != nil {
			return "", err
		}
		if !ok {
			return "", domain.ErrPermissionDenied
		}
		d, err := domain.ParseEstimatedDuration(input.EstimatedDuration)
		if err != nil {
			return "", err
		}
		p.EstimatedDurationTime = d
		return string(d), nil
	})
}

// Attend starts work on an approved project. For the automation service the acting
// actor must be a registered team member and becomes the assigned team.
func (s *ProjectService) Attend(ctx context.Context, input ports.AttendInput) (*domain.Project, error) {
	return s.apply(ctx, "attend", domain.EventProjectAttended, input.ProjectID, input.Actor, func(p *domain.Project, now time.Time) (string, error) {
		if err := requireTransition(p, domain.StatusApproved, domain.StatusInProgress); err != nil {
			return "", err
		}
		if p.EstimatedDurationTime.IsZero() {
			return "", domain.ErrEstimateRequired
		}

		service := strings.TrimSpace(input.Service)
		if strings.EqualFold(service, domain.ServiceAutomation) {
			member, err := s.team.FindByRegistration(ctx, input.Actor)
			if err != nil {
				return "", err
			}
			p.AutomationTeam = &domain.AssignedTeam{
				MemberID:     member.ID,
				Registration: member.Registration,
				Name:         member.Name,
			}
		}

		p.Status = domain.StatusInProgress
		if p.StartDate == nil {
			p.StartDate = &now
		}
		return service, nil
	})
}

// Pause opens a pause record. Only the assigned team member may pause.
func (s *ProjectService) Pause(ctx context.Context, input ports.PauseInput) (*domain.Project, error) {
	return s.apply(ctx, "pause", domain.EventProjectPaused, input.ProjectID, input.Actor, func(p *domain.Project, now time.Time) (string, error) {
		if err := requireTransition(p, domain.StatusInProgress, domain.StatusPaused); err != nil {
			return "", err
		}
		if !p.IsAssignedTo(input.Actor) {
			return "", domain.ErrNotAssignedMember
		}
		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			return "", domain.Validation("pause reason is required")
		}

		p.RecordedPauses = append(p.RecordedPauses, domain.PauseRecord{
			Start:  now,
			Reason: reason,
			Actor:  input.Actor,
		})
		p.PausedAt = &now
		p.Status = domain.StatusPaused
		return reason, nil
	})
}

// Resume closes the most recent pause record if it is still open and returns the
// project to in_progress. Only the assigned team member may resume.
func (s *ProjectService) Resume(ctx context.Context, input ports.ActorInput) (*domain.Project, error) {
	return s.apply(ctx, "resume", domain.EventProjectResumed, input.ProjectID, input.Actor, func(p *domain.Project, now time.Time) (string, error) {
		if err := requireTransition(p, domain.StatusPaused, domain.StatusInProgress); err != nil {
			return "", err
		}
		if !p.IsAssignedTo(input.Actor) {
			return "", domain.ErrNotAssignedMember
		}

		if i := p.LastOpenPause(); i >= 0 {
			end := now
			p.RecordedPauses[i].End = &end
		}
		p.Status = domain.StatusInProgress
		return "", nil
	})
}

// Complete concludes an in-progress project.
func (s *ProjectService) Complete(ctx context.Context, input ports.ActorInput) (*domain.Project, error) {
	return s.apply(ctx, "complete", domain.EventProjectCompleted, input.ProjectID, input.Actor, func(p *domain.Project, now time.Time) (string, error) {
		if err := requireTransition(p, domain.StatusInProgress, domain.StatusCompleted); err != nil {
			return "", err
		}
		p.Status = domain.StatusCompleted
		p.ConcludedAt = &now
		return "", nil
	})
}
