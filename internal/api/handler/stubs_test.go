package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

type stubProjectService struct {
	createFn   func(ctx context.Context, in ports.CreateProjectInput) (*ports.CreateProjectResult, error)
	getFn      func(ctx context.Context, id string) (*domain.Project, error)
	listFn     func(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error)
	updateFn   func(ctx context.Context, in ports.UpdateProjectInput) (*domain.Project, error)
	deleteFn   func(ctx context.Context, in ports.ActorInput) error
	approveFn  func(ctx context.Context, in ports.ReviewInput) (*domain.Project, error)
	rejectFn   func(ctx context.Context, in ports.ReviewInput) (*domain.Project, error)
	estimateFn func(ctx context.Context, in ports.EstimateInput) (*domain.Project, error)
	attendFn   func(ctx context.Context, in ports.AttendInput) (*domain.Project, error)
	pauseFn    func(ctx context.Context, in ports.PauseInput) (*domain.Project, error)
	resumeFn   func(ctx context.Context, in ports.ActorInput) (*domain.Project, error)
	completeFn func(ctx context.Context, in ports.ActorInput) (*domain.Project, error)
}

func (s *stubProjectService) CreateProject(ctx context.Context, in ports.CreateProjectInput) (*ports.CreateProjectResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) ListProjects(ctx context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubProjectService) UpdateProject(ctx context.Context, in ports.UpdateProjectInput) (*domain.Project, error) {
	return s.updateFn(ctx, in)
}

func (s *stubProjectService) DeleteProject(ctx context.Context, in ports.ActorInput) error {
	return s.deleteFn(ctx, in)
}

func (s *stubProjectService) Approve(ctx context.Context, in ports.ReviewInput) (*domain.Project, error) {
	return s.approveFn(ctx, in)
}

func (s *stubProjectService) Reject(ctx context.Context, in ports.ReviewInput) (*domain.Project, error) {
	return s.rejectFn(ctx, in)
}

func (s *stubProjectService) SetEstimate(ctx context.Context, in ports.EstimateInput) (*domain.Project, error) {
	return s.estimateFn(ctx, in)
}

func (s *stubProjectService) Attend(ctx context.Context, in ports.AttendInput) (*domain.Project, error) {
	return s.attendFn(ctx, in)
}

func (s *stubProjectService) Pause(ctx context.Context, in ports.PauseInput) (*domain.Project, error) {
	return s.pauseFn(ctx, in)
}

func (s *stubProjectService) Resume(ctx context.Context, in ports.ActorInput) (*domain.Project, error) {
	return s.resumeFn(ctx, in)
}

func (s *stubProjectService) Complete(ctx context.Context, in ports.ActorInput) (*domain.Project, error) {
	return s.completeFn(ctx, in)
}

type stubApproverService struct {
	listFn       func(ctx context.Context, activeOnly bool) ([]*domain.Approver, error)
	getFn        func(ctx context.Context, id string) (*domain.Approver, error)
	createFn     func(ctx context.Context, in ports.CreateApproverInput) (*domain.Approver, error)
	updateFn     func(ctx context.Context, in ports.UpdateApproverInput) (*domain.Approver, error)
	deactivateFn func(ctx context.Context, id string) (*domain.Approver, error)
}

func (s *stubApproverService) ListApprovers(ctx context.Context, activeOnly bool) ([]*domain.Approver, error) {
	return s.listFn(ctx, activeOnly)
}

func (s *stubApproverService) GetApprover(ctx context.Context, id string) (*domain.Approver, error) {
	return s.getFn(ctx, id)
}

func (s *stubApproverService) CreateApprover(ctx context.Context, in ports.CreateApproverInput) (*domain.Approver, error) {
	return s.createFn(ctx, in)
}

func (s *stubApproverService) UpdateApprover(ctx context.Context, in ports.UpdateApproverInput) (*domain.Approver, error) {
	return s.updateFn(ctx, in)
}

func (s *stubApproverService) DeactivateApprover(ctx context.Context, id string) (*domain.Approver, error) {
	return s.deactivateFn(ctx, id)
}

type stubTeamService struct {
	listFn   func(ctx context.Context) ([]*domain.TeamMember, error)
	getFn    func(ctx context.Context, id string) (*domain.TeamMember, error)
	createFn func(ctx context.Context, in ports.CreateTeamMemberInput) (*domain.TeamMember, error)
	updateFn func(ctx context.Context, in ports.UpdateTeamMemberInput) (*domain.TeamMember, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubTeamService) ListTeamMembers(ctx context.Context) ([]*domain.TeamMember, error) {
	return s.listFn(ctx)
}

func (s *stubTeamService) GetTeamMember(ctx context.Context, id string) (*domain.TeamMember, error) {
	return s.getFn(ctx, id)
}

func (s *stubTeamService) CreateTeamMember(ctx context.Context, in ports.CreateTeamMemberInput) (*domain.TeamMember, error) {
	return s.createFn(ctx, in)
}

func (s *stubTeamService) UpdateTeamMember(ctx context.Context, in ports.UpdateTeamMemberInput) (*domain.TeamMember, error) {
	return s.updateFn(ctx, in)
}

func (s *stubTeamService) DeleteTeamMember(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubResolver struct {
	identities map[int64]*domain.Identity
	err        error
}

func (s *stubResolver) Resolve(_ context.Context, reg int64) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.identities[reg]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	return id, nil
}

type stubApproverPolicy struct {
	approve, manage bool
	err             error
}

func (s *stubApproverPolicy) IsActiveApprover(context.Context, int64) (bool, error) {
	return s.approve, s.err
}

func (s *stubApproverPolicy) CanApproveProjects(context.Context, int64) (bool, error) {
	return s.approve, s.err
}

func (s *stubApproverPolicy) CanManageApprovers(context.Context, int64) (bool, error) {
	return s.manage, s.err
}

type stubTeamAdmin struct {
	admin bool
}

func (s *stubTeamAdmin) CanAdministerTeam(context.Context, int64) (bool, error) {
	return s.admin, nil
}

type stubPermissions struct {
	checkFn func(ctx context.Context, reg int64, action, requiredRole string) (bool, error)
}

func (s *stubPermissions) Check(ctx context.Context, reg int64, action, requiredRole string) (bool, error) {
	return s.checkFn(ctx, reg, action, requiredRole)
}

// newContext builds an echo context with the validator installed and, when reg is
// positive, the identity the Auth middleware would have set.
func newContext(method, target string, body io.Reader, reg int64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if reg > 0 {
		c.Set(ContextRegistration, reg)
	}
	return c, rec
}

// statusOf returns the HTTP status the central error handler would produce for err.
func statusOf(t *testing.T, err error) int {
	t.Helper()
	var de *domain.Error
	if errors.As(err, &de) {
		return de.StatusCode()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	t.Fatalf("unexpected error type %T: %v", err, err)
	return 0
}

func sampleProject(id string, status domain.ProjectStatus) *domain.Project {
	return &domain.Project{
		ID:          id,
		Name:        "Label printer",
		Sector:      "LOGISTICS",
		Type:        domain.TypeProcessAutomation,
		Urgency:     domain.UrgencyLow,
		Status:      status,
		RequestedBy: 1001,
		Version:     1,
	}
}
