package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

func TestProjectHandler_Create_Success(t *testing.T) {
	stub := &stubProjectService{
		createFn: func(_ context.Context, in ports.CreateProjectInput) (*ports.CreateProjectResult, error) {
			if in.Actor != 1001 || in.Name != "Label printer" || in.Type != "process_automation" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.IdempotencyKey != "abc-123" {
				t.Fatalf("expected trimmed idempotency key, got %q", in.IdempotencyKey)
			}
			return &ports.CreateProjectResult{Project: sampleProject("p1", domain.StatusRequested)}, nil
		},
	}
	h := NewProjectHandler(stub)

	body := strings.NewReader(`{"name":"Label printer","sector":"LOGISTICS","type":"process_automation"}`)
	c, rec := newContext(http.MethodPost, "/v1/projects", body, 1001)
	c.Request().Header.Set("Idempotency-Key", "  abc-123 ")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "p1" || resp["status"] != "requested" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["estimated_duration_time"] != string(domain.ZeroDuration) {
		t.Fatalf("expected zero estimate, got %v", resp["estimated_duration_time"])
	}
	links, ok := resp["_links"].(map[string]any)
	if !ok || links["timeline"] != "/v1/projects/p1/timeline" {
		t.Fatalf("unexpected links: %+v", resp["_links"])
	}
	if tags, ok := resp["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("expected empty tags array, got %v", resp["tags"])
	}
}

func TestProjectHandler_Create_ReplayReturns200(t *testing.T) {
	stub := &stubProjectService{
		createFn: func(context.Context, ports.CreateProjectInput) (*ports.CreateProjectResult, error) {
			return &ports.CreateProjectResult{Project: sampleProject("p1", domain.StatusRequested), AlreadyExisted: true}, nil
		},
	}
	h := NewProjectHandler(stub)

	body := strings.NewReader(`{"name":"Label printer","sector":"LOGISTICS","type":"carpentry"}`)
	c, rec := newContext(http.MethodPost, "/v1/projects", body, 1001)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProjectHandler_Create_ValidationFails(t *testing.T) {
	stub := &stubProjectService{
		createFn: func(context.Context, ports.CreateProjectInput) (*ports.CreateProjectResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewProjectHandler(stub)

	body := strings.NewReader(`{"name":"x","sector":"LOGISTICS","type":"plumbing"}`)
	c, _ := newContext(http.MethodPost, "/v1/projects", body, 1001)

	err := h.Create(c)
	if got := statusOf(t, err); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
	if !strings.Contains(err.Error(), "type must be one of") {
		t.Fatalf("expected json field name in message, got %q", err.Error())
	}
}

func TestProjectHandler_Create_InvalidPayload(t *testing.T) {
	h := NewProjectHandler(&stubProjectService{})

	c, _ := newContext(http.MethodPost, "/v1/projects", strings.NewReader("not-json"), 1001)

	if got := statusOf(t, h.Create(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestProjectHandler_Create_MissingIdentity(t *testing.T) {
	h := NewProjectHandler(&stubProjectService{})

	body := strings.NewReader(`{"name":"Label printer","sector":"LOGISTICS","type":"carpentry"}`)
	c, _ := newContext(http.MethodPost, "/v1/projects", body, 0)

	if got := statusOf(t, h.Create(c)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}

func TestProjectHandler_List_PassesFilters(t *testing.T) {
	stub := &stubProjectService{
		listFn: func(_ context.Context, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
			if in.Status != "approved" || in.Page != 2 || in.Limit != 5 || in.Sort != "updated_at" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ListProjectsResult{
				Items:      []*domain.Project{sampleProject("p1", domain.StatusApproved)},
				Total:      6,
				Page:       2,
				Limit:      5,
				TotalPages: 2,
			}, nil
		},
	}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/projects?status=approved&page=2&limit=5&sort=updated_at", nil, 1001)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp listProjectsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination.TotalPages != 2 || resp.Pagination.Total != 6 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProjectHandler_List_BadPage(t *testing.T) {
	h := NewProjectHandler(&stubProjectService{})

	c, _ := newContext(http.MethodGet, "/v1/projects?page=two", nil, 1001)

	if got := statusOf(t, h.List(c)); got != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", got)
	}
}

func TestProjectHandler_Get_NotFound(t *testing.T) {
	stub := &stubProjectService{
		getFn: func(context.Context, string) (*domain.Project, error) {
			return nil, domain.ErrProjectNotFound
		},
	}
	h := NewProjectHandler(stub)

	c, _ := newContext(http.MethodGet, "/v1/projects/missing", nil, 1001)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if got := statusOf(t, h.Get(c)); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
}

func TestProjectHandler_Timeline(t *testing.T) {
	p := sampleProject("p1", domain.StatusApproved)
	p.Timeline = []domain.TimelineEntry{
		{Type: "created", To: domain.StatusRequested, Actor: 1001},
		{Type: "status_changed", From: domain.StatusRequested, To: domain.StatusApproved, Actor: 2002},
	}
	stub := &stubProjectService{
		getFn: func(context.Context, string) (*domain.Project, error) { return p, nil },
	}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/projects/p1/timeline", nil, 1001)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Timeline(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp timelineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ProjectID != "p1" || len(resp.Entries) != 2 || resp.Entries[1].Actor != 2002 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProjectHandler_Approve_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not approver", domain.ErrNotApprover, http.StatusForbidden},
		{"wrong state", domain.InvalidState("cannot transition from rejected to approved"), http.StatusBadRequest},
		{"conflict", domain.ErrVersionConflict, http.StatusConflict},
		{"missing", domain.ErrProjectNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubProjectService{
				approveFn: func(context.Context, ports.ReviewInput) (*domain.Project, error) {
					return nil, tc.err
				},
			}
			h := NewProjectHandler(stub)

			c, _ := newContext(http.MethodPost, "/v1/projects/p1/approve", strings.NewReader(`{}`), 2002)
			c.SetParamNames("id")
			c.SetParamValues("p1")

			if got := statusOf(t, h.Approve(c)); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestProjectHandler_Reject_ForwardsUrgency(t *testing.T) {
	stub := &stubProjectService{
		rejectFn: func(_ context.Context, in ports.ReviewInput) (*domain.Project, error) {
			if in.ProjectID != "p1" || in.Actor != 2002 || in.Urgency != "high" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleProject("p1", domain.StatusRejected), nil
		},
	}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/projects/p1/reject", strings.NewReader(`{"urgency":"high"}`), 2002)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Reject(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProjectHandler_SetEstimate_RequiresValue(t *testing.T) {
	h := NewProjectHandler(&stubProjectService{})

	c, _ := newContext(http.MethodPut, "/v1/projects/p1/estimate", strings.NewReader(`{}`), 2002)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if got := statusOf(t, h.SetEstimate(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestProjectHandler_Attend_ForwardsService(t *testing.T) {
	stub := &stubProjectService{
		attendFn: func(_ context.Context, in ports.AttendInput) (*domain.Project, error) {
			if in.Service != domain.ServiceAutomation || in.Actor != 3003 {
				t.Fatalf("unexpected input: %+v", in)
			}
			p := sampleProject("p1", domain.StatusInProgress)
			p.AutomationTeam = &domain.AssignedTeam{MemberID: "m1", Registration: 3003, Name: "Ana"}
			return p, nil
		},
	}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/projects/p1/attend", strings.NewReader(`{"service":"automation"}`), 3003)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Attend(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp projectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.AutomationTeam == nil || resp.AutomationTeam.Registration != 3003 {
		t.Fatalf("expected assigned team, got %+v", resp.AutomationTeam)
	}
}

func TestProjectHandler_Pause_NotAssigned(t *testing.T) {
	stub := &stubProjectService{
		pauseFn: func(context.Context, ports.PauseInput) (*domain.Project, error) {
			return nil, domain.ErrNotAssignedMember
		},
	}
	h := NewProjectHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/projects/p1/pause", strings.NewReader(`{"reason":"waiting parts"}`), 4004)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if got := statusOf(t, h.Pause(c)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}

func TestProjectHandler_ResumeAndComplete(t *testing.T) {
	var calls []string
	stub := &stubProjectService{
		resumeFn: func(_ context.Context, in ports.ActorInput) (*domain.Project, error) {
			calls = append(calls, "resume:"+in.ProjectID)
			return sampleProject(in.ProjectID, domain.StatusInProgress), nil
		},
		completeFn: func(_ context.Context, in ports.ActorInput) (*domain.Project, error) {
			calls = append(calls, "complete:"+in.ProjectID)
			return sampleProject(in.ProjectID, domain.StatusCompleted), nil
		},
	}
	h := NewProjectHandler(stub)

	c, _ := newContext(http.MethodPost, "/v1/projects/p1/resume", nil, 3003)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Resume(c); err != nil {
		t.Fatalf("resume: %v", err)
	}

	c, rec := newContext(http.MethodPost, "/v1/projects/p1/complete", nil, 3003)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Complete(c); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if strings.Join(calls, ",") != "resume:p1,complete:p1" {
		t.Fatalf("unexpected calls: %v", calls)
	}
	if !strings.Contains(rec.Body.String(), `"status":"completed"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProjectHandler_Delete(t *testing.T) {
	stub := &stubProjectService{
		deleteFn: func(_ context.Context, in ports.ActorInput) error {
			if in.ProjectID != "p1" || in.Actor != 1001 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	h := NewProjectHandler(stub)

	c, rec := newContext(http.MethodDelete, "/v1/projects/p1", nil, 1001)
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
