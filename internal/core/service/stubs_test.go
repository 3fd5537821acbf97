package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProjectRepo struct {
	byID      map[string]*domain.Project
	createErr error
	updateErr error // if set, Update returns this error
	listErr   error
	updates   int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[p.ID] = p.Clone()
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok || p.DeletedAt != nil {
		return nil, domain.ErrProjectNotFound
	}
	return p.Clone(), nil
}

// Update mirrors the version compare-and-swap of the real stores.
func (r *stubProjectRepo) Update(_ context.Context, p *domain.Project, expectedVersion int64) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[p.ID]
	if !ok || stored.DeletedAt != nil || stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	r.byID[p.ID] = p.Clone()
	r.updates++
	return nil
}

func (r *stubProjectRepo) List(_ context.Context, f ports.ProjectFilter) ([]*domain.Project, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []*domain.Project
	for _, p := range r.byID {
		if p.DeletedAt != nil {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Urgency != "" && string(p.Urgency) != f.Urgency {
			continue
		}
		if f.Sector != "" && p.Sector != f.Sector {
			continue
		}
		matched = append(matched, p.Clone())
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].CreatedAt, matched[j].CreatedAt
		if f.SortBy == ports.SortByUpdatedAt {
			a, b = matched[i].UpdatedAt, matched[j].UpdatedAt
		}
		if f.SortDesc {
			return a.After(b)
		}
		return a.Before(b)
	})

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Project{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

type stubActorRepo struct {
	byReg   map[int64]*domain.Actor
	findErr error
}

func newStubActorRepo(actors ...domain.Actor) *stubActorRepo {
	r := &stubActorRepo{byReg: make(map[int64]*domain.Actor)}
	for _, a := range actors {
		a := a
		r.byReg[a.Registration] = &a
	}
	return r
}

func (r *stubActorRepo) FindByRegistration(_ context.Context, reg int64) (*domain.Actor, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byReg[reg]
	if !ok {
		return nil, domain.ErrActorNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubActorRepo) Upsert(_ context.Context, a *domain.Actor) error {
	clone := *a
	r.byReg[a.Registration] = &clone
	return nil
}

type stubTeamRepo struct {
	byID map[string]*domain.TeamMember
}

func newStubTeamRepo(members ...domain.TeamMember) *stubTeamRepo {
	r := &stubTeamRepo{byID: make(map[string]*domain.TeamMember)}
	for _, m := range members {
		m := m
		if m.ID == "" {
			m.ID = fmt.Sprintf("member-%d", m.Registration)
		}
		r.byID[m.ID] = &m
	}
	return r
}

func (r *stubTeamRepo) FindByID(_ context.Context, id string) (*domain.TeamMember, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTeamMemberNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubTeamRepo) FindByRegistration(_ context.Context, reg int64) (*domain.TeamMember, error) {
	for _, m := range r.byID {
		if m.Registration == reg {
			clone := *m
			return &clone, nil
		}
	}
	return nil, domain.ErrTeamMemberNotFound
}

func (r *stubTeamRepo) ExistsByRegistration(ctx context.Context, reg int64) (bool, error) {
	_, err := r.FindByRegistration(ctx, reg)
	return err == nil, nil
}

func (r *stubTeamRepo) List(_ context.Context) ([]*domain.TeamMember, error) {
	var out []*domain.TeamMember
	for _, m := range r.byID {
		clone := *m
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTeamRepo) Create(_ context.Context, m *domain.TeamMember) error {
	for _, existing := range r.byID {
		if existing.Registration == m.Registration {
			return domain.ErrTeamMemberExists
		}
	}
	clone := *m
	r.byID[m.ID] = &clone
	return nil
}

func (r *stubTeamRepo) Update(_ context.Context, m *domain.TeamMember) error {
	if _, ok := r.byID[m.ID]; !ok {
		return domain.ErrTeamMemberNotFound
	}
	clone := *m
	r.byID[m.ID] = &clone
	return nil
}

func (r *stubTeamRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTeamMemberNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubApproverRepo struct {
	byID map[string]*domain.Approver
}

func newStubApproverRepo(approvers ...domain.Approver) *stubApproverRepo {
	r := &stubApproverRepo{byID: make(map[string]*domain.Approver)}
	for _, a := range approvers {
		a := a
		r.byID[a.ID] = &a
	}
	return r
}

func (r *stubApproverRepo) FindByID(_ context.Context, id string) (*domain.Approver, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrApproverNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubApproverRepo) FindByRegistration(_ context.Context, reg int64) (*domain.Approver, error) {
	for _, a := range r.byID {
		if a.Registration == reg {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrApproverNotFound
}

func (r *stubApproverRepo) List(_ context.Context, activeOnly bool) ([]*domain.Approver, error) {
	var out []*domain.Approver
	for _, a := range r.byID {
		if activeOnly && !a.Active {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubApproverRepo) Create(_ context.Context, a *domain.Approver) error {
	for _, existing := range r.byID {
		if existing.Registration == a.Registration {
			return domain.ErrApproverExists
		}
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubApproverRepo) Update(_ context.Context, a *domain.Approver) error {
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrApproverNotFound
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Stub collaborators
// ---------------------------------------------------------------------------

type recordingSink struct {
	mu     sync.Mutex
	events []domain.ProjectEvent
}

func (s *recordingSink) Enqueue(e domain.ProjectEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EventType, len(s.events))
	for i, e := range s.events {
		out[i] = e.Type
	}
	return out
}

type stubIdempotency struct {
	keys        map[string]string // key -> project id ("" while pending)
	reserveErr  error
	completeErr error
	released    []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Reserve(_ context.Context, key string) (string, bool, error) {
	if s.reserveErr != nil {
		return "", false, s.reserveErr
	}
	if id, ok := s.keys[key]; ok {
		return id, false, nil
	}
	s.keys[key] = ""
	return "", true, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key, projectID string) error {
	if s.completeErr != nil {
		return s.completeErr
	}
	s.keys[key] = projectID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	delete(s.keys, key)
	s.released = append(s.released, key)
	return nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

const (
	regRequester   int64 = 10
	regApprover    int64 = 20
	regInactive    int64 = 21
	regEstimator   int64 = 30
	regMember      int64 = 42
	regTeamAdmin   int64 = 50
	regProfileOnly int64 = 51
	regOutsider    int64 = 99
)

type fixture struct {
	projects  *stubProjectRepo
	actors    *stubActorRepo
	team      *stubTeamRepo
	approvers *stubApproverRepo
	sink      *recordingSink
	idem      *stubIdempotency
	svc       *ProjectService
	identity  *IdentityService
	approval  *ApproverPolicy
	teamAdmin *TeamAdminPolicy
	gate      *PermissionGate
}

func newFixture() *fixture {
	f := &fixture{
		projects: newStubProjectRepo(),
		actors: newStubActorRepo(
			domain.Actor{Registration: regRequester, Name: "Ana Requester", Username: "ana", Sector: "PRODUCAO", Function: "OPERADOR"},
			domain.Actor{Registration: regApprover, Name: "Bruno Approver", Username: "bruno", Sector: "GERENCIA", Function: "GERENTE"},
			domain.Actor{Registration: regInactive, Name: "Carla Inactive", Username: "carla", Sector: "GERENCIA", Function: "GERENTE"},
			domain.Actor{Registration: regMember, Name: "Diego Member", Username: "diego", Sector: "AUTOMACAO", Function: "TECNICO", Level: "PLENO"},
			domain.Actor{Registration: regOutsider, Name: "Eva Outsider", Username: "eva", Sector: "RH", Function: "ANALISTA"},
			domain.Actor{Registration: regEstimator, Name: "Fabio Estimator", Username: "fabio", Sector: "automacao", Function: "analista"},
			domain.Actor{Registration: regTeamAdmin, Name: "Gina Admin", Username: "gina", Sector: "AUTOMACAO", Function: "COORDENADOR", Level: "SENIOR"},
			domain.Actor{Registration: regProfileOnly, Name: "Hugo Profile", Username: "hugo", Sector: "AUTOMACAO", Function: "COORDENADOR", Level: "SENIOR"},
		),
		team: newStubTeamRepo(
			domain.TeamMember{ID: "member-42", Registration: regMember, Name: "Diego Member", Role: "TECNICO"},
			domain.TeamMember{ID: "member-50", Registration: regTeamAdmin, Name: "Gina Admin", Role: "COORDENADOR"},
		),
		approvers: newStubApproverRepo(
			domain.Approver{ID: "approver-20", Registration: regApprover, Name: "Bruno Approver", Active: true},
			domain.Approver{ID: "approver-21", Registration: regInactive, Name: "Carla Inactive", Active: false},
		),
		sink: &recordingSink{},
		idem: newStubIdempotency(),
	}

	table := permission.Default()
	f.identity = NewIdentityService(f.actors, f.team, discardLogger)
	f.approval = NewApproverPolicy(f.approvers, f.identity, table, discardLogger)
	f.teamAdmin = NewTeamAdminPolicy(f.identity, table, discardLogger)
	f.gate = NewPermissionGate(f.identity, table, discardLogger)
	f.svc = NewProjectService(f.projects, f.identity, f.team, f.approval, f.gate, discardLogger,
		WithEvents(f.sink),
		WithIdempotency(f.idem),
		WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

// seed stores a project in the given state and returns its id.
func (f *fixture) seed(status domain.ProjectStatus, mutate ...func(*domain.Project)) string {
	p := &domain.Project{
		ID:                    "p-" + string(status),
		Name:                  "Conveyor sensor",
		Sector:                "PRODUCAO",
		Type:                  domain.TypeProcessAutomation,
		Urgency:               domain.UrgencyLow,
		Tags:                  []string{},
		ExpectedGains:         []string{},
		Pictures:              []string{},
		RecordedPauses:        []domain.PauseRecord{},
		Status:                status,
		EstimatedDurationTime: domain.ZeroDuration,
		RequestedBy:           regRequester,
		Version:               1,
		CreatedAt:             fixedNow.Add(-time.Hour),
		UpdatedAt:             fixedNow.Add(-time.Hour),
	}
	for _, m := range mutate {
		m(p)
	}
	f.projects.byID[p.ID] = p
	return p.ID
}

func withEstimate(d string) func(*domain.Project) {
	return func(p *domain.Project) { p.EstimatedDurationTime = domain.EstimatedDuration(d) }
}

func assignedTo(reg int64) func(*domain.Project) {
	return func(p *domain.Project) {
		p.AutomationTeam = &domain.AssignedTeam{MemberID: "member-42", Registration: reg, Name: "Diego Member"}
	}
}
