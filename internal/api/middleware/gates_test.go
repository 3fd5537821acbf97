package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/api/handler"
)

type stubChecker struct {
	allowed map[int64]bool
	err     error
	action  string
}

func (s *stubChecker) Check(_ context.Context, reg int64, action, _ string) (bool, error) {
	s.action = action
	return s.allowed[reg], s.err
}

type stubApproverPolicy struct{ managers map[int64]bool }

func (s stubApproverPolicy) IsActiveApprover(context.Context, int64) (bool, error)   { return false, nil }
func (s stubApproverPolicy) CanApproveProjects(context.Context, int64) (bool, error) { return false, nil }
func (s stubApproverPolicy) CanManageApprovers(_ context.Context, reg int64) (bool, error) {
	return s.managers[reg], nil
}

type stubTeamAdmin struct{ admins map[int64]bool }

func (s stubTeamAdmin) CanAdministerTeam(_ context.Context, reg int64) (bool, error) {
	return s.admins[reg], nil
}

func runGate(t *testing.T, mw echo.MiddlewareFunc, reg int64) (int, bool, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	if reg != 0 {
		c.Set(handler.ContextRegistration, reg)
	}

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec.Code, called, err
}

func TestRequirePermission(t *testing.T) {
	checker := &stubChecker{allowed: map[int64]bool{7: true}}
	mw := RequirePermission(checker, "delete_project", zerolog.Nop())

	code, called, err := runGate(t, mw, 7)
	if err != nil || !called || code != http.StatusOK {
		t.Fatalf("allowed actor: code=%d called=%v err=%v", code, called, err)
	}
	if checker.action != "delete_project" {
		t.Fatalf("checked wrong action %q", checker.action)
	}

	code, called, _ = runGate(t, mw, 8)
	if called || code != http.StatusForbidden {
		t.Fatalf("denied actor: expected 403, got %d (called=%v)", code, called)
	}
}

func TestRequirePermission_CheckerError(t *testing.T) {
	boom := errors.New("registry down")
	mw := RequirePermission(&stubChecker{err: boom}, "delete_project", zerolog.Nop())

	_, called, err := runGate(t, mw, 7)
	if called {
		t.Fatalf("next must not run on checker error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected checker error to propagate, got %v", err)
	}
}

func TestGates_MissingIdentity(t *testing.T) {
	mw := RequireTeamAdmin(stubTeamAdmin{}, zerolog.Nop())

	code, called, _ := runGate(t, mw, 0)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", code)
	}
}

func TestRequireApproverManager(t *testing.T) {
	mw := RequireApproverManager(stubApproverPolicy{managers: map[int64]bool{50: true}}, zerolog.Nop())

	if code, called, _ := runGate(t, mw, 50); !called || code != http.StatusOK {
		t.Fatalf("manager should pass, got %d", code)
	}
	if code, called, _ := runGate(t, mw, 51); called || code != http.StatusForbidden {
		t.Fatalf("non-manager should get 403, got %d", code)
	}
}

func TestRequireTeamAdmin(t *testing.T) {
	mw := RequireTeamAdmin(stubTeamAdmin{admins: map[int64]bool{50: true}}, zerolog.Nop())

	if code, called, _ := runGate(t, mw, 50); !called || code != http.StatusOK {
		t.Fatalf("team admin should pass, got %d", code)
	}
	if code, called, _ := runGate(t, mw, 42); called || code != http.StatusForbidden {
		t.Fatalf("non-admin should get 403, got %d", code)
	}
}
