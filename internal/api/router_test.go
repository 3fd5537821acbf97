package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/permission"
	"github.com/automation-hub/project-requests/internal/core/ports"
	"github.com/automation-hub/project-requests/internal/infrastructure/http/handlers"
)

type deleteOnlyProjects struct {
	ports.ProjectService
	deleted []string
}

func (s *deleteOnlyProjects) DeleteProject(_ context.Context, in ports.ActorInput) error {
	s.deleted = append(s.deleted, in.ProjectID)
	return nil
}

type allowList map[int64]bool

func (a allowList) Check(_ context.Context, reg int64, action, _ string) (bool, error) {
	return action == permission.ActionDeleteProject && a[reg], nil
}

func bearer(t *testing.T, registration string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"registration": registration,
		"username":     "tester",
		"exp":          time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

// The router registers Prometheus collectors on the default registry, so it is
// built once for all cases.
func TestRouter(t *testing.T) {
	projects := &deleteOnlyProjects{}
	e := NewRouter(RouterConfig{
		JWTSecret:   "secret",
		Log:         zerolog.Nop(),
		Projects:    projects,
		Permissions: allowList{1001: true},
		HealthChecks: map[string]handlers.Check{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		},
	})

	tests := []struct {
		name     string
		method   string
		path     string
		auth     string
		wantCode int
	}{
		{"liveness is public", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness reports degraded dependency", http.MethodGet, "/health/ready", "", http.StatusServiceUnavailable},
		{"metrics are public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"v1 requires a token", http.MethodGet, "/v1/me", "", http.StatusUnauthorized},
		{"delete denied by permission table", http.MethodDelete, "/v1/projects/p-1", bearer(t, "2002"), http.StatusForbidden},
		{"delete allowed by permission table", http.MethodDelete, "/v1/projects/p-2", bearer(t, "1001"), http.StatusNoContent},
		{"unknown route", http.MethodGet, "/v1/nothing-here", bearer(t, "1001"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}

	if len(projects.deleted) != 1 || projects.deleted[0] != "p-2" {
		t.Fatalf("expected only p-2 to be deleted, got %v", projects.deleted)
	}
}
