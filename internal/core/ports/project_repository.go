package ports

import (
	"context"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

// SortField is a whitelisted sort key for project listings.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// ProjectFilter carries all query parameters for listing projects.
// Soft-deleted projects are always excluded.
type ProjectFilter struct {
	Status   string    // optional
	Urgency  string    // optional
	Sector   string    // optional, exact match
	SortBy   SortField // created_at or updated_at
	SortDesc bool
	Page     int // 1-based
	Limit    int
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	// FindByID returns domain.ErrProjectNotFound for missing or soft-deleted projects.
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// Update replaces the stored project only while its version still equals
	// expectedVersion, and returns domain.ErrVersionConflict otherwise. p.Version must
	// already hold the new version.
	Update(ctx context.Context, p *domain.Project, expectedVersion int64) error
	// List returns a page of projects matching filter and the total count.
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, int64, error)
}
