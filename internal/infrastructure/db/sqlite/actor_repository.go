package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/automation-hub/project-requests/internal/core/domain"
)

type ActorRepository struct {
	db *sql.DB
}

func NewActorRepository(db *sql.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) FindByRegistration(ctx context.Context, registration int64) (*domain.Actor, error) {
	var (
		a         domain.Actor
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT registration, name, username, sector, function, level, updated_at FROM actors WHERE registration = ?`,
		registration,
	).Scan(&a.Registration, &a.Name, &a.Username, &a.Sector, &a.Function, &a.Level, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("scanning actor: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &a, nil
}

func (r *ActorRepository) Upsert(ctx context.Context, a *domain.Actor) error {
	query := `INSERT INTO actors (registration, name, username, sector, function, level, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(registration) DO UPDATE SET
			name = excluded.name, username = excluded.username, sector = excluded.sector,
			function = excluded.function, level = excluded.level, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		a.Registration, a.Name, a.Username, a.Sector, a.Function, a.Level, formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting actor: %w", err)
	}
	return nil
}
