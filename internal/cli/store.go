package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/automation-hub/project-requests/internal/core/ports"
	"github.com/automation-hub/project-requests/internal/infrastructure/config"
	mongostore "github.com/automation-hub/project-requests/internal/infrastructure/db/mongo"
	sqlitestore "github.com/automation-hub/project-requests/internal/infrastructure/db/sqlite"
	"github.com/automation-hub/project-requests/internal/infrastructure/http/handlers"
)

// stores bundles the repositories of the configured driver.
type stores struct {
	projects  ports.ProjectRepository
	approvers ports.ApproverRepository
	team      ports.TeamMemberRepository
	actors    ports.ActorRepository

	checks  map[string]handlers.Check
	closers []func(context.Context) error
}

func (s *stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

// openStores connects to the driver selected by STORE_DRIVER.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("sqlite store ready")
		return &stores{
			projects:  sqlitestore.NewProjectRepository(db),
			approvers: sqlitestore.NewApproverRepository(db),
			team:      sqlitestore.NewTeamMemberRepository(db),
			actors:    sqlitestore.NewActorRepository(db),
			checks:    map[string]handlers.Check{"sqlite": handlers.SQLCheck(db)},
			closers:   []func(context.Context) error{func(context.Context) error { return db.Close() }},
		}, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = mongostore.Disconnect(ctx, client)
			return nil, err
		}
		disconnect := func(ctx context.Context) error { return mongostore.Disconnect(ctx, client) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
		return &stores{
			projects:  mongostore.NewProjectRepository(db),
			approvers: mongostore.NewApproverRepository(db),
			team:      mongostore.NewTeamMemberRepository(db),
			actors:    mongostore.NewActorRepository(db),
			checks:    map[string]handlers.Check{"mongo": handlers.MongoCheck(db)},
			closers:   []func(context.Context) error{disconnect},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
