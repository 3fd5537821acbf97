package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/automation-hub/project-requests/internal/core/domain"
	"github.com/automation-hub/project-requests/internal/core/permission"
	mongostore "github.com/automation-hub/project-requests/internal/infrastructure/db/mongo"
	sqlitestore "github.com/automation-hub/project-requests/internal/infrastructure/db/sqlite"
)

func newIndexesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer mongostore.Disconnect(ctx, client)

			if err := mongostore.EnsureIndexes(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexes ensured on %s\n", a.cfg.Mongo.Database)
			return nil
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQLite migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := sqlitestore.Open(ctx, a.cfg.SQLite.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := sqlitestore.SchemaVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s at schema version %d\n", a.cfg.SQLite.Path, v)
			return nil
		},
	}
}

func newActorsCmd(a *app) *cobra.Command {
	actors := &cobra.Command{
		Use:   "actors",
		Short: "Manage the local copy of the actor registry",
	}

	var (
		actor        domain.Actor
		registration string
	)
	upsert := &cobra.Command{
		Use:   "upsert",
		Short: "Create or replace an actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := domain.ParseRegistration(registration)
			if err != nil {
				return err
			}
			if actor.Name == "" {
				return errors.New("--name is required")
			}
			actor.Registration = reg
			actor.UpdatedAt = time.Now().UTC()

			ctx := cmd.Context()
			st, err := openStores(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.actors.Upsert(ctx, &actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "actor %d saved\n", reg)
			return nil
		},
	}
	upsert.Flags().StringVar(&registration, "registration", "", "actor registration number")
	upsert.Flags().StringVar(&actor.Name, "name", "", "full name")
	upsert.Flags().StringVar(&actor.Username, "username", "", "login name")
	upsert.Flags().StringVar(&actor.Sector, "sector", "", "sector label")
	upsert.Flags().StringVar(&actor.Function, "function", "", "function (role) label")
	upsert.Flags().StringVar(&actor.Level, "level", "", "seniority level")
	_ = upsert.MarkFlagRequired("registration")

	actors.AddCommand(upsert)
	return actors
}

// permissionsDump is the resolved table as printed by "projectd permissions".
type permissionsDump struct {
	TeamAdmin permission.TeamAdminRule   `yaml:"team_admin"`
	Actions   map[string]permission.Rule `yaml:"actions"`
}

func newPermissionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "Print the resolved action permission table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := permission.Load(a.cfg.PermissionsFile)
			if err != nil {
				return err
			}

			dump := permissionsDump{
				TeamAdmin: table.TeamAdmin(),
				Actions:   make(map[string]permission.Rule),
			}
			for _, action := range table.Actions() {
				rule, _ := table.Rule(action)
				dump.Actions[action] = rule
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(dump)
		},
	}
}
