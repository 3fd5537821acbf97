// Package cli wires configuration, storage and services into the projectd commands.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/automation-hub/project-requests/internal/infrastructure/config"
	"github.com/automation-hub/project-requests/pkg/logger"
)

var version = "dev"

// app is the state shared by every subcommand once PersistentPreRunE has run.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd creates the top-level "projectd" command and registers all subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "projectd",
		Short:   "Project request tracker service",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  !cfg.IsProduction(),
				Output:  cmd.ErrOrStderr(),
				Service: "projectd",
			})
			return nil
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(a),
		newIndexesCmd(a),
		newMigrateCmd(a),
		newActorsCmd(a),
		newPermissionsCmd(a),
	)
	return root
}
