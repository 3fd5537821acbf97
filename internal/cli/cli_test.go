package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlitestore "github.com/automation-hub/project-requests/internal/infrastructure/db/sqlite"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.db")
	t.Setenv("ENV", "development")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", path)
	return path
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "indexes", "migrate", "actors", "permissions"})
}

func TestPermissionsCmd_PrintsDefaultTable(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("PERMISSIONS_FILE", "")

	out := run(t, "permissions")

	assert.Contains(t, out, "team_admin:")
	assert.Contains(t, out, "delete_project:")
	assert.Contains(t, out, "AUTOMACAO")
}

func TestMigrateCmd_ReportsSchemaVersion(t *testing.T) {
	path := sqliteEnv(t)

	out := run(t, "migrate")

	assert.Contains(t, out, path)
	assert.Contains(t, out, "schema version 1")
}

func TestActorsUpsertCmd_WritesSQLiteStore(t *testing.T) {
	path := sqliteEnv(t)

	out := run(t, "actors", "upsert",
		"--registration", "1001",
		"--name", "Ana Souza",
		"--username", "asouza",
		"--sector", "AUTOMACAO",
		"--function", "ANALISTA",
		"--level", "SENIOR",
	)
	assert.Contains(t, out, "actor 1001 saved")

	ctx := context.Background()
	db, err := sqlitestore.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	actor, err := sqlitestore.NewActorRepository(db).FindByRegistration(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", actor.Name)
	assert.Equal(t, "ANALISTA", actor.Function)
}

func TestActorsUpsertCmd_RejectsBadRegistration(t *testing.T) {
	sqliteEnv(t)

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"actors", "upsert", "--registration", "abc", "--name", "x"})

	assert.Error(t, root.ExecuteContext(context.Background()))
}
