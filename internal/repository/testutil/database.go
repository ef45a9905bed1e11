package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/posqa/posuite/internal/config"
	"github.com/posqa/posuite/internal/database"
)

// TestDatabase is a ledger database isolated in its own schema
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
}

// localDefaults fill in the connection of a developer Postgres
var localDefaults = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

func getenv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return localDefaults[key]
}

// SetupTestDatabase creates a schema with the ledger tables and drops it
// when the test finishes.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	pgConfig, err := config.LoadPostgresConfig(getenv)
	require.NoError(t, err, "load postgres config")

	admin, err := database.Open(pgConfig)
	require.NoError(t, err, "connect to postgres")

	schema := "ledger_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(fmt.Sprintf("CREATE SCHEMA %s", schema)); err != nil {
		admin.Close()
		t.Fatalf("failed to create schema %s: %v", schema, err)
	}

	td := &TestDatabase{SchemaName: schema}
	t.Cleanup(func() {
		if td.DB != nil {
			td.DB.Close()
		}
		if _, err := admin.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema)); err != nil {
			t.Logf("WARNING: failed to drop schema %s: %v", schema, err)
		}
		admin.Close()
	})

	td.DB, err = database.Open(pgConfig.WithSearchPath(schema))
	require.NoError(t, err, "connect to schema %s", schema)

	_, err = td.DB.Exec(database.Schema)
	require.NoError(t, err, "create ledger tables")

	return td
}
