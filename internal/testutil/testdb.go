package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/db"
)

// NewTestDB opens a migrated in-memory database holding the chat, dialogue,
// analytics and progress tables. It is closed when t ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err, "open in-memory database")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW groups chat turn and session clear writes on database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
