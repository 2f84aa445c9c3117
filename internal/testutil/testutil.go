package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"chesslens/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	d, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
