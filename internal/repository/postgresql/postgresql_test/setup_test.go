package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/retailhr/hr-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var tables = []string{
	"comp_off_histories",
	"expenses",
	"salaries",
	"overtime_requests",
	"leave_histories",
	"leaves",
	"attendances",
	"holidays",
	"store_calendars",
	"employees",
	"stores",
}

// testDatabase connects to TEST_DATABASE_URL, applies the schema when it is
// missing and truncates every table. Tests are skipped without a database.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	var missing bool
	require.NoError(t, db.QueryRow(ctx, `SELECT to_regclass('public.stores') IS NULL`).Scan(&missing))
	if missing {
		schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "0001_init.sql"))
		require.NoError(t, err)
		_, err = db.Exec(ctx, string(schema))
		require.NoError(t, err)
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
	return db
}

func createStore(t *testing.T, db *database.DB, name string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO stores (name, late_entry_threshold, early_exit_threshold)
		VALUES ($1, 10, 10)
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createEmployee(t *testing.T, db *database.DB, name string, storeID *string, leaveDays float64) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO employees (name, email, store_id, leave_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, name+"@example.com", storeID, leaveDays).Scan(&id)
	require.NoError(t, err)
	return id
}
