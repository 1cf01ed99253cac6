package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
)

// setupTestDB creates a throwaway PostgreSQL database and returns its connection string.
// Tests skip when PostgreSQL is not reachable; set TEST_DB_* to point at a server.
func setupTestDB(t *testing.T, testName string) (connStr string, cleanup func()) {
	t.Helper()

	host := getEnvOrDefault("TEST_DB_HOST", "localhost")
	port := getEnvOrDefault("TEST_DB_PORT", "5432")
	user := getEnvOrDefault("TEST_DB_USER", "postgres")
	password := getEnvOrDefault("TEST_DB_PASSWORD", "postgres")

	dbName := fmt.Sprintf("test_%s_%d", testName, time.Now().UnixNano())

	adminConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		host, port, user, password)

	adminDB, err := sql.Open("postgres", adminConnStr)
	if err != nil {
		t.Skipf("Could not connect to PostgreSQL for testing: %v", err)
	}
	defer adminDB.Close()

	if err := adminDB.Ping(); err != nil {
		t.Skipf("Could not ping PostgreSQL for testing: %v", err)
	}

	if _, err := adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		t.Skipf("Could not create test database: %v", err)
	}

	testConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)

	cleanup = func() {
		adminDB, err := sql.Open("postgres", adminConnStr)
		if err != nil {
			return
		}
		defer adminDB.Close()

		adminDB.Exec(fmt.Sprintf("SELECT pg_terminate_backend(pg_stat_activity.pid) FROM pg_stat_activity WHERE pg_stat_activity.datname = '%s'", dbName))
		adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	}

	return testConnStr, cleanup
}

// setupTestDatabase returns a migrated database that is dropped when the test ends
func setupTestDatabase(t *testing.T, testName string) *DB {
	t.Helper()

	connStr, dbCleanup := setupTestDB(t, testName)
	ctx := context.Background()

	db, err := New(ctx, connStr, testLogger())
	if err != nil {
		dbCleanup()
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		dbCleanup()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		dbCleanup()
	})
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
