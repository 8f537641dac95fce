package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/twin-calibration/internal/repository/sqldb"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
	Driver string
}

// SetupSQLite opens an in-memory SQLite database with the schema applied
func SetupSQLite(t *testing.T) *TestDB {
	t.Helper()

	db, err := sqldb.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := sqldb.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate sqlite: %v", err)
	}

	return &TestDB{DB: db, Logger: zap.NewNop(), Driver: sqldb.DriverSQLite}
}

// SetupPostgres connects to the test Postgres, skipping when it is not reachable
func SetupPostgres(t *testing.T) *TestDB {
	t.Helper()

	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "calibration_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	// Retry a few times in case the container is still starting
	var db *sqlx.DB
	var err error
	maxRetries := 3
	retryDelay := 200 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}
	if err != nil {
		t.Skipf("Postgres not available for integration tests: %v", err)
	}

	if err := sqldb.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate postgres: %v", err)
	}

	return &TestDB{DB: db, Logger: zap.NewNop(), Driver: sqldb.DriverPostgres}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup removes all calibrations
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "DELETE FROM calibrations")
	return err
}

// Wrap returns the store handle used by repositories
func (tdb *TestDB) Wrap() *sqldb.DB {
	return sqldb.NewDBForTest(tdb.DB, tdb.Logger)
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
