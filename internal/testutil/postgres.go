// Package testutil provides a shared PostgreSQL database for integration tests
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/trait-inventory/internal/store/schema"
)

var (
	once        sync.Once
	sharedDB    *gorm.DB
	pgContainer *postgres.PostgresContainer
	startErr    error
)

// DB returns the shared test database, starting it on first use.
// The test is skipped when neither TEST_DB_HOST nor a Docker daemon is available.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	if os.Getenv("TEST_DB_HOST") == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	once.Do(func() {
		sharedDB, startErr = startRecovered(context.Background(), start)
	})
	if startErr != nil {
		t.Skipf("database unavailable: %v", startErr)
	}
	return sharedDB
}

// Terminate stops the container started by DB, if any
func Terminate() {
	if pgContainer == nil {
		return
	}
	if err := pgContainer.Terminate(context.Background()); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

// startRecovered runs fn and turns a panic into an error. testcontainers panics
// when it cannot locate a Docker host.
func startRecovered(ctx context.Context, fn func(context.Context) (*gorm.DB, error)) (db *gorm.DB, err error) {
	defer func() {
		if r := recover(); r != nil {
			db, err = nil, fmt.Errorf("failed to start database: %v", r)
		}
	}()
	return fn(ctx)
}

func start(ctx context.Context) (*gorm.DB, error) {
	dsn, err := dataSource(ctx)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// dataSource uses an external database when TEST_DB_HOST is set, otherwise starts a container
func dataSource(ctx context.Context) (string, error) {
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host,
			envOr("TEST_DB_PORT", "5432"),
			envOr("TEST_DB_USER", "postgres"),
			envOr("TEST_DB_PASSWORD", "postgres"),
			envOr("TEST_DB_NAME", "test_db"),
		), nil
	}

	var err error
	pgContainer, err = postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		pgContainer = nil
		return "", fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		Terminate()
		return "", fmt.Errorf("failed to get connection string: %w", err)
	}
	return dsn, nil
}

func initializeSchema(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	_, file, _, _ := runtime.Caller(0)
	schemaPath := filepath.Join(filepath.Dir(file), "..", "..", "db", "init_pg_db.sql")
	schemaSQL, err := os.ReadFile(schemaPath) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := sqlDB.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Reset empties every table. Tests that commit through the store call it first.
func Reset(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE TABLE purchases, reservations, traits CASCADE").Error
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// TraitFixture describes a catalog row to insert. A nil Supply makes the trait unlimited.
type TraitFixture struct {
	Name     string
	Supply   *int
	Inactive bool
	Price    string
}

// InsertTrait inserts a trait and returns its ID
func InsertTrait(t *testing.T, db *gorm.DB, f TraitFixture) string {
	t.Helper()

	price := decimal.Zero
	if f.Price != "" {
		price = decimal.RequireFromString(f.Price)
	}
	name := f.Name
	if name == "" {
		name = "trait"
	}

	trait := schema.Trait{
		ID:          uuid.NewString(),
		Name:        name,
		TotalSupply: f.Supply,
		Active:      !f.Inactive,
		PriceAmount: price,
		TokenID:     "So11111111111111111111111111111111111111112",
	}
	if f.Supply != nil {
		trait.RemainingSupply = *f.Supply
	}

	// Select keeps gorm from skipping the zero-valued active column in favour of its default
	if err := db.Select("*").Create(&trait).Error; err != nil {
		t.Fatalf("failed to insert trait: %v", err)
	}
	return trait.ID
}

// Supply returns a pointer to n for TraitFixture.Supply
func Supply(n int) *int {
	return &n
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
