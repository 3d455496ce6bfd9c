package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcneo4j "github.com/testcontainers/testcontainers-go/modules/neo4j"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabaseName     = "database"
	testDatabaseUser     = "user"
	testDatabasePassword = "password"
	testGraphPassword    = "password"
)

// MustStartPostgresContainer starts a pgvector enabled PostgreSQL container
// and returns its teardown function and mapped port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase(testDatabaseName),
		postgres.WithUsername(testDatabaseUser),
		postgres.WithPassword(testDatabasePassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("start postgres container", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", NewError("map postgres port", err)
	}

	return container.Terminate, port.Port(), nil
}

// MustStartNeo4jContainer starts a Neo4j 5 container and returns its
// teardown function and bolt url.
func MustStartNeo4jContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := tcneo4j.Run(
		ctx,
		"neo4j:5.26",
		tcneo4j.WithAdminPassword(testGraphPassword),
	)
	if err != nil {
		return nil, "", NewError("start neo4j container", err)
	}

	boltURL, err := container.BoltUrl(ctx)
	if err != nil {
		return container.Terminate, "", NewError("resolve neo4j bolt url", err)
	}

	return container.Terminate, boltURL, nil
}

// SetTestDatabaseConfigEnvs points the DB_* variables at a test container.
func SetTestDatabaseConfigEnvs(t *testing.T, dbPort string) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", dbPort)
	t.Setenv("DB_DATABASE", testDatabaseName)
	t.Setenv("DB_USERNAME", testDatabaseUser)
	t.Setenv("DB_PASSWORD", testDatabasePassword)
	t.Setenv("DB_SCHEMA", "public")
	t.Setenv("DB_SSLMODE", "disable")
}

// SetTestGraphConfigEnvs points the NEO4J_* variables at a test container.
func SetTestGraphConfigEnvs(t *testing.T, boltURL string) {
	t.Setenv("NEO4J_URI", boltURL)
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", testGraphPassword)
	t.Setenv("NEO4J_DATABASE", "neo4j")
}

// SkipWithoutContainer skips the test when its container could not be started.
func SkipWithoutContainer(t *testing.T, endpoint string) {
	t.Helper()
	if endpoint == "" {
		t.Skipf("Skipping %s: test container not available", t.Name())
	}
}
