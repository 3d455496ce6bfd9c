package database

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/siherrmann/casegraph/helper"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	dbPort  string
	boltURL string
)

func TestMain(m *testing.M) {
	var teardownPostgres, teardownNeo4j func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error

	teardownPostgres, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Printf("error starting postgres container, postgres tests will be skipped: %v", err)
	}

	teardownNeo4j, boltURL, err = helper.MustStartNeo4jContainer()
	if err != nil {
		log.Printf("error starting neo4j container, neo4j tests will be skipped: %v", err)
	}

	code := m.Run()

	for _, teardown := range []func(ctx context.Context, opts ...testcontainers.TerminateOption) error{teardownPostgres, teardownNeo4j} {
		if teardown != nil {
			if err := teardown(context.Background()); err != nil {
				log.Printf("error tearing down container: %v", err)
			}
		}
	}
	os.Exit(code)
}

func initDB(t *testing.T) *helper.Database {
	helper.SkipWithoutContainer(t, dbPort)
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	return helper.NewTestDatabase(dbConfig)
}

// initStore returns an empty postgres store with 3 dimensional embeddings.
func initStore(t *testing.T) *PostgresStore {
	database := initDB(t)
	store, err := NewPostgresStore(database, 3, true)
	require.NoError(t, err, "Expected NewPostgresStore to not return an error")

	_, err = database.Instance.Exec(`TRUNCATE nodes, keywords, node_keywords RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Expected truncate to not return an error")

	t.Cleanup(func() { database.Close() })
	return store
}

// initGraph returns a handler on an empty neo4j database.
func initGraph(t *testing.T) *GraphDBHandler {
	helper.SkipWithoutContainer(t, boltURL)
	helper.SetTestGraphConfigEnvs(t, boltURL)
	config, err := helper.NewGraphConfiguration()
	require.NoError(t, err, "failed to create graph configuration")

	ctx := context.Background()
	graph, err := helper.NewGraph(ctx, config, nil)
	require.NoError(t, err, "Expected NewGraph to not return an error")

	handler, err := NewGraphDBHandler(graph)
	require.NoError(t, err)
	require.NoError(t, handler.CreateConstraints(ctx))

	session := graph.WriteSession(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, `MATCH (n) DETACH DELETE n`, nil)
	require.NoError(t, err)
	_, err = result.Consume(ctx)
	require.NoError(t, err)

	t.Cleanup(func() { handler.Close(context.Background()) })
	return handler
}
