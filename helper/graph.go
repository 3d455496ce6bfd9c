package helper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/caarlos0/env/v6"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphConfiguration holds the four Neo4j connection parameters.
// All of them are required.
type GraphConfiguration struct {
	URI      string `env:"NEO4J_URI,required,notEmpty"`
	Username string `env:"NEO4J_USERNAME,required,notEmpty"`
	Password string `env:"NEO4J_PASSWORD,required,notEmpty"`
	Database string `env:"NEO4J_DATABASE,required,notEmpty"`
}

// NewGraphConfiguration reads the Neo4j configuration from the environment.
func NewGraphConfiguration() (*GraphConfiguration, error) {
	config := &GraphConfiguration{}
	if err := env.Parse(config); err != nil {
		return nil, NewError("parse graph configuration", err)
	}
	return config, nil
}

// Graph owns the long lived Neo4j driver.
type Graph struct {
	Driver   neo4j.DriverWithContext
	Database string
	Logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewGraph creates the driver and verifies connectivity.
// The driver is closed again if the server cannot be reached.
func NewGraph(ctx context.Context, config *GraphConfiguration, logger *slog.Logger) (*Graph, error) {
	if config == nil {
		return nil, NewError("graph configuration validation", fmt.Errorf("graph configuration is nil"))
	}
	if logger == nil {
		logger = NewLogger(os.Stdout, slog.LevelInfo)
	}

	driver, err := neo4j.NewDriverWithContext(config.URI, neo4j.BasicAuth(config.Username, config.Password, ""))
	if err != nil {
		return nil, NewError("create neo4j driver", err)
	}

	err = driver.VerifyConnectivity(ctx)
	if err != nil {
		driver.Close(ctx)
		return nil, NewError("verify neo4j connectivity", err)
	}

	logger.Info("Neo4j datasource initialized", slog.String("uri", config.URI), slog.String("database", config.Database))

	return &Graph{
		Driver:   driver,
		Database: config.Database,
		Logger:   logger,
	}, nil
}

// ReadSession opens a read session on the configured database.
func (g *Graph) ReadSession(ctx context.Context) neo4j.SessionWithContext {
	return g.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.Database,
	})
}

// WriteSession opens a write session on the configured database.
func (g *Graph) WriteSession(ctx context.Context) neo4j.SessionWithContext {
	return g.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.Database,
	})
}

// Close closes the driver. Calling it more than once is safe.
func (g *Graph) Close(ctx context.Context) error {
	if g == nil || g.Driver == nil {
		return nil
	}
	g.closeOnce.Do(func() {
		g.closeErr = g.Driver.Close(ctx)
	})
	return g.closeErr
}
