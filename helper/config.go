package helper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v6"
)

const (
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
)

// Configuration is the top level configuration read from the process environment.
// Only the section of the selected backend is parsed, so a missing NEO4J_*
// variable is a startup failure for the neo4j backend and irrelevant otherwise.
type Configuration struct {
	Backend      string `env:"CASEGRAPH_BACKEND" envDefault:"neo4j"`
	EmbeddingDim int    `env:"EMBEDDING_DIM" envDefault:"3072"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	Graph     *GraphConfiguration
	Database  *DatabaseConfiguration
	Embedding *EmbeddingConfiguration
}

// EmbeddingConfiguration selects and configures the embedding provider.
type EmbeddingConfiguration struct {
	Provider string `env:"EMBEDDING_PROVIDER" envDefault:"azure"`

	AzureEndpoint   string `env:"AZURE_OPENAI_ENDPOINT"`
	AzureKey        string `env:"AZURE_OPENAI_KEY"`
	AzureAPIVersion string `env:"AZURE_OPENAI_EMBEDDING_API_VERSION" envDefault:"2024-02-01"`
	AzureDeployment string `env:"AZURE_OPENAI_EMBEDDING_DEPLOYMENT" envDefault:"text-embedding-3-large"`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-large"`
}

// NewConfiguration reads the configuration from the environment.
func NewConfiguration() (*Configuration, error) {
	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, NewError("parse configuration", err)
	}

	embedding := &EmbeddingConfiguration{}
	if err := env.Parse(embedding); err != nil {
		return nil, NewError("parse embedding configuration", err)
	}
	cfg.Embedding = embedding

	switch strings.ToLower(cfg.Backend) {
	case BackendNeo4j:
		graph, err := NewGraphConfiguration()
		if err != nil {
			return nil, err
		}
		cfg.Graph = graph
	case BackendPostgres:
		database, err := NewDatabaseConfiguration()
		if err != nil {
			return nil, err
		}
		cfg.Database = database
	default:
		return nil, NewError("parse configuration", fmt.Errorf("unsupported backend %q (use %q or %q)", cfg.Backend, BackendNeo4j, BackendPostgres))
	}
	cfg.Backend = strings.ToLower(cfg.Backend)

	return cfg, nil
}

// Level maps LogLevel to a slog.Level, defaulting to info.
func (c *Configuration) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
