package casegraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/casegraph/core/embedding"
	"github.com/siherrmann/casegraph/core/ingest"
	"github.com/siherrmann/casegraph/core/retrieval"
	"github.com/siherrmann/casegraph/core/tools"
	"github.com/siherrmann/casegraph/database"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
)

// Store is a graph store that can be searched and written to.
type Store interface {
	retrieval.Store
	ingest.NodeWriter
}

// CaseGraph wires a graph store, an embedding provider, the retrieval engine
// and the agent tools together.
type CaseGraph struct {
	Config   *helper.Configuration
	Store    Store
	Graph    *database.GraphDBHandler // Set for the neo4j backend
	Postgres *database.PostgresStore  // Set for the postgres backend
	Engine   *retrieval.Engine
	Pipeline *ingest.Pipeline
	// Logging
	log *slog.Logger
}

// NewCaseGraph connects to the configured backend and creates the retrieval engine.
// An embedder has to be set before semantic search or ingestion.
func NewCaseGraph(cfg *helper.Configuration, options ...retrieval.EngineOption) (*CaseGraph, error) {
	if cfg == nil {
		return nil, helper.NewError("configuration validation", fmt.Errorf("configuration is nil"))
	}

	logger := helper.NewLogger(os.Stdout, cfg.Level())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g := &CaseGraph{
		Config: cfg,
		log:    logger,
	}

	switch cfg.Backend {
	case helper.BackendNeo4j:
		graph, err := helper.NewGraph(ctx, cfg.Graph, logger)
		if err != nil {
			return nil, helper.NewError("connect graph", err)
		}
		handler, err := database.NewGraphDBHandler(graph)
		if err != nil {
			graph.Close(ctx)
			return nil, helper.NewError("create graph handler", err)
		}
		g.Graph = handler
		g.Store = handler
	case helper.BackendPostgres:
		db, err := helper.NewDatabase("casegraph", cfg.Database, logger)
		if err != nil {
			return nil, helper.NewError("connect database", err)
		}
		store, err := database.NewPostgresStore(db, cfg.EmbeddingDim, false)
		if err != nil {
			db.Close()
			return nil, helper.NewError("create postgres store", err)
		}
		g.Postgres = store
		g.Store = store
	default:
		return nil, helper.NewError("select backend", fmt.Errorf("unsupported backend %q", cfg.Backend))
	}

	options = append([]retrieval.EngineOption{retrieval.WithLogger(logger)}, options...)
	g.Engine = retrieval.NewEngine(g.Store, nil, options...)

	return g, nil
}

// NewCaseGraphWithStore creates a CaseGraph on an already opened store.
func NewCaseGraphWithStore(store Store, logger *slog.Logger, options ...retrieval.EngineOption) (*CaseGraph, error) {
	if store == nil {
		return nil, helper.NewError("store validation", fmt.Errorf("store is nil"))
	}
	if logger == nil {
		logger = helper.NewLogger(os.Stdout, slog.LevelInfo)
	}

	options = append([]retrieval.EngineOption{retrieval.WithLogger(logger)}, options...)

	return &CaseGraph{
		Store:  store,
		Engine: retrieval.NewEngine(store, nil, options...),
		log:    logger,
	}, nil
}

// Close closes the store connection
func (g *CaseGraph) Close(ctx context.Context) error {
	if g.Engine == nil {
		return nil
	}
	return g.Engine.Close(ctx)
}

// SetEmbedder sets the embedding provider used for queries and ingestion.
func (g *CaseGraph) SetEmbedder(embed embedding.EmbedFunc) {
	g.Engine.SetEmbedder(embed)
	g.Pipeline = ingest.NewPipeline(ingest.WholeChunker(), embed, g.log)
}

// UseDefaultEmbedder sets up the local all-MiniLM-L6-v2 embedder (384 dimensions).
func (g *CaseGraph) UseDefaultEmbedder() error {
	embed, err := embedding.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	g.SetEmbedder(embed)
	return nil
}

// UseOpenAIEmbedder sets up the Azure OpenAI or OpenAI embedder from the configuration.
func (g *CaseGraph) UseOpenAIEmbedder() error {
	if g.Config == nil || g.Config.Embedding == nil {
		return helper.NewError("create openai embedder", fmt.Errorf("embedding configuration not set"))
	}
	embed, err := embedding.NewOpenAIEmbedder(g.Config.Embedding)
	if err != nil {
		return helper.NewError("create openai embedder", err)
	}
	g.SetEmbedder(embed)
	return nil
}

// SetPipeline replaces the ingestion pipeline, for example to chunk long documents.
func (g *CaseGraph) SetPipeline(pipeline *ingest.Pipeline) {
	g.Pipeline = pipeline
}

// SemanticSearch embeds query and returns the formatted matches.
func (g *CaseGraph) SemanticSearch(ctx context.Context, query string, config *model.SearchConfig) (*model.FormattedResult, error) {
	return g.Engine.SemanticSearch(ctx, query, config)
}

// KeywordSearch returns the raw records matching the most keywords.
func (g *CaseGraph) KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error) {
	return g.Engine.KeywordSearch(ctx, keywords, topK)
}

// Tools returns the agent tools backed by this CaseGraph.
func (g *CaseGraph) Tools() *tools.Registry {
	return tools.NewRegistry(g.Engine)
}

// Ingest embeds nodes and writes them with their keywords to the store.
// Returns the number of nodes written.
func (g *CaseGraph) Ingest(ctx context.Context, nodes []*model.Node) (int, error) {
	if g.Pipeline == nil {
		return 0, helper.NewError("ingest", fmt.Errorf("pipeline not set, use SetEmbedder() first"))
	}

	if g.Graph != nil {
		if err := g.Graph.CreateConstraints(ctx); err != nil {
			return 0, helper.NewError("ingest", err)
		}
	}

	return g.Pipeline.Ingest(ctx, g.Store, nodes)
}

// ChangeIndexType changes the vector index of the postgres backend.
func (g *CaseGraph) ChangeIndexType(ctx context.Context, indexType string, params map[string]int) error {
	if g.Postgres == nil {
		return helper.NewError("change index type", fmt.Errorf("vector index is only managed for the postgres backend"))
	}
	return g.Postgres.Nodes.ChangeIndexType(ctx, indexType, params)
}

// CaseContext is the retrieval context handed to the agents for one case.
type CaseContext struct {
	RunID  uuid.UUID
	Case   string
	Result *model.FormattedResult
}

// String renders the case followed by the formatted documents.
func (c *CaseContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RUN: %s\n\n", c.RunID)
	fmt.Fprintf(&b, "CASE:\n%s\n\n", strings.TrimSpace(c.Case))
	b.WriteString("CONTEXT:\n")
	if c.Result != nil {
		b.WriteString(c.Result.Text)
	}
	return b.String()
}

// ReviewCase runs a semantic search for a case description and returns the
// context block for the reviewing agent.
func (g *CaseGraph) ReviewCase(ctx context.Context, description string, config *model.SearchConfig) (*CaseContext, error) {
	if strings.TrimSpace(description) == "" {
		return nil, helper.NewError("review case", fmt.Errorf("case description is empty"))
	}

	runID := uuid.New()
	g.log.Info("Reviewing case", slog.String("run_id", runID.String()))

	result, err := g.SemanticSearch(ctx, description, config)
	if err != nil {
		return nil, helper.NewError("review case", err)
	}

	if result.Failed {
		g.log.Warn("Case context is empty because the search failed", slog.String("run_id", runID.String()))
	}

	return &CaseContext{
		RunID:  runID,
		Case:   description,
		Result: result,
	}, nil
}
