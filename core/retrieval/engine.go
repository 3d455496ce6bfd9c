package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/casegraph/core/embedding"
	"github.com/siherrmann/casegraph/core/format"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
)

// Store is the graph store client the engine reads from.
// Implementations report failures as errors and never swallow them.
type Store interface {
	SemanticSearch(ctx context.Context, vector []float32, topK int, kind model.Kind) ([]*model.DocumentRecord, error)
	KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error)
	Close(ctx context.Context) error
}

// Engine is the retrieval facade: it embeds queries, searches the store and
// formats the results.
//
// A store failure is logged and degraded to an empty result unless the engine
// runs in strict mode, in which case it is returned. Embedding failures are
// always returned.
type Engine struct {
	store     Store
	embed     embedding.EmbedFunc
	formatter *format.Formatter
	log       *slog.Logger
	strict    bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStrictErrors makes store failures propagate instead of degrading to empty.
func WithStrictErrors() EngineOption {
	return func(e *Engine) {
		e.strict = true
	}
}

// WithFormatter replaces the default formatter.
func WithFormatter(formatter *format.Formatter) EngineOption {
	return func(e *Engine) {
		e.formatter = formatter
	}
}

// WithLogger sets the logger used for degraded searches.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = logger
	}
}

// NewEngine creates a new retrieval engine
func NewEngine(store Store, embed embedding.EmbedFunc, options ...EngineOption) *Engine {
	e := &Engine{
		store:     store,
		embed:     embed,
		formatter: format.NewFormatter(),
		log:       slog.Default(),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// SetEmbedder replaces the embedding provider.
func (e *Engine) SetEmbedder(embed embedding.EmbedFunc) {
	e.embed = embed
}

// SemanticSearch embeds the query, ranks nodes by cosine similarity and
// returns them formatted together with their references.
func (e *Engine) SemanticSearch(ctx context.Context, query string, config *model.SearchConfig) (*model.FormattedResult, error) {
	if e.store == nil {
		return nil, helper.NewError("semantic search", fmt.Errorf("store not initialized"))
	}
	if e.embed == nil {
		return nil, helper.NewError("semantic search", fmt.Errorf("embedder not set, use SetEmbedder() first"))
	}

	start := time.Now()

	vector, err := e.embed(ctx, query)
	if err != nil {
		observe(modeSemantic, outcomeEmbeddingError, start)
		return nil, helper.NewError("generate embedding", err)
	}

	var kind model.Kind
	if config != nil {
		kind = config.Kind
	}

	records, err := e.store.SemanticSearch(ctx, vector, config.Limit(), kind)
	if err != nil {
		if e.strict {
			observe(modeSemantic, outcomeStoreError, start)
			return nil, helper.NewError("semantic search", err)
		}
		e.log.Error("Error during semantic search, returning no results", slog.String("error", err.Error()))
		observe(modeSemantic, outcomeDegraded, start)

		result := e.formatter.Format(nil)
		result.Failed = true
		return result, nil
	}

	observe(modeSemantic, outcomeOK, start)
	e.log.Debug("Semantic search finished", slog.Int("num_results", len(records)), slog.String("kind", string(kind)))

	return e.formatter.Format(records), nil
}

// KeywordSearch returns the raw records of nodes linked to any of the keywords,
// ranked by the number of distinct matched keywords. The records are not formatted.
func (e *Engine) KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error) {
	if e.store == nil {
		return nil, helper.NewError("keyword search", fmt.Errorf("store not initialized"))
	}
	if topK <= 0 {
		topK = model.DefaultTopK
	}

	start := time.Now()

	records, err := e.store.KeywordSearch(ctx, keywords, topK)
	if err != nil {
		if e.strict {
			observe(modeKeyword, outcomeStoreError, start)
			return nil, helper.NewError("keyword search", err)
		}
		e.log.Error("Error during keyword search, returning no results", slog.String("error", err.Error()))
		observe(modeKeyword, outcomeDegraded, start)
		return []*model.DocumentRecord{}, nil
	}

	observe(modeKeyword, outcomeOK, start)
	if records == nil {
		records = []*model.DocumentRecord{}
	}

	return records, nil
}

// Format exposes the engine's formatter for already retrieved records.
func (e *Engine) Format(records []*model.DocumentRecord) *model.FormattedResult {
	return e.formatter.Format(records)
}

// Close closes the underlying store.
func (e *Engine) Close(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	return e.store.Close(ctx)
}
