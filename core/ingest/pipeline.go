package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/casegraph/core/embedding"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
)

// NodeWriter persists nodes and their keyword edges.
type NodeWriter interface {
	UpsertNode(ctx context.Context, node *model.Node) error
	LinkKeywords(ctx context.Context, nodeID string, keywords []string) error
}

// Pipeline combines chunking and embedding before writing nodes to a store.
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder embedding.EmbedFunc
	log      *slog.Logger
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, embedder embedding.EmbedFunc, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
		log:      logger,
	}
}

// Process splits a source node into chunk nodes and embeds each of them.
// A source producing a single chunk keeps its id, otherwise chunk ids are
// "<id>.<n>" with n starting at 0. Every chunk inherits the source's title,
// kind, address and keywords.
func (p *Pipeline) Process(ctx context.Context, source *model.Node) ([]*model.Node, error) {
	if p.Chunker == nil || p.Embedder == nil {
		return nil, helper.NewError("process node", fmt.Errorf("pipeline needs a chunker and an embedder"))
	}
	if source == nil {
		return nil, helper.NewError("process node", fmt.Errorf("node is nil"))
	}
	if source.ID == "" {
		return nil, helper.NewError("process node", fmt.Errorf("node id is empty"))
	}

	chunks, err := p.Chunker(source.Content)
	if err != nil {
		return nil, helper.NewError("chunk content", err)
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}

	nodes := make([]*model.Node, 0, len(chunks))
	for i, content := range chunks {
		id := source.ID
		if len(chunks) > 1 {
			id = fmt.Sprintf("%s.%d", source.ID, i)
		}

		text := content
		if text == "" {
			text = source.Title
		}
		vector, err := p.Embedder(ctx, text)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("embed chunk %s", id), err)
		}

		nodes = append(nodes, &model.Node{
			ID:        id,
			Title:     source.Title,
			Content:   content,
			WebURL:    source.WebURL,
			Path:      source.Path,
			Kind:      source.Kind,
			Keywords:  source.Keywords,
			Metadata:  source.Metadata,
			Embedding: vector,
		})
	}

	return nodes, nil
}

// Ingest processes every source and writes the resulting nodes.
// It returns the number of nodes written.
func (p *Pipeline) Ingest(ctx context.Context, writer NodeWriter, sources []*model.Node) (int, error) {
	written := 0
	for _, source := range sources {
		nodes, err := p.Process(ctx, source)
		if err != nil {
			return written, err
		}

		for _, node := range nodes {
			if err := writer.UpsertNode(ctx, node); err != nil {
				return written, helper.NewError(fmt.Sprintf("upsert node %s", node.ID), err)
			}
			if len(node.Keywords) > 0 {
				if err := writer.LinkKeywords(ctx, node.ID, node.Keywords); err != nil {
					return written, helper.NewError(fmt.Sprintf("link keywords of %s", node.ID), err)
				}
			}
			written++
		}

		p.log.Info("Ingested source", slog.String("id", source.ID), slog.String("kind", string(source.Kind)), slog.Int("num_nodes", len(nodes)))
	}

	return written, nil
}
