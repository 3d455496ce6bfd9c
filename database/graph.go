package database

import (
	"context"
	"fmt"

	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
)

const (
	semanticSearchQuery = `
MATCH (c)
WHERE c.embedding IS NOT NULL AND ($kind IS NULL OR c.kind = $kind)
WITH c, vector.similarity.cosine(c.embedding, $query_vector) AS score
ORDER BY score DESC
LIMIT $top_k
RETURN c.chunk_id AS id, c.title AS title, c.content AS content, c.webUrl AS webUrl, c.path AS path, c.kind AS kind, score`

	keywordSearchQuery = `
MATCH (c)-[:HAS_KEYWORD]->(k:Keyword)
WHERE k.name IN $keywords
WITH c, collect(DISTINCT k.name) AS matched_keywords, count(DISTINCT k) AS keyword_count
ORDER BY keyword_count DESC
LIMIT $top_k
RETURN c.chunk_id AS id, c.title AS title, c.content AS content, c.webUrl AS webUrl, c.path AS path, c.kind AS kind, matched_keywords, keyword_count AS score`

	upsertNodeQuery = `
MERGE (c:Document {chunk_id: $chunk_id})
SET c.title = $title,
    c.content = $content,
    c.webUrl = $webUrl,
    c.path = $path,
    c.kind = $kind,
    c.metadata = $metadata,
    c.embedding = coalesce($embedding, c.embedding),
    c.created_at = coalesce(c.created_at, datetime())`

	linkKeywordsQuery = `
MATCH (c:Document {chunk_id: $chunk_id})
UNWIND $keywords AS name
MERGE (k:Keyword {name: name})
MERGE (c)-[:HAS_KEYWORD]->(k)
RETURN count(k) AS linked`

	deleteNodeQuery = `
MATCH (c:Document {chunk_id: $chunk_id})
DETACH DELETE c`
)

var graphConstraints = []string{
	`CREATE CONSTRAINT document_chunk_id IF NOT EXISTS FOR (c:Document) REQUIRE c.chunk_id IS UNIQUE`,
	`CREATE CONSTRAINT keyword_name IF NOT EXISTS FOR (k:Keyword) REQUIRE k.name IS UNIQUE`,
}

// GraphDBHandlerFunctions defines the interface for graph store operations.
type GraphDBHandlerFunctions interface {
	SemanticSearch(ctx context.Context, vector []float32, topK int, kind model.Kind) ([]*model.DocumentRecord, error)
	KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error)
	UpsertNode(ctx context.Context, node *model.Node) error
	LinkKeywords(ctx context.Context, nodeID string, keywords []string) error
	DeleteNode(ctx context.Context, nodeID string) error
	Close(ctx context.Context) error
}

// GraphDBHandler is the Neo4j backed graph store client.
// Every call runs in its own session which is closed before the call returns.
type GraphDBHandler struct {
	graph *helper.Graph
}

// NewGraphDBHandler creates a new graph store client on an open driver.
func NewGraphDBHandler(graph *helper.Graph) (*GraphDBHandler, error) {
	if graph == nil || graph.Driver == nil {
		return nil, helper.NewError("graph connection validation", fmt.Errorf("graph connection is nil"))
	}

	graph.Logger.Info("Initialized GraphDBHandler")

	return &GraphDBHandler{
		graph: graph,
	}, nil
}

// CreateConstraints creates the uniqueness constraints used by ingestion.
// Existing constraints are left untouched.
func (h *GraphDBHandler) CreateConstraints(ctx context.Context) error {
	session := h.graph.WriteSession(ctx)
	defer session.Close(ctx)

	for _, statement := range graphConstraints {
		result, err := session.Run(ctx, statement, nil)
		if err != nil {
			return helper.NewError("create constraint", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return helper.NewError("consume constraint", err)
		}
	}

	h.graph.Logger.Info("Checked/created graph constraints")

	return nil
}

// SemanticSearch returns the topK nodes most similar to vector by cosine
// similarity, optionally restricted to one kind.
func (h *GraphDBHandler) SemanticSearch(ctx context.Context, vector []float32, topK int, kind model.Kind) ([]*model.DocumentRecord, error) {
	params := map[string]any{
		"query_vector": toFloat64s(vector),
		"top_k":        topK,
		"kind":         nil,
	}
	if kind != "" {
		params["kind"] = string(kind)
	}

	records, err := h.read(ctx, semanticSearchQuery, params)
	if err != nil {
		return nil, helper.NewError("semantic search", err)
	}

	return records, nil
}

// KeywordSearch returns the topK nodes linked to the most distinct keywords.
// The score of each record is its matched keyword count.
func (h *GraphDBHandler) KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error) {
	if keywords == nil {
		keywords = []string{}
	}

	records, err := h.read(ctx, keywordSearchQuery, map[string]any{
		"keywords": keywords,
		"top_k":    topK,
	})
	if err != nil {
		return nil, helper.NewError("keyword search", err)
	}

	return records, nil
}

func (h *GraphDBHandler) read(ctx context.Context, query string, params map[string]any) ([]*model.DocumentRecord, error) {
	session := h.graph.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, helper.NewError("run", err)
	}

	records := []*model.DocumentRecord{}
	for result.Next(ctx) {
		record, err := recordFromRow(result.Record().AsMap(), model.SourceNeo4j)
		if err != nil {
			return nil, helper.NewError("map row", err)
		}
		records = append(records, record)
	}

	if err := result.Err(); err != nil {
		return nil, helper.NewError("result error", err)
	}

	return records, nil
}

// UpsertNode creates or updates a document node by its chunk id.
// A node without embedding keeps its previous embedding.
func (h *GraphDBHandler) UpsertNode(ctx context.Context, node *model.Node) error {
	if node == nil || node.ID == "" {
		return helper.NewError("upsert node", fmt.Errorf("node id is empty"))
	}

	metadata, err := node.Metadata.Marshal()
	if err != nil {
		return helper.NewError("marshal metadata", err)
	}

	var embedding any
	if len(node.Embedding) > 0 {
		embedding = toFloat64s(node.Embedding)
	}

	session := h.graph.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, upsertNodeQuery, map[string]any{
		"chunk_id":  node.ID,
		"title":     node.Title,
		"content":   node.Content,
		"webUrl":    node.WebURL,
		"path":      node.Path,
		"kind":      string(nodeKind(node.Kind)),
		"metadata":  string(metadata),
		"embedding": embedding,
	})
	if err != nil {
		return helper.NewError("upsert node", err)
	}

	if _, err := result.Consume(ctx); err != nil {
		return helper.NewError("consume upsert", err)
	}

	return nil
}

// LinkKeywords merges keyword nodes and HAS_KEYWORD edges for a document node.
func (h *GraphDBHandler) LinkKeywords(ctx context.Context, nodeID string, keywords []string) error {
	keywords = cleanKeywords(keywords)
	if len(keywords) == 0 {
		return nil
	}

	session := h.graph.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, linkKeywordsQuery, map[string]any{
		"chunk_id": nodeID,
		"keywords": keywords,
	})
	if err != nil {
		return helper.NewError("link keywords", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return helper.NewError("link keywords result", err)
	}

	linked, _ := record.Get("linked")
	if count, ok := linked.(int64); !ok || count == 0 {
		return helper.NewError("link keywords", fmt.Errorf("node %s does not exist", nodeID))
	}

	return nil
}

// DeleteNode removes a document node and its keyword edges.
func (h *GraphDBHandler) DeleteNode(ctx context.Context, nodeID string) error {
	session := h.graph.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, deleteNodeQuery, map[string]any{"chunk_id": nodeID})
	if err != nil {
		return helper.NewError("delete node", err)
	}

	if _, err := result.Consume(ctx); err != nil {
		return helper.NewError("consume delete", err)
	}

	return nil
}

// Close closes the underlying driver. Closing twice is safe.
func (h *GraphDBHandler) Close(ctx context.Context) error {
	return h.graph.Close(ctx)
}

var _ GraphDBHandlerFunctions = (*GraphDBHandler)(nil)
