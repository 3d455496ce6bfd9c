package database

import (
	"context"
	"fmt"

	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
	loadSql "github.com/siherrmann/casegraph/sql"
)

// PostgresStore is the pgvector backed graph store client. Nodes live in the
// nodes table and HAS_KEYWORD edges in node_keywords.
type PostgresStore struct {
	DB       *helper.Database
	Nodes    *NodesDBHandler
	Keywords *KeywordsDBHandler
}

// NewPostgresStore initializes extensions, functions and tables on db.
// Nodes are created first because keyword links reference them.
func NewPostgresStore(db *helper.Database, embeddingDim int, force bool) (*PostgresStore, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	nodes, err := NewNodesDBHandler(db, embeddingDim, force)
	if err != nil {
		return nil, helper.NewError("create nodes handler", err)
	}

	keywords, err := NewKeywordsDBHandler(db, force)
	if err != nil {
		return nil, helper.NewError("create keywords handler", err)
	}

	return &PostgresStore{
		DB:       db,
		Nodes:    nodes,
		Keywords: keywords,
	}, nil
}

// SemanticSearch returns the topK nodes most similar to vector.
func (s *PostgresStore) SemanticSearch(ctx context.Context, vector []float32, topK int, kind model.Kind) ([]*model.DocumentRecord, error) {
	records, err := s.Nodes.SelectNodesBySimilarity(ctx, vector, topK, kind)
	if err != nil {
		return nil, helper.NewError("semantic search", err)
	}
	return records, nil
}

// KeywordSearch returns the topK nodes matching the most keywords.
func (s *PostgresStore) KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error) {
	records, err := s.Keywords.SelectNodesByKeywords(ctx, keywords, topK)
	if err != nil {
		return nil, helper.NewError("keyword search", err)
	}
	return records, nil
}

// UpsertNode inserts or updates a node.
func (s *PostgresStore) UpsertNode(ctx context.Context, node *model.Node) error {
	return s.Nodes.UpsertNode(ctx, node)
}

// LinkKeywords links keywords to an existing node.
func (s *PostgresStore) LinkKeywords(ctx context.Context, nodeID string, keywords []string) error {
	return s.Keywords.LinkKeywords(ctx, nodeID, keywords)
}

// DeleteNode removes a node and its keyword links.
func (s *PostgresStore) DeleteNode(ctx context.Context, nodeID string) error {
	return s.Nodes.DeleteNode(ctx, nodeID)
}

// Close closes the connection pool.
func (s *PostgresStore) Close(ctx context.Context) error {
	return s.DB.Close()
}
