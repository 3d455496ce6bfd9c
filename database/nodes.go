package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
	loadSql "github.com/siherrmann/casegraph/sql"
)

// NodesDBHandlerFunctions defines the interface for Nodes database operations.
type NodesDBHandlerFunctions interface {
	UpsertNode(ctx context.Context, node *model.Node) error
	SelectNode(ctx context.Context, chunkID string) (*model.Node, error)
	DeleteNode(ctx context.Context, chunkID string) error
	SelectNodesBySimilarity(ctx context.Context, embedding []float32, topK int, kind model.Kind) ([]*model.DocumentRecord, error)
}

// NodesDBHandler handles node-related database operations
type NodesDBHandler struct {
	db *helper.Database
}

// NewNodesDBHandler creates a new nodes database handler.
// It loads node-related SQL functions and creates the nodes table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewNodesDBHandler(db *helper.Database, embeddingDim int, force bool) (*NodesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	nodesDbHandler := &NodesDBHandler{
		db: db,
	}

	err := loadSql.LoadNodesSql(nodesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load nodes sql", err)
	}

	err = nodesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized NodesDBHandler")

	return nodesDbHandler, nil
}

// CreateTable creates the 'nodes' table in the database.
// If the table already exists, it does not create it again.
func (h *NodesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_nodes($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("init nodes", err)
	}

	h.db.Logger.Info("Checked/created table nodes")

	return nil
}

// UpsertNode inserts a node or updates the node with the same chunk id.
// A node without embedding keeps its previous embedding.
func (h *NodesDBHandler) UpsertNode(ctx context.Context, node *model.Node) error {
	if node == nil || node.ID == "" {
		return helper.NewError("upsert node", fmt.Errorf("node id is empty"))
	}

	var embedding any
	if len(node.Embedding) > 0 {
		embedding = pgvector.NewVector(node.Embedding)
	}

	metadata := node.Metadata
	if metadata == nil {
		metadata = model.Metadata{}
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM upsert_node($1, $2, $3, $4, $5, $6, $7, $8)`,
		node.ID,
		node.Title,
		node.Content,
		node.WebURL,
		node.Path,
		string(node.Kind),
		embedding,
		metadata,
	)

	err := scanNode(row, node)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectNode retrieves a node by chunk id
func (h *NodesDBHandler) SelectNode(ctx context.Context, chunkID string) (*model.Node, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_node($1)`,
		chunkID,
	)

	node := &model.Node{}
	err := scanNode(row, node)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return node, nil
}

// DeleteNode deletes a node and its keyword links by chunk id
func (h *NodesDBHandler) DeleteNode(ctx context.Context, chunkID string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_node($1)`,
		chunkID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectNodesBySimilarity returns the topK nodes closest to embedding by cosine
// similarity. An empty kind disables the kind filter.
func (h *NodesDBHandler) SelectNodesBySimilarity(ctx context.Context, embedding []float32, topK int, kind model.Kind) ([]*model.DocumentRecord, error) {
	kindFilter := sql.NullString{String: string(kind), Valid: kind != ""}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_nodes_by_similarity($1, $2, $3)`,
		pgvector.NewVector(embedding),
		topK,
		kindFilter,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	records := []*model.DocumentRecord{}
	for rows.Next() {
		var id string
		var title, content, webURL, path sql.NullString
		var kindValue string
		var score float64

		err := rows.Scan(
			&id,
			&title,
			&content,
			&webURL,
			&path,
			&kindValue,
			&score,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, &model.DocumentRecord{
			ID:      id,
			Title:   title.String,
			Content: content.String,
			WebURL:  webURL.String,
			Path:    path.String,
			Kind:    model.Kind(kindValue),
			Score:   score,
			Source:  model.SourcePostgres,
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

func scanNode(row *sql.Row, node *model.Node) error {
	var title, content, webURL, path sql.NullString
	var kind string

	err := row.Scan(
		&node.ID,
		&title,
		&content,
		&webURL,
		&path,
		&kind,
		&node.Metadata,
		&node.CreatedAt,
	)
	if err != nil {
		return err
	}

	node.Title = title.String
	node.Content = content.String
	node.WebURL = webURL.String
	node.Path = path.String
	node.Kind = model.Kind(kind)

	return nil
}
