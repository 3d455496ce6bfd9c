package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/casegraph/helper"
)

const (
	IndexHNSW    = "hnsw"
	IndexIVFFlat = "ivfflat"
	IndexNone    = "none"
)

// ChangeIndexType replaces the vector index on nodes.embedding.
// indexType: "hnsw", "ivfflat" or "none"
// params: optional parameters for index creation
//   - For HNSW: "m" (int, default 16), "ef_construction" (int, default 64)
//   - For IVFFlat: "lists" (int, default 100)
//
// pgvector only indexes vectors up to 2000 dimensions, larger embeddings are
// searched sequentially.
func (h *NodesDBHandler) ChangeIndexType(ctx context.Context, indexType string, params map[string]int) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var createIndexSQL string

	switch indexType {
	case IndexHNSW:
		m := 16
		efConstruction := 64

		if mVal, ok := params["m"]; ok {
			m = mVal
		}
		if efVal, ok := params["ef_construction"]; ok {
			efConstruction = efVal
		}

		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_nodes_embedding ON nodes USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			m, efConstruction,
		)

	case IndexIVFFlat:
		lists := 100
		if listsVal, ok := params["lists"]; ok {
			lists = listsVal
		}

		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_nodes_embedding ON nodes USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			lists,
		)

	case IndexNone:

	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'hnsw', 'ivfflat' or 'none')", indexType))
	}

	_, err := h.db.Instance.ExecContext(ctx, `DROP INDEX IF EXISTS idx_nodes_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	h.db.Logger.Info("Dropped existing vector index")

	if createIndexSQL == "" {
		return nil
	}

	_, err = h.db.Instance.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	h.db.Logger.Info(fmt.Sprintf("Created %s index with params: %v", indexType, params))

	return nil
}
