package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
	loadSql "github.com/siherrmann/casegraph/sql"
)

// KeywordsDBHandlerFunctions defines the interface for Keywords database operations.
type KeywordsDBHandlerFunctions interface {
	LinkKeywords(ctx context.Context, chunkID string, keywords []string) error
	SelectKeywordsByNode(ctx context.Context, chunkID string) ([]string, error)
	SelectNodesByKeywords(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error)
}

// KeywordsDBHandler handles keyword nodes and their HAS_KEYWORD links.
type KeywordsDBHandler struct {
	db *helper.Database
}

// NewKeywordsDBHandler creates a new keywords database handler.
// The nodes table has to exist, keyword links reference it.
func NewKeywordsDBHandler(db *helper.Database, force bool) (*KeywordsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	keywordsDbHandler := &KeywordsDBHandler{
		db: db,
	}

	err := loadSql.LoadKeywordsSql(keywordsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load keywords sql", err)
	}

	_, err = db.Instance.Exec(`SELECT init_keywords();`)
	if err != nil {
		return nil, helper.NewError("init keywords", err)
	}

	db.Logger.Info("Initialized KeywordsDBHandler")

	return keywordsDbHandler, nil
}

// LinkKeywords creates missing keywords and links them to the node.
func (h *KeywordsDBHandler) LinkKeywords(ctx context.Context, chunkID string, keywords []string) error {
	keywords = cleanKeywords(keywords)
	if len(keywords) == 0 {
		return nil
	}

	var linked int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT link_keywords($1, $2)`,
		chunkID,
		pq.Array(keywords),
	).Scan(&linked)
	if err != nil {
		return helper.NewError("link keywords", err)
	}

	h.db.Logger.Debug("Linked keywords", "chunk_id", chunkID, "linked", linked)

	return nil
}

// SelectKeywordsByNode returns the keywords of a node in name order
func (h *KeywordsDBHandler) SelectKeywordsByNode(ctx context.Context, chunkID string) ([]string, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_keywords_by_node($1)`,
		chunkID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var keyword string
		if err := rows.Scan(&keyword); err != nil {
			return nil, helper.NewError("scan", err)
		}
		keywords = append(keywords, keyword)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return keywords, nil
}

// SelectNodesByKeywords returns the topK nodes linked to the most distinct
// requested keywords. The score is the matched keyword count.
func (h *KeywordsDBHandler) SelectNodesByKeywords(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error) {
	if keywords == nil {
		keywords = []string{}
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_nodes_by_keywords($1, $2)`,
		pq.Array(keywords),
		topK,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	records := []*model.DocumentRecord{}
	for rows.Next() {
		var id string
		var title, content, webURL, path sql.NullString
		var kind string
		var matched pq.StringArray
		var count int64

		err := rows.Scan(
			&id,
			&title,
			&content,
			&webURL,
			&path,
			&kind,
			&matched,
			&count,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, &model.DocumentRecord{
			ID:              id,
			Title:           title.String,
			Content:         content.String,
			WebURL:          webURL.String,
			Path:            path.String,
			Kind:            model.Kind(kind),
			Score:           float64(count),
			Source:          model.SourcePostgres,
			MatchedKeywords: []string(matched),
		})
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}
