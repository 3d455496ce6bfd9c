package database

import (
	"context"
	"testing"

	"github.com/siherrmann/casegraph/model"
	"github.com/stretchr/testify/require"
)

type nodeWriter interface {
	UpsertNode(ctx context.Context, node *model.Node) error
	LinkKeywords(ctx context.Context, nodeID string, keywords []string) error
}

func testNodes() []*model.Node {
	return []*model.Node{
		{
			ID:        "thread-1",
			Title:     "Uploads fail with 503",
			Content:   "Customer sees 503 on large uploads.",
			WebURL:    "https://teams.example/thread-1",
			Kind:      model.KindThread,
			Keywords:  []string{"storage", "503", "upload"},
			Metadata:  model.Metadata{"product": "blob"},
			Embedding: []float32{1, 0, 0},
		},
		{
			ID:        "tsg-1",
			Title:     "Storage quota TSG",
			Content:   "Check the account quota first.",
			Path:      "/tsg/storage/quota",
			Kind:      model.KindGuide,
			Keywords:  []string{"storage", "quota"},
			Embedding: []float32{0.9, 0.1, 0},
		},
		{
			ID:        "thread-2",
			Title:     "Slow uploads",
			WebURL:    "https://teams.example/thread-2",
			Kind:      model.KindThread,
			Keywords:  []string{"upload"},
			Embedding: []float32{0, 1, 0},
		},
		{
			ID:    "thread-3",
			Title: "Not embedded yet",
			Kind:  model.KindThread,
		},
	}
}

func seedNodes(t *testing.T, writer nodeWriter) {
	ctx := context.Background()
	for _, node := range testNodes() {
		require.NoError(t, writer.UpsertNode(ctx, node), "Expected UpsertNode to not return an error")
		require.NoError(t, writer.LinkKeywords(ctx, node.ID, node.Keywords), "Expected LinkKeywords to not return an error")
	}
}
