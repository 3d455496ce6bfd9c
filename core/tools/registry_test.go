package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/siherrmann/casegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	query    string
	config   *model.SearchConfig
	keywords []string
	topK     int
	err      error
}

func (s *fakeSearcher) SemanticSearch(ctx context.Context, query string, config *model.SearchConfig) (*model.FormattedResult, error) {
	s.query, s.config = query, config
	if s.err != nil {
		return nil, s.err
	}
	return &model.FormattedResult{Text: "DOCUMENT REF-1:\n"}, nil
}

func (s *fakeSearcher) KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error) {
	s.keywords, s.topK = keywords, topK
	if s.err != nil {
		return nil, s.err
	}
	return []*model.DocumentRecord{{ID: "1", Kind: model.KindGuide, Score: 2, Source: model.SourceNeo4j}}, nil
}

func TestRegistryCallSemanticSearch(t *testing.T) {
	t.Run("Returns formatted text", func(t *testing.T) {
		searcher := &fakeSearcher{}
		registry := NewRegistry(searcher)

		out, err := registry.Call(context.Background(), SemanticSearchTool, `{"query":"upload fails with 503","top_k":8}`)

		require.NoError(t, err)
		assert.Equal(t, "DOCUMENT REF-1:\n", out)
		assert.Equal(t, "upload fails with 503", searcher.query)
		assert.Equal(t, 8, searcher.config.TopK)
		assert.Equal(t, model.Kind(""), searcher.config.Kind, "Expected no kind filter from agents")
	})

	t.Run("Top-k defaults to five", func(t *testing.T) {
		searcher := &fakeSearcher{}
		registry := NewRegistry(searcher)

		_, err := registry.Call(context.Background(), SemanticSearchTool, `{"query":"q"}`)

		require.NoError(t, err)
		assert.Equal(t, model.DefaultTopK, searcher.config.TopK)
	})

	t.Run("Missing query is rejected", func(t *testing.T) {
		searcher := &fakeSearcher{}
		registry := NewRegistry(searcher)

		_, err := registry.Call(context.Background(), SemanticSearchTool, `{"top_k":3}`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validate arguments")
		assert.Empty(t, searcher.query, "Expected the searcher not to be called")
	})

	t.Run("Out of range top-k is rejected", func(t *testing.T) {
		registry := NewRegistry(&fakeSearcher{})

		_, err := registry.Call(context.Background(), SemanticSearchTool, `{"query":"q","top_k":51}`)
		assert.Error(t, err)

		_, err = registry.Call(context.Background(), SemanticSearchTool, `{"query":"q","top_k":-1}`)
		assert.Error(t, err)
	})

	t.Run("Malformed JSON is rejected", func(t *testing.T) {
		registry := NewRegistry(&fakeSearcher{})

		_, err := registry.Call(context.Background(), SemanticSearchTool, `{"query":`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode arguments")
	})

	t.Run("Searcher errors propagate", func(t *testing.T) {
		sentinel := errors.New("embedding failed")
		registry := NewRegistry(&fakeSearcher{err: sentinel})

		_, err := registry.Call(context.Background(), SemanticSearchTool, `{"query":"q"}`)

		assert.ErrorIs(t, err, sentinel)
	})
}

func TestRegistryCallKeywordSearch(t *testing.T) {
	t.Run("Returns JSON records", func(t *testing.T) {
		searcher := &fakeSearcher{}
		registry := NewRegistry(searcher)

		out, err := registry.Call(context.Background(), KeywordSearchTool, `{"keywords":["storage","503"]}`)

		require.NoError(t, err)
		assert.Equal(t, []string{"storage", "503"}, searcher.keywords)
		assert.Equal(t, model.DefaultTopK, searcher.topK)

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "1", records[0]["id"])
		assert.Equal(t, float64(2), records[0]["@search.score"])
	})

	t.Run("Empty keyword list is rejected", func(t *testing.T) {
		registry := NewRegistry(&fakeSearcher{})

		_, err := registry.Call(context.Background(), KeywordSearchTool, `{"keywords":[]}`)
		assert.Error(t, err)
	})

	t.Run("Empty keyword is rejected", func(t *testing.T) {
		registry := NewRegistry(&fakeSearcher{})

		_, err := registry.Call(context.Background(), KeywordSearchTool, `{"keywords":["storage",""]}`)
		assert.Error(t, err)
	})
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry(&fakeSearcher{})

	t.Run("Unknown tool", func(t *testing.T) {
		_, err := registry.Call(context.Background(), "web_search", `{}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tool")
	})

	t.Run("Names are sorted", func(t *testing.T) {
		assert.Equal(t, []string{KeywordSearchTool, SemanticSearchTool}, registry.Names())
	})

	t.Run("Tool lookup", func(t *testing.T) {
		tool, ok := registry.Tool(SemanticSearchTool)
		require.True(t, ok)
		assert.Equal(t, []string{"query"}, tool.Parameters.Required)
	})
}

func TestRegistryOpenAITools(t *testing.T) {
	registry := NewRegistry(&fakeSearcher{})

	t.Run("Exports function tools", func(t *testing.T) {
		tools := registry.OpenAITools()

		require.Len(t, tools, 2)
		for _, tool := range tools {
			assert.Equal(t, openai.ToolTypeFunction, tool.Type)
			require.NotNil(t, tool.Function)
		}
		assert.Equal(t, KeywordSearchTool, tools[0].Function.Name)
		assert.Equal(t, SemanticSearchTool, tools[1].Function.Name)
	})

	t.Run("Parameters serialize as JSON schema", func(t *testing.T) {
		b, err := json.Marshal(registry.OpenAITools()[1].Function.Parameters)
		require.NoError(t, err)

		var schema map[string]any
		require.NoError(t, json.Unmarshal(b, &schema))
		assert.Equal(t, "object", schema["type"])
		assert.Contains(t, schema["properties"], "query")
		assert.Contains(t, schema["properties"], "top_k")
	})

	t.Run("Tool calls become tool messages", func(t *testing.T) {
		message := registry.CallToolCall(context.Background(), openai.ToolCall{
			ID:       "call_1",
			Type:     openai.ToolTypeFunction,
			Function: openai.FunctionCall{Name: SemanticSearchTool, Arguments: `{"query":"q"}`},
		})

		assert.Equal(t, openai.ChatMessageRoleTool, message.Role)
		assert.Equal(t, "call_1", message.ToolCallID)
		assert.Equal(t, "DOCUMENT REF-1:\n", message.Content)
	})

	t.Run("Failed tool calls report the error", func(t *testing.T) {
		message := registry.CallToolCall(context.Background(), openai.ToolCall{
			ID:       "call_2",
			Function: openai.FunctionCall{Name: SemanticSearchTool, Arguments: `{}`},
		})

		assert.Contains(t, message.Content, "error:")
	})
}
