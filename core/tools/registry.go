package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
)

const (
	SemanticSearchTool = "semantic_search"
	KeywordSearchTool  = "keyword_search"

	MaxTopK = 50
)

// Searcher is the retrieval surface exposed to agents.
type Searcher interface {
	SemanticSearch(ctx context.Context, query string, config *model.SearchConfig) (*model.FormattedResult, error)
	KeywordSearch(ctx context.Context, keywords []string, topK int) ([]*model.DocumentRecord, error)
}

// SemanticSearchArgs are the arguments of the semantic_search tool.
type SemanticSearchArgs struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

// KeywordSearchArgs are the arguments of the keyword_search tool.
type KeywordSearchArgs struct {
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required"`
	TopK     int      `json:"top_k" validate:"omitempty,min=1,max=50"`
}

// Tool is a function an agent can call by name with JSON arguments.
type Tool struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
	handler     func(ctx context.Context, arguments []byte) (string, error)
}

// Registry holds the tools registered for the agents.
// It is read only after construction and safe for concurrent calls.
type Registry struct {
	tools    map[string]*Tool
	validate *validator.Validate
}

// NewRegistry registers semantic_search and keyword_search on searcher.
func NewRegistry(searcher Searcher) *Registry {
	r := &Registry{
		tools:    map[string]*Tool{},
		validate: validator.New(),
	}

	r.register(&Tool{
		Name:        SemanticSearchTool,
		Description: "Search support threads and troubleshooting guides by meaning. Returns numbered documents with REF-n references to cite.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query": {
					Type:        jsonschema.String,
					Description: "Natural language description of the problem to search for.",
				},
				"top_k": {
					Type:        jsonschema.Integer,
					Description: fmt.Sprintf("Number of documents to return (1-%d, default %d).", MaxTopK, model.DefaultTopK),
				},
			},
			Required: []string{"query"},
		},
		handler: func(ctx context.Context, arguments []byte) (string, error) {
			args := &SemanticSearchArgs{}
			if err := r.decode(arguments, args); err != nil {
				return "", err
			}
			result, err := searcher.SemanticSearch(ctx, args.Query, &model.SearchConfig{TopK: topK(args.TopK)})
			if err != nil {
				return "", err
			}
			return result.Text, nil
		},
	})

	r.register(&Tool{
		Name:        KeywordSearchTool,
		Description: "Find documents tagged with the given keywords, ranked by the number of matching keywords. Returns a JSON list of documents.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"keywords": {
					Type:        jsonschema.Array,
					Items:       &jsonschema.Definition{Type: jsonschema.String},
					Description: "Keywords such as product names, error codes or components.",
				},
				"top_k": {
					Type:        jsonschema.Integer,
					Description: fmt.Sprintf("Number of documents to return (1-%d, default %d).", MaxTopK, model.DefaultTopK),
				},
			},
			Required: []string{"keywords"},
		},
		handler: func(ctx context.Context, arguments []byte) (string, error) {
			args := &KeywordSearchArgs{}
			if err := r.decode(arguments, args); err != nil {
				return "", err
			}
			records, err := searcher.KeywordSearch(ctx, args.Keywords, topK(args.TopK))
			if err != nil {
				return "", err
			}
			b, err := json.Marshal(records)
			if err != nil {
				return "", helper.NewError("marshal records", err)
			}
			return string(b), nil
		},
	})

	return r
}

func (r *Registry) register(tool *Tool) {
	r.tools[tool.Name] = tool
}

func (r *Registry) decode(arguments []byte, args any) error {
	if len(arguments) == 0 {
		arguments = []byte("{}")
	}
	if err := json.Unmarshal(arguments, args); err != nil {
		return helper.NewError("decode arguments", err)
	}
	if err := r.validate.Struct(args); err != nil {
		return helper.NewError("validate arguments", err)
	}
	return nil
}

func topK(value int) int {
	if value <= 0 {
		return model.DefaultTopK
	}
	return value
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tool returns the tool registered under name.
func (r *Registry) Tool(name string) (*Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Call decodes and validates arguments and runs the named tool.
func (r *Registry) Call(ctx context.Context, name string, arguments string) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", helper.NewError("call tool", fmt.Errorf("unknown tool %q", name))
	}

	out, err := tool.handler(ctx, []byte(arguments))
	if err != nil {
		return "", helper.NewError(name, err)
	}
	return out, nil
}

// OpenAITools exports the registry as function tools for a chat completion request.
func (r *Registry) OpenAITools() []openai.Tool {
	out := make([]openai.Tool, 0, len(r.tools))
	for _, name := range r.Names() {
		tool := r.tools[name]
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	return out
}

// CallToolCall runs a tool call from a chat completion response and returns
// the tool message to append to the conversation.
func (r *Registry) CallToolCall(ctx context.Context, call openai.ToolCall) openai.ChatCompletionMessage {
	content, err := r.Call(ctx, call.Function.Name, call.Function.Arguments)
	if err != nil {
		content = fmt.Sprintf("error: %v", err)
	}
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	}
}
