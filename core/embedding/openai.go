package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/siherrmann/casegraph/helper"
)

// EmbeddingClient is the part of the OpenAI client used for embeddings.
type EmbeddingClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// NewOpenAIEmbedder creates an embedder backed by Azure OpenAI or OpenAI,
// depending on config.Provider ("azure" or "openai").
func NewOpenAIEmbedder(config *helper.EmbeddingConfiguration) (EmbedFunc, error) {
	if config == nil {
		return nil, helper.NewError("embedding configuration validation", fmt.Errorf("embedding configuration is nil"))
	}

	switch strings.ToLower(config.Provider) {
	case "azure":
		if config.AzureEndpoint == "" || config.AzureKey == "" {
			return nil, helper.NewError("embedding configuration validation", fmt.Errorf("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_KEY must be set"))
		}
		clientConfig := openai.DefaultAzureConfig(config.AzureKey, config.AzureEndpoint)
		clientConfig.APIVersion = config.AzureAPIVersion
		deployment := config.AzureDeployment
		clientConfig.AzureModelMapperFunc = func(model string) string {
			return deployment
		}
		slog.Info("Initializing Azure OpenAI embedder", "deployment", deployment)
		return NewClientEmbedder(openai.NewClientWithConfig(clientConfig), deployment), nil
	case "openai":
		if config.OpenAIKey == "" {
			return nil, helper.NewError("embedding configuration validation", fmt.Errorf("OPENAI_API_KEY must be set"))
		}
		slog.Info("Initializing OpenAI embedder", "model", config.OpenAIModel)
		return NewClientEmbedder(openai.NewClient(config.OpenAIKey), config.OpenAIModel), nil
	default:
		return nil, helper.NewError("embedding configuration validation", fmt.Errorf("unsupported embedding provider %q", config.Provider))
	}
}

// NewClientEmbedder wraps an embedding client for the given model.
func NewClientEmbedder(client EmbeddingClient, model string) EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(model),
		})
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}

		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return resp.Data[0].Embedding, nil
	}
}
