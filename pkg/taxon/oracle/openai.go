package oracle

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
)

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the API base, e.g. for an Azure or self-hosted gateway.
	BaseURL string

	HTTPClient *http.Client
}

// OpenAI asks an OpenAI chat model to pick the label.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds the backend. Model defaults to gpt-4o-mini.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Choose implements Oracle.
func (o *OpenAI) Choose(ctx context.Context, text string, candidates []string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(text, candidates)},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("oracle: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle: openai: %w", internalerr.ErrEmptyResponse)
	}
	return CleanAnswer(resp.Choices[0].Message.Content), nil
}
