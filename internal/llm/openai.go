package llm

import (
	"context"
	"fmt"

	"fintracker/internal/importerror"
	"fintracker/internal/logging"

	openai "github.com/sashabaranov/go-openai"
)

const providerOpenAI = "openai"

// OpenAIProvider generates completions with the OpenAI chat API in JSON mode.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger logging.Logger
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(apiKey, model string, logger logging.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (p *OpenAIProvider) Name() string { return providerOpenAI }

func (p *OpenAIProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You answer only with valid JSON."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", &importerror.ProviderError{Provider: providerOpenAI, Op: "chat_completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &importerror.ProviderError{Provider: providerOpenAI, Op: "chat_completion", Err: fmt.Errorf("no choices returned")}
	}

	p.logger.Debug("OpenAI response received",
		logging.F(logging.FieldProvider, providerOpenAI),
		logging.F(logging.FieldCount, resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}
