package llm

import (
	"context"
	"fmt"
	"strings"

	"fintracker/internal/importerror"
	"fintracker/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// GeminiProvider generates completions with Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiProvider creates the Gemini client once; call Close when done.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

func (p *GeminiProvider) Name() string { return providerGemini }

// GenerateJSON sends prompt and returns the concatenated text parts of the
// first candidate.
func (p *GeminiProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &importerror.ProviderError{Provider: providerGemini, Op: "generate", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &importerror.ProviderError{Provider: providerGemini, Op: "generate", Err: fmt.Errorf("empty response")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	p.logger.Debug("Gemini response received",
		logging.F(logging.FieldProvider, providerGemini),
		logging.F(logging.FieldCount, sb.Len()))

	return sb.String(), nil
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
