package categorizer

import (
	"context"
	"encoding/json"
	"fmt"

	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/models"
)

// CategorizationStrategy assigns a category reference to every transaction of
// a batch. References are positionally aligned with the input and may be IDs
// or names; unresolvable entries are left empty.
type CategorizationStrategy interface {
	Categorize(ctx context.Context, txs []models.ParsedTransaction, catalog []models.CategoryForAI) ([]string, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// LLMStrategy prompts the provider chain with the whole batch. The chain
// escalates from one provider to the next on errors or malformed replies.
type LLMStrategy struct {
	chain  *llm.Chain
	logger logging.Logger
}

// NewLLMStrategy creates a strategy over chain.
func NewLLMStrategy(chain *llm.Chain, logger logging.Logger) *LLMStrategy {
	return &LLMStrategy{chain: chain, logger: logger}
}

func (s *LLMStrategy) Name() string { return "llm" }

type categoriesReply struct {
	Categories []string `json:"categories"`
}

func (s *LLMStrategy) Categorize(ctx context.Context, txs []models.ParsedTransaction, catalog []models.CategoryForAI) ([]string, error) {
	prompt := buildCategorizationPrompt(txs, catalog)

	var reply categoriesReply
	provider, err := s.chain.Run(ctx, prompt, func(raw string) error {
		reply = categoriesReply{}
		if err := json.Unmarshal([]byte(raw), &reply); err != nil {
			return fmt.Errorf("invalid categories JSON: %w", err)
		}
		if len(reply.Categories) != len(txs) {
			return fmt.Errorf("expected %d categories, got %d", len(txs), len(reply.Categories))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Batch categorized by provider",
		logging.F(logging.FieldProvider, provider),
		logging.F(logging.FieldCount, len(txs)))

	return reply.Categories, nil
}

// OutrosStrategy is the deterministic last tier: every transaction gets the
// catch-all category of its own type.
type OutrosStrategy struct{}

func (OutrosStrategy) Name() string { return "outros" }

func (OutrosStrategy) Categorize(_ context.Context, txs []models.ParsedTransaction, catalog []models.CategoryForAI) ([]string, error) {
	refs := make([]string, len(txs))
	for i, tx := range txs {
		id, err := ResolveOutros(catalog, tx.Type)
		if err != nil {
			return nil, err
		}
		refs[i] = id
	}
	return refs, nil
}
