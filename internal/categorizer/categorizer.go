// Package categorizer assigns catalog categories to parsed statement lines.
//
// A batch is sent to the LLM provider chain; when every provider fails the
// batch falls back to the "Outros" category of each transaction's type. The
// output always has one non-empty category per input, in input order. The
// only error that escapes is a catalog with no category of a needed type.
package categorizer

import (
	"context"
	"errors"
	"time"

	"fintracker/internal/importerror"
	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/models"

	"golang.org/x/sync/errgroup"
)

// Batch defaults.
const (
	DefaultBatchSize   = 15
	DefaultConcurrency = 3
	DefaultThreshold   = 20
)

// Options tunes batch categorization. Zero values take the defaults.
type Options struct {
	BatchSize   int
	Concurrency int
	// Threshold is the input size below which no batching happens.
	Threshold int
}

// Categorizer runs its strategies in order over a batch of transactions.
type Categorizer struct {
	primary  CategorizationStrategy
	fallback CategorizationStrategy
	opts     Options
	logger   logging.Logger
}

// NewCategorizer creates a Categorizer over chain. A nil or empty chain goes
// straight to the deterministic fallback.
func NewCategorizer(chain *llm.Chain, opts Options, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}

	c := &Categorizer{
		fallback: OutrosStrategy{},
		opts:     opts,
		logger:   logger,
	}
	if chain.Len() > 0 {
		c.primary = NewLLMStrategy(chain, logger)
	}
	return c
}

// CategorizeTransactions categorizes txs in a single request.
func (c *Categorizer) CategorizeTransactions(ctx context.Context, txs []models.ParsedTransaction, catalog []models.CategoryForAI) ([]models.CategorizedTransaction, error) {
	if len(txs) == 0 {
		return []models.CategorizedTransaction{}, nil
	}
	start := time.Now()

	var refs []string
	if c.primary != nil {
		var err error
		refs, err = c.primary.Categorize(ctx, txs, catalog)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.WithError(err).Warn("Provider tiers exhausted, using Outros fallback",
				logging.F(logging.FieldCount, len(txs)))
			refs = nil
		}
	}

	if refs == nil {
		var err error
		refs, err = c.fallback.Categorize(ctx, txs, catalog)
		if err != nil {
			return nil, err
		}
	}

	out := make([]models.CategorizedTransaction, len(txs))
	for i, tx := range txs {
		id, ok := ResolveCategoryReference(refs[i], catalog)
		if !ok {
			var err error
			id, err = ResolveOutros(catalog, tx.Type)
			if err != nil {
				return nil, err
			}
			c.logger.Debug("Unresolvable category reference, using Outros",
				logging.F(logging.FieldDescription, tx.Description),
				logging.F(logging.FieldCategory, refs[i]))
		}
		out[i] = models.CategorizedTransaction{ParsedTransaction: tx, CategoryID: id}
	}

	c.logger.Debug("Transactions categorized",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldDuration, time.Since(start).String()))

	return out, nil
}

// CategorizeBatch splits txs into batches of BatchSize and categorizes up to
// Concurrency batches at a time. Waves run one after another. Inputs smaller
// than Threshold are categorized in a single request.
func (c *Categorizer) CategorizeBatch(ctx context.Context, txs []models.ParsedTransaction, catalog []models.CategoryForAI) ([]models.CategorizedTransaction, error) {
	if len(txs) < c.opts.Threshold {
		return c.CategorizeTransactions(ctx, txs, catalog)
	}

	var batches [][]models.ParsedTransaction
	for start := 0; start < len(txs); start += c.opts.BatchSize {
		end := start + c.opts.BatchSize
		if end > len(txs) {
			end = len(txs)
		}
		batches = append(batches, txs[start:end])
	}

	results := make([][]models.CategorizedTransaction, len(batches))
	for wave := 0; wave < len(batches); wave += c.opts.Concurrency {
		last := wave + c.opts.Concurrency
		if last > len(batches) {
			last = len(batches)
		}

		c.logger.Debug("Categorizing wave",
			logging.F(logging.FieldBatch, wave/c.opts.Concurrency+1),
			logging.F(logging.FieldCount, last-wave))

		g, gctx := errgroup.WithContext(ctx)
		for i := wave; i < last; i++ {
			g.Go(func() error {
				res, err := c.CategorizeTransactions(gctx, batches[i], catalog)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make([]models.CategorizedTransaction, 0, len(txs))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// CategorizeOne categorizes a single description, for the CLI.
func (c *Categorizer) CategorizeOne(ctx context.Context, tx models.ParsedTransaction, catalog []models.CategoryForAI) (string, error) {
	res, err := c.CategorizeTransactions(ctx, []models.ParsedTransaction{tx}, catalog)
	if err != nil {
		return "", err
	}
	return res[0].CategoryID, nil
}

// IsFatal reports whether err must abort an import instead of being masked.
func IsFatal(err error) bool {
	return importerror.IsCatalogError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
