package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintracker/internal/importerror"
	"fintracker/internal/logging"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 60 * time.Second

// Chain tries its providers in order. A tier that errors, or whose reply is
// rejected by the decoder, hands over to the next one; no tier is retried.
type Chain struct {
	tiers   []Provider
	timeout time.Duration
	logger  logging.Logger
}

// NewChain builds a chain over the given tiers. Nil providers are skipped so
// callers can pass optional, unconfigured providers directly.
func NewChain(logger logging.Logger, timeout time.Duration, tiers ...Provider) *Chain {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Chain{timeout: timeout, logger: logger}
	for _, p := range tiers {
		if p != nil {
			c.tiers = append(c.tiers, p)
		}
	}
	return c
}

// Len returns the number of configured tiers.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tiers)
}

// Run sends prompt to each tier until decode accepts a reply, and returns the
// name of the provider that succeeded. When every tier fails the error wraps
// importerror.ErrAllTiersFailed and the last cause.
func (c *Chain) Run(ctx context.Context, prompt string, decode func(raw string) error) (string, error) {
	if c.Len() == 0 {
		return "", fmt.Errorf("%w: no providers configured", importerror.ErrAllTiersFailed)
	}

	var lastErr error
	for i, p := range c.tiers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		raw, err := c.call(ctx, p, prompt)
		if err == nil {
			err = decode(CleanJSON(raw))
			if err != nil {
				err = &importerror.ProviderError{Provider: p.Name(), Op: "decode", Err: err}
			}
		}
		if err == nil {
			c.logger.Debug("Provider tier succeeded",
				logging.F(logging.FieldProvider, p.Name()),
				logging.F(logging.FieldTier, i+1))
			return p.Name(), nil
		}

		c.logger.WithError(err).Warn("Provider tier failed, trying next",
			logging.F(logging.FieldProvider, p.Name()),
			logging.F(logging.FieldTier, i+1))
		lastErr = err
	}

	return "", errors.Join(importerror.ErrAllTiersFailed, lastErr)
}

func (c *Chain) call(ctx context.Context, p Provider, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return p.GenerateJSON(callCtx, prompt)
}
