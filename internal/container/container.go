// Package container wires the application's dependencies once at startup,
// so commands receive fully built components instead of creating their own.
package container

import (
	"context"
	"fmt"
	"time"

	"fintracker/internal/categorizer"
	"fintracker/internal/config"
	"fintracker/internal/extractor"
	"fintracker/internal/importer"
	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/postprocess"
	"fintracker/internal/statementparser"
	"fintracker/internal/store"
	"fintracker/internal/textsource"
)

// Container holds all application dependencies. It is immutable after
// creation; components are reached through getters.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.GormStore
	providers   []llm.Provider
	chain       *llm.Chain
	parser      *statementparser.Parser
	categorizer *categorizer.Categorizer
	extractor   *extractor.Extractor
	post        *postprocess.Processor
	importer    *importer.Importer
	reader      *textsource.Reader

	closers []func() error
}

// NewContainer creates the logger, opens the database, constructs the LLM
// providers enabled in cfg and wires the import pipeline.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, err
	}
	closers := []func() error{st.Close}

	var providers []llm.Provider
	if cfg.AI.Enabled {
		if key := cfg.AI.Gemini.APIKey; key != "" {
			gemini, err := llm.NewGeminiProvider(ctx, key, cfg.AI.Gemini.Model, logger)
			if err != nil {
				_ = closeAll(closers)
				return nil, err
			}
			providers = append(providers, gemini)
			closers = append(closers, gemini.Close)
		}
		if key := cfg.AI.OpenAI.APIKey; key != "" {
			openai, err := llm.NewOpenAIProvider(key, cfg.AI.OpenAI.Model, logger)
			if err != nil {
				_ = closeAll(closers)
				return nil, err
			}
			providers = append(providers, openai)
		}
	}

	c := NewContainerWith(cfg, logger, st, textsource.NewPDFExtractor(), providers...)
	c.closers = closers
	return c, nil
}

// NewContainerWith wires the pipeline around already constructed
// dependencies. Providers are tried in the order given.
func NewContainerWith(cfg *config.Config, logger logging.Logger, st *store.GormStore, pdf textsource.Extractor, providers ...llm.Provider) *Container {
	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	chain := llm.NewChain(logger, timeout, providers...)

	parser := statementparser.New(logger)
	cat := categorizer.NewCategorizer(chain, categorizer.Options{
		BatchSize:   cfg.Import.BatchSize,
		Concurrency: cfg.Import.BatchConcurrency,
		Threshold:   cfg.Import.BatchThreshold,
	}, logger)
	ext := extractor.New(chain, logger)
	post := postprocess.New(st, logger)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	logger.Info("Container initialized",
		logging.F("providers", names),
		logging.F("ai_enabled", cfg.AI.Enabled),
		logging.F("database", cfg.Database.Driver))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       st,
		providers:   providers,
		chain:       chain,
		parser:      parser,
		categorizer: cat,
		extractor:   ext,
		post:        post,
		importer:    importer.New(parser, cat, ext, post, st, logger),
		reader:      textsource.NewReader(pdf, logger),
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the storage collaborator.
func (c *Container) GetStore() *store.GormStore {
	return c.store
}

// GetProviders returns the configured LLM providers in tier order.
func (c *Container) GetProviders() []llm.Provider {
	return append([]llm.Provider(nil), c.providers...)
}

func (c *Container) GetParser() *statementparser.Parser {
	return c.parser
}

func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

func (c *Container) GetExtractor() *extractor.Extractor {
	return c.extractor
}

// GetImporter returns the pipeline entry point.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// GetReader returns the document reader.
func (c *Container) GetReader() *textsource.Reader {
	return c.reader
}

// Close releases the provider clients and the database connection.
func (c *Container) Close() error {
	err := closeAll(c.closers)
	c.logger.Debug("Container closed")
	return err
}

// closeAll runs closers in reverse order and returns the first error.
func closeAll(closers []func() error) error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
