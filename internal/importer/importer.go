// Package importer is the entry point of the statement import pipeline:
// local parse, then categorization or full-document AI extraction, then
// post-processing and optional persistence.
package importer

import (
	"context"
	"fmt"
	"time"

	"fintracker/internal/categorizer"
	"fintracker/internal/detector"
	"fintracker/internal/extractor"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/postprocess"
	"fintracker/internal/statementparser"
)

// ErrorCouldNotExtract is reported in metadata when no transaction could be
// extracted from the document by any path.
const ErrorCouldNotExtract = "could_not_extract"

// Storage is the storage collaborator the pipeline reads from and writes to.
type Storage interface {
	postprocess.Store
	GetAllCategories(ctx context.Context, userID string) ([]models.Category, error)
	BatchCreateTransactions(ctx context.Context, txs []models.Transaction, userID string) ([]models.Transaction, error)
}

// Request is one statement to import.
type Request struct {
	UserID string
	Text   string
	// StatementType, when set, overrides detection.
	StatementType models.StatementType
	// Cards preloads the user's cards; nil loads them from storage.
	Cards []models.CreditCard
}

// Metadata describes how an import was performed.
type Metadata struct {
	Method            models.ImportMethod  `json:"method"`
	Bank              string               `json:"bank"`
	StatementType     models.StatementType `json:"statementType"`
	TotalTransactions int                  `json:"totalTransactions"`
	ProcessingTime    int64                `json:"processingTime"`
	Confidence        float64              `json:"confidence"`
	ParsingMethod     models.ParsingMethod `json:"parsingMethod"`
	Error             string               `json:"error,omitempty"`
}

// Result is the pipeline output.
type Result struct {
	Transactions []models.Transaction `json:"transactions"`
	Metadata     Metadata             `json:"metadata"`
}

// Importer wires the pipeline stages together.
type Importer struct {
	parser      *statementparser.Parser
	categorizer *categorizer.Categorizer
	extractor   *extractor.Extractor
	post        *postprocess.Processor
	store       Storage
	logger      logging.Logger
}

// New creates an Importer from its stages.
func New(parser *statementparser.Parser, cat *categorizer.Categorizer, ext *extractor.Extractor, post *postprocess.Processor, store Storage, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Importer{
		parser:      parser,
		categorizer: cat,
		extractor:   ext,
		post:        post,
		store:       store,
		logger:      logger,
	}
}

// Import runs the pipeline without persisting. Provider failures never
// surface as errors; an incomplete category catalog, cancellation and
// storage failures do.
func (im *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if req.StatementType != "" && !req.StatementType.Valid() {
		return nil, &importerror.ValidationError{Field: "statementType", Reason: fmt.Sprintf("unknown statement type %q", req.StatementType)}
	}

	log := im.logger.WithFields(
		logging.F(logging.FieldOperation, "import"),
		logging.F(logging.FieldUserID, req.UserID))

	categories, err := im.store.GetAllCategories(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	catalog := models.CategoriesForAI(categories)

	parsed := im.parser.ParseStatement(req.Text, req.StatementType)
	meta := Metadata{
		Bank:          parsed.Bank,
		StatementType: parsed.StatementType,
		Confidence:    parsed.Metadata.Confidence,
		ParsingMethod: parsed.Metadata.ParsingMethod,
	}

	var categorized []models.CategorizedTransaction
	if len(parsed.Transactions) > 0 {
		meta.Method = models.MethodFastParser
		detector.FillTypes(parsed.Transactions)
		categorized, err = im.categorizer.CategorizeBatch(ctx, parsed.Transactions, catalog)
		if err != nil {
			return nil, err
		}
	} else {
		meta.Method = models.MethodAIFallback
		log.Info("Local parser found nothing, extracting with AI",
			logging.F(logging.FieldBank, parsed.Bank))
		extracted, err := im.extractor.ExtractWithAI(ctx, req.Text, parsed.StatementType, catalog)
		if err != nil {
			return nil, err
		}
		categorized = make([]models.CategorizedTransaction, len(extracted))
		for i, e := range extracted {
			categorized[i] = e.Categorized()
		}
	}

	transactions := []models.Transaction{}
	if len(categorized) == 0 {
		meta.Error = ErrorCouldNotExtract
	} else {
		transactions, err = im.post.Process(ctx, categorized, parsed.StatementType, req.UserID, req.Cards)
		if err != nil {
			return nil, err
		}
	}

	meta.TotalTransactions = len(transactions)
	meta.ProcessingTime = time.Since(start).Milliseconds()

	log.Info("Statement imported",
		logging.F(logging.FieldMethod, string(meta.Method)),
		logging.F(logging.FieldBank, meta.Bank),
		logging.F(logging.FieldStatementType, string(meta.StatementType)),
		logging.F(logging.FieldCount, meta.TotalTransactions),
		logging.F(logging.FieldDuration, meta.ProcessingTime))

	return &Result{Transactions: transactions, Metadata: meta}, nil
}

// ImportAndSave runs Import and persists the transactions in one batch.
func (im *Importer) ImportAndSave(ctx context.Context, req Request) (*Result, error) {
	res, err := im.Import(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(res.Transactions) == 0 {
		return res, nil
	}
	saved, err := im.store.BatchCreateTransactions(ctx, res.Transactions, req.UserID)
	if err != nil {
		return nil, err
	}
	res.Transactions = saved
	return res, nil
}
