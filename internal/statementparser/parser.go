// Package statementparser extracts transactions from statement text without
// calling any AI service.
//
// Extraction rules are kept in a registry of {ID, Detect, Extract} entries
// tried in order: document formats (OFX, CSV) first, then per-bank line
// layouts, then a generic line rule that accepts any text. Adding a bank means
// registering a new rule.
package statementparser

import (
	"strings"
	"time"

	"fintracker/internal/dateutils"
	"fintracker/internal/detector"
	"fintracker/internal/logging"
	"fintracker/internal/models"
)

// Document is the statement text plus what detection learned about it.
type Document struct {
	Text          string
	Lines         []string
	Bank          string
	StatementType models.StatementType
	// RefDate anchors dates printed without a year.
	RefDate time.Time
}

// Extraction is what a rule pulled out of a document. Scanned counts the
// lines that looked like transactions; Matched counts those fully parsed.
type Extraction struct {
	Transactions []models.ParsedTransaction
	Scanned      int
	Matched      int
}

// Rule is one registry entry.
type Rule struct {
	ID      string
	Detect  func(doc *Document) bool
	Extract func(doc *Document) Extraction
}

// Parser runs the rule registry over statement text.
type Parser struct {
	logger   logging.Logger
	rules    []Rule
	fallback Rule
	now      func() time.Time
}

// New creates a Parser with the default registry.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{
		logger:   logger,
		rules:    DefaultRules(),
		fallback: GenericRule(),
		now:      time.Now,
	}
}

// Register adds a rule ahead of the generic fallback. Rules registered later
// are tried after the ones already present.
func (p *Parser) Register(rule Rule) {
	p.rules = append(p.rules, rule)
}

// RuleIDs lists the registered rule IDs in the order they are tried.
func (p *Parser) RuleIDs() []string {
	ids := make([]string, 0, len(p.rules)+1)
	for _, r := range p.rules {
		ids = append(ids, r.ID)
	}
	return append(ids, p.fallback.ID)
}

// ParseStatement extracts transactions from text. It never fails: when nothing
// can be extracted the result is empty with confidence 0. A valid userType
// overrides the detected statement type but not the choice of rule.
func (p *Parser) ParseStatement(text string, userType models.StatementType) models.ParserResult {
	doc := &Document{
		Text:          text,
		Lines:         splitLines(text),
		Bank:          detector.DetectBank(text),
		StatementType: detector.ResolveStatementType(text, userType),
		RefDate:       dateutils.InferReference(text, p.now()),
	}

	rule := p.selectRule(doc)
	method := models.ParsingRegex
	ext := rule.Extract(doc)

	if len(ext.Transactions) == 0 && rule.ID != p.fallback.ID {
		p.logger.Debug("Rule found nothing, trying generic line rule",
			logging.F("rule", rule.ID),
			logging.F(logging.FieldBank, doc.Bank))
		if generic := p.fallback.Extract(doc); len(generic.Transactions) > 0 {
			ext = generic
			method = models.ParsingHybrid
		}
	}

	confidence := 0.0
	if len(ext.Transactions) > 0 && ext.Scanned > 0 {
		confidence = float64(ext.Matched) / float64(ext.Scanned)
		if confidence > 1 {
			confidence = 1
		}
	}

	p.logger.Debug("Statement parsed",
		logging.F("rule", rule.ID),
		logging.F(logging.FieldBank, doc.Bank),
		logging.F(logging.FieldStatementType, doc.StatementType),
		logging.F(logging.FieldCount, len(ext.Transactions)),
		logging.F(logging.FieldConfidence, confidence))

	txs := ext.Transactions
	if txs == nil {
		txs = []models.ParsedTransaction{}
	}

	return models.ParserResult{
		Transactions:  txs,
		Bank:          doc.Bank,
		StatementType: doc.StatementType,
		Metadata: models.ParserMetadata{
			TotalTransactions: len(txs),
			ParsingMethod:     method,
			Confidence:        confidence,
		},
	}
}

func (p *Parser) selectRule(doc *Document) Rule {
	for _, r := range p.rules {
		if r.Detect(doc) {
			return r
		}
	}
	return p.fallback
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
