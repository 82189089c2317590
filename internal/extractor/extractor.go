// Package extractor is the heavy fallback of the import pipeline: when the
// local parser finds nothing, the whole document is sent to the provider
// chain and transactions are extracted and categorized in one shot.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintracker/internal/categorizer"
	"fintracker/internal/currencyutils"
	"fintracker/internal/dateutils"
	"fintracker/internal/detector"
	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/textutils"

	"github.com/shopspring/decimal"
)

// maxDocumentRunes bounds the document text sent in a single prompt.
const maxDocumentRunes = 60000

// ExtractedTransaction is one line as returned by the model. It is looser
// than ParsedTransaction: the category comes back directly.
type ExtractedTransaction struct {
	Date              string                 `json:"date"`
	Description       string                 `json:"description"`
	Amount            decimal.Decimal        `json:"amount"`
	Type              models.TransactionType `json:"type"`
	CategoryID        string                 `json:"category_id"`
	Mode              models.Mode            `json:"mode,omitempty"`
	InstallmentNumber int                    `json:"installment_number,omitempty"`
	InstallmentsTotal int                    `json:"installments_total,omitempty"`
	CardLastDigits    string                 `json:"card_last_digits,omitempty"`
	CardHolderName    string                 `json:"card_holder_name,omitempty"`
}

// Categorized converts the item to the shape the post-processor consumes.
func (e ExtractedTransaction) Categorized() models.CategorizedTransaction {
	return models.CategorizedTransaction{
		ParsedTransaction: models.ParsedTransaction{
			Date:              e.Date,
			Description:       e.Description,
			Amount:            e.Amount,
			Type:              e.Type,
			Mode:              e.Mode,
			InstallmentNumber: e.InstallmentNumber,
			InstallmentsTotal: e.InstallmentsTotal,
			CardLastDigits:    e.CardLastDigits,
			CardHolderName:    e.CardHolderName,
		},
		CategoryID: e.CategoryID,
	}
}

// rawItem accepts amounts as JSON numbers or Brazilian-formatted strings.
type rawItem struct {
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	Amount            json.RawMessage `json:"amount"`
	Type              string          `json:"type"`
	CategoryID        string          `json:"category_id"`
	Category          string          `json:"category"`
	Mode              string          `json:"mode"`
	InstallmentNumber int             `json:"installment_number"`
	InstallmentsTotal int             `json:"installments_total"`
	CardLastDigits    string          `json:"card_last_digits"`
	CardHolderName    string          `json:"card_holder_name"`
}

type extractionReply struct {
	Transactions []rawItem `json:"transactions"`
}

// Extractor prompts the provider chain with a full document.
type Extractor struct {
	chain  *llm.Chain
	logger logging.Logger
	now    func() time.Time
}

// New creates an Extractor over chain.
func New(chain *llm.Chain, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Extractor{chain: chain, logger: logger, now: time.Now}
}

// ExtractWithAI extracts transactions from text. When every provider tier
// fails the result is an empty list and a nil error; the caller reports the
// document as not extractable. Only cancellation and catalog errors escape.
func (e *Extractor) ExtractWithAI(ctx context.Context, text string, statementType models.StatementType, catalog []models.CategoryForAI) ([]ExtractedTransaction, error) {
	if strings.TrimSpace(text) == "" || e.chain.Len() == 0 {
		return []ExtractedTransaction{}, nil
	}
	start := time.Now()

	prompt := buildExtractionPrompt(truncateRunes(text, maxDocumentRunes), statementType, catalog)

	var reply extractionReply
	provider, err := e.chain.Run(ctx, prompt, func(raw string) error {
		reply = extractionReply{}
		if err := json.Unmarshal([]byte(raw), &reply); err != nil {
			return fmt.Errorf("invalid extraction JSON: %w", err)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.WithError(err).Warn("Full-document extraction failed on every tier")
		return []ExtractedTransaction{}, nil
	}

	ref := dateutils.InferReference(text, e.now())
	out := make([]ExtractedTransaction, 0, len(reply.Transactions))
	for _, item := range reply.Transactions {
		tx, ok := normalizeItem(item, statementType, ref)
		if !ok {
			e.logger.Debug("Dropping unusable extracted item",
				logging.F(logging.FieldDescription, item.Description))
			continue
		}
		out = append(out, tx)
	}

	if err := resolveCategories(out, catalog); err != nil {
		return nil, err
	}

	if countHolders(out) == 0 {
		sections := holderSections(text)
		if len(sections) > 1 {
			assigned := assignHolders(out, sections)
			e.logger.Debug("Holder sections re-derived from document text",
				logging.F(logging.FieldCount, assigned))
		}
	}

	e.logger.Info("Document extracted by provider",
		logging.F(logging.FieldProvider, provider),
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return out, nil
}

func normalizeItem(item rawItem, st models.StatementType, ref time.Time) (ExtractedTransaction, bool) {
	desc := strings.TrimSpace(item.Description)
	if desc == "" {
		return ExtractedTransaction{}, false
	}
	date, err := dateutils.ParseDateNear(item.Date, ref)
	if err != nil {
		return ExtractedTransaction{}, false
	}
	amount, err := parseRawAmount(item.Amount)
	if err != nil {
		return ExtractedTransaction{}, false
	}
	abs, negative := currencyutils.SplitSign(amount)

	tx := ExtractedTransaction{
		Date:           dateutils.ToISODate(date),
		Description:    desc,
		Amount:         abs,
		Type:           models.TransactionType(strings.ToLower(strings.TrimSpace(item.Type))),
		CategoryID:     strings.TrimSpace(item.CategoryID),
		CardLastDigits: textutils.LastFourDigits(item.CardLastDigits),
		CardHolderName: textutils.CollapseSpaces(item.CardHolderName),
	}
	if tx.CategoryID == "" {
		tx.CategoryID = strings.TrimSpace(item.Category)
	}

	if !tx.Type.Valid() {
		switch {
		case negative && st == models.StatementChecking:
			tx.Type = models.TypeExpense
		case negative:
			tx.Type = models.TypeIncome
		default:
			tx.Type = detector.DetectTransactionType(desc)
		}
	}

	if item.InstallmentNumber >= 1 && item.InstallmentsTotal >= 2 && item.InstallmentNumber <= item.InstallmentsTotal {
		tx.Mode = models.ModeInstallment
		tx.InstallmentNumber = item.InstallmentNumber
		tx.InstallmentsTotal = item.InstallmentsTotal
	} else {
		tx.Mode = models.ModeSingle
	}

	return tx, true
}

func parseRawAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Zero, errors.New("missing amount")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return currencyutils.ParseAmount(s)
	}
	return decimal.NewFromString(string(raw))
}

// resolveCategories turns model references into catalog IDs. Unresolvable
// references get the Outros category of the item's type.
func resolveCategories(txs []ExtractedTransaction, catalog []models.CategoryForAI) error {
	for i := range txs {
		if id, ok := categorizer.ResolveCategoryReference(txs[i].CategoryID, catalog); ok {
			txs[i].CategoryID = id
			continue
		}
		id, err := categorizer.ResolveOutros(catalog, txs[i].Type)
		if err != nil {
			return err
		}
		txs[i].CategoryID = id
	}
	return nil
}

func countHolders(txs []ExtractedTransaction) int {
	n := 0
	for _, tx := range txs {
		if tx.CardHolderName != "" {
			n++
		}
	}
	return n
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
