// Package postprocess turns categorized statement lines into persisted
// transaction records: it drops invoice-payment noise, re-derives
// installments, links family members and cards, and stamps due dates.
package postprocess

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/textutils"

	"golang.org/x/sync/errgroup"
)

// Store is the storage surface the post-processor needs.
type Store interface {
	GetAllCreditCards(ctx context.Context, userID string) ([]models.CreditCard, error)
	FindFamilyMemberByName(ctx context.Context, userID, name string) (*models.FamilyMember, error)
	CreateFamilyMember(ctx context.Context, member models.FamilyMember, userID string) (*models.FamilyMember, error)
}

// invoiceNoise marks lines that settle a previous invoice.
var invoiceNoise = []string{"PAGTO", "PAGAMENTO", "DEB EM C/C", "DEBITO EM C/C"}

// spouseMinTokens is the name length from which a new member is guessed to be a spouse.
const spouseMinTokens = 3

// Processor runs the post-processing stages in order.
type Processor struct {
	store  Store
	logger logging.Logger
	now    func() time.Time
}

// New creates a Processor.
func New(store Store, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{store: store, logger: logger, now: time.Now}
}

// Process runs every stage over txs. When cards is nil the user's cards are
// loaded from the store. Storage errors are returned as-is.
func (p *Processor) Process(ctx context.Context, txs []models.CategorizedTransaction, st models.StatementType, userID string, cards []models.CreditCard) ([]models.Transaction, error) {
	kept := FilterInvoiceNoise(txs, st)
	if dropped := len(txs) - len(kept); dropped > 0 {
		p.logger.Debug("Invoice payment lines removed", logging.F(logging.FieldCount, dropped))
	}

	kept = ApplyInstallments(kept)

	members, err := p.resolveFamilyMembers(ctx, kept, userID)
	if err != nil {
		return nil, err
	}

	if cards == nil && p.store != nil {
		cards, err = p.store.GetAllCreditCards(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	idx := newCardIndex(cards)

	source := models.SourceBankImport
	if st == models.StatementCreditCard {
		source = models.SourceCreditCardImport
	}
	createdAt := p.now().UTC()

	out := make([]models.Transaction, len(kept))
	for i, tx := range kept {
		rec := toRecord(tx)

		if id, ok := members[holderKey(tx.CardHolderName)]; ok {
			rec.FamilyMemberID = models.StringPtr(id)
		}
		card := idx.match(tx.CardLastDigits, rec.FamilyMemberID)
		if card != nil {
			rec.CardID = models.StringPtr(card.ID)
			if card.HolderFamilyMemberID != nil && *card.HolderFamilyMemberID != "" {
				rec.FamilyMemberID = models.StringPtr(*card.HolderFamilyMemberID)
			}
		}

		due, err := CalculateDueDate(rec.Date, st, card)
		if err != nil {
			p.logger.Warn("Cannot compute due date",
				logging.F(logging.FieldDescription, rec.Name),
				logging.F(logging.FieldError, err.Error()))
		} else {
			rec.DueDate = models.StringPtr(due)
		}
		rec.Source = source
		rec.IsPaid = false
		rec.CreatedAt = createdAt

		out[i] = rec
	}

	p.logger.Debug("Post-processing complete",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldStatementType, string(st)))
	return out, nil
}

// FilterInvoiceNoise drops invoice-payment lines from credit-card statements.
// Checking statements are returned unchanged.
func FilterInvoiceNoise(txs []models.CategorizedTransaction, st models.StatementType) []models.CategorizedTransaction {
	if st != models.StatementCreditCard {
		return txs
	}
	out := make([]models.CategorizedTransaction, 0, len(txs))
	for _, tx := range txs {
		upper := strings.ToUpper(tx.Description)
		noise := false
		for _, marker := range invoiceNoise {
			if strings.Contains(upper, marker) {
				noise = true
				break
			}
		}
		if !noise {
			out = append(out, tx)
		}
	}
	return out
}

// ApplyInstallments re-derives installment markers from descriptions. A
// trailing "NN/MM" overrides whatever was assigned before.
func ApplyInstallments(txs []models.CategorizedTransaction) []models.CategorizedTransaction {
	out := make([]models.CategorizedTransaction, len(txs))
	for i, tx := range txs {
		if n, total, ok := textutils.ExtractInstallment(tx.Description); ok {
			tx.Mode = models.ModeInstallment
			tx.InstallmentNumber = n
			tx.InstallmentsTotal = total
		}
		out[i] = tx
	}
	return out
}

// GuessRelationship is a placeholder heuristic for new family members.
func GuessRelationship(name string) string {
	if textutils.CountWords(name) >= spouseMinTokens {
		return models.RelationshipSpouse
	}
	return models.RelationshipOther
}

func holderKey(name string) string {
	return textutils.Normalize(name)
}

// resolveFamilyMembers finds or creates one member per distinct holder name,
// concurrently, and returns holder key to member ID.
func (p *Processor) resolveFamilyMembers(ctx context.Context, txs []models.CategorizedTransaction, userID string) (map[string]string, error) {
	names := make(map[string]string)
	for _, tx := range txs {
		name := textutils.CollapseSpaces(tx.CardHolderName)
		if name == "" {
			continue
		}
		if _, seen := names[holderKey(name)]; !seen {
			names[holderKey(name)] = name
		}
	}

	result := make(map[string]string, len(names))
	if len(names) == 0 || p.store == nil {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for key, name := range names {
		g.Go(func() error {
			member, err := p.store.FindFamilyMemberByName(gctx, userID, name)
			if err != nil {
				return fmt.Errorf("looking up family member %q: %w", name, err)
			}
			if member == nil {
				member, err = p.store.CreateFamilyMember(gctx, models.FamilyMember{
					Name:         name,
					Relationship: GuessRelationship(name),
				}, userID)
				if err != nil {
					return fmt.Errorf("creating family member %q: %w", name, err)
				}
				p.logger.Info("Family member created from statement",
					logging.F(logging.FieldHolder, name))
			}
			mu.Lock()
			result[key] = member.ID
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func toRecord(tx models.CategorizedTransaction) models.Transaction {
	rec := models.Transaction{
		Date:           tx.Date,
		Amount:         tx.Amount,
		Type:           tx.Type,
		CategoryID:     tx.CategoryID,
		Name:           tx.Description,
		Mode:           tx.Mode,
		CardHolderName: tx.CardHolderName,
	}
	if rec.Mode == "" {
		rec.Mode = models.ModeSingle
	}
	if tx.InstallmentNumber > 0 {
		rec.InstallmentNumber = models.IntPtr(tx.InstallmentNumber)
	}
	if tx.InstallmentsTotal > 0 {
		rec.InstallmentsTotal = models.IntPtr(tx.InstallmentsTotal)
	}
	return rec
}
