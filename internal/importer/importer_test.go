package importer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"fintracker/internal/categorizer"
	"fintracker/internal/extractor"
	"fintracker/internal/importerror"
	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/postprocess"
	"fintracker/internal/statementparser"
	"fintracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idFood       = "11111111-1111-1111-1111-111111111111"
	idOutrosDesp = "33333333-3333-3333-3333-333333333333"
	idOutrosRec  = "55555555-5555-5555-5555-555555555555"
)

const invoiceText = `FATURA DO CARTAO DE CREDITO
Vencimento 10/04/2024
05/03/2024 PADARIA CENTRAL 25,50
06/03/2024 LOJA ELETRO 05/06 300,00
07/03/2024 PAGAMENTO RECEBIDO -500,00
`

var promptItemRe = regexp.MustCompile(`(?m)^\d+\. \[`)

func testStore() *store.MockStore {
	return &store.MockStore{
		Categories: []models.Category{
			{ID: idFood, Name: "Alimentação", Type: models.TypeExpense},
			{ID: idOutrosDesp, Name: "Outros Despesas", Type: models.TypeExpense},
			{ID: idOutrosRec, Name: "Outros Receitas", Type: models.TypeIncome},
		},
		CreditCards: []models.CreditCard{{ID: "card-1", LastFourDigits: "1234", ClosingDay: 10, DueDay: 20}},
	}
}

// fakeModel answers extraction prompts with extraction and every other
// prompt with one food category per listed transaction.
func fakeModel(extraction string) *llm.MockProvider {
	return &llm.MockProvider{
		ProviderName: "gemini",
		Handler: func(prompt string) (string, error) {
			if strings.Contains(prompt, "DOCUMENTO:") {
				return extraction, nil
			}
			n := len(promptItemRe.FindAllString(prompt, -1))
			ids := make([]string, n)
			for i := range ids {
				ids[i] = `"` + idFood + `"`
			}
			return fmt.Sprintf(`{"categories": [%s]}`, strings.Join(ids, ",")), nil
		},
	}
}

func newTestImporter(s Storage, providers ...llm.Provider) *Importer {
	logger := logging.NewMockLogger()
	chain := llm.NewChain(logger, time.Second, providers...)
	return New(
		statementparser.New(logger),
		categorizer.NewCategorizer(chain, categorizer.Options{}, logger),
		extractor.New(chain, logger),
		postprocess.New(s, logger),
		s,
		logger,
	)
}

func TestImport_FastParser(t *testing.T) {
	provider := fakeModel(`{"transactions": []}`)
	im := newTestImporter(testStore(), provider)

	res, err := im.Import(context.Background(), Request{UserID: "u", Text: invoiceText, StatementType: models.StatementCreditCard})
	require.NoError(t, err)

	assert.Equal(t, models.MethodFastParser, res.Metadata.Method)
	assert.Equal(t, models.StatementCreditCard, res.Metadata.StatementType)
	assert.Empty(t, res.Metadata.Error)
	assert.Greater(t, res.Metadata.Confidence, 0.0)

	require.Len(t, res.Transactions, 2, "invoice payment line is filtered")
	assert.Equal(t, 2, res.Metadata.TotalTransactions)

	padaria := res.Transactions[0]
	assert.Equal(t, "PADARIA CENTRAL", padaria.Name)
	assert.Equal(t, idFood, padaria.CategoryID)
	assert.Equal(t, models.SourceCreditCardImport, padaria.Source)
	assert.False(t, padaria.IsPaid)
	require.NotNil(t, padaria.DueDate)
	assert.Equal(t, "2024-04-10", *padaria.DueDate)

	loja := res.Transactions[1]
	assert.Equal(t, models.ModeInstallment, loja.Mode)
	assert.Equal(t, 5, *loja.InstallmentNumber)
	assert.Equal(t, 6, *loja.InstallmentsTotal)

	for _, p := range provider.Prompts() {
		assert.NotContains(t, p, "DOCUMENTO:", "full extraction is never invoked when the parser succeeds")
	}
}

func TestImport_AIFallback(t *testing.T) {
	extraction := `{"transactions": [
		{"date": "2024-03-05", "description": "MERCADO BOM PRECO", "amount": 80, "type": "expense", "category_id": "` + idFood + `", "card_last_digits": "1234"},
		{"date": "2024-03-06", "description": "PAGTO. POR DEB EM C/C", "amount": 500, "type": "income", "category_id": "` + idOutrosRec + `"}
	]}`
	s := testStore()
	im := newTestImporter(s, fakeModel(extraction))

	res, err := im.Import(context.Background(), Request{UserID: "u", Text: "documento sem linhas reconhecíveis", StatementType: models.StatementCreditCard})
	require.NoError(t, err)

	assert.Equal(t, models.MethodAIFallback, res.Metadata.Method)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "MERCADO BOM PRECO", res.Transactions[0].Name)
	assert.Equal(t, "card-1", *res.Transactions[0].CardID)
	assert.Equal(t, "2024-03-20", *res.Transactions[0].DueDate)
}

func TestImport_CouldNotExtract(t *testing.T) {
	im := newTestImporter(testStore(),
		llm.NewMockProvider("gemini", "", errors.New("down")),
		llm.NewMockProvider("openai", "", errors.New("down")))

	res, err := im.Import(context.Background(), Request{UserID: "u", Text: "imagem escaneada"})
	require.NoError(t, err)
	assert.Equal(t, models.MethodAIFallback, res.Metadata.Method)
	assert.Equal(t, ErrorCouldNotExtract, res.Metadata.Error)
	assert.NotNil(t, res.Transactions)
	assert.Empty(t, res.Transactions)
}

func TestImport_ProvidersDownStillCategorizes(t *testing.T) {
	im := newTestImporter(testStore(), llm.NewMockProvider("gemini", "", errors.New("down")))

	res, err := im.Import(context.Background(), Request{UserID: "u", Text: invoiceText, StatementType: models.StatementCreditCard})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	for _, tx := range res.Transactions {
		assert.Equal(t, idOutrosDesp, tx.CategoryID)
	}
}

func TestImport_CatalogErrorIsFatal(t *testing.T) {
	s := testStore()
	s.Categories = s.Categories[:2]
	im := newTestImporter(s)

	text := "01/03/2024 SALARIO EMPRESA 5.000,00\n"
	_, err := im.Import(context.Background(), Request{UserID: "u", Text: text, StatementType: models.StatementChecking})
	require.Error(t, err)
	assert.True(t, importerror.IsCatalogError(err))
}

func TestImport_InvalidStatementType(t *testing.T) {
	im := newTestImporter(testStore())
	_, err := im.Import(context.Background(), Request{UserID: "u", Text: invoiceText, StatementType: "savings"})
	require.Error(t, err)
	var ve *importerror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestImport_StorageErrorPropagates(t *testing.T) {
	s := testStore()
	s.GetCategoriesError = errors.New("connection refused")
	im := newTestImporter(s)

	_, err := im.Import(context.Background(), Request{UserID: "u", Text: invoiceText})
	assert.EqualError(t, err, "connection refused")
}

func TestImportAndSave(t *testing.T) {
	s := testStore()
	im := newTestImporter(s, fakeModel(`{"transactions": []}`))

	res, err := im.ImportAndSave(context.Background(), Request{UserID: "u", Text: invoiceText, StatementType: models.StatementCreditCard})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.NotEmpty(t, res.Transactions[0].ID)
	assert.Len(t, s.Transactions, 2)
	assert.Equal(t, "u", s.Transactions[0].UserID)
}

func TestImportAndSave_NothingToSave(t *testing.T) {
	s := testStore()
	im := newTestImporter(s)

	res, err := im.ImportAndSave(context.Background(), Request{UserID: "u", Text: "nada"})
	require.NoError(t, err)
	assert.Equal(t, ErrorCouldNotExtract, res.Metadata.Error)
	assert.Empty(t, s.Transactions)
}
