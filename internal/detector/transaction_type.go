package detector

import (
	"regexp"

	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

// incomePatterns are matched against the normalized description, in order.
var incomePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsalario\b|\bpagto salario\b|\bproventos\b|\bfolha de pagamento\b`),
	regexp.MustCompile(`\bpix recebido\b|\bpix receb\b|\brecebimento pix\b`),
	regexp.MustCompile(`\bted recebida?o?\b|\btransf(?:erencia)? recebida\b|\bdoc recebido\b`),
	regexp.MustCompile(`\bdeposito\b|\bdep dinheiro\b`),
	regexp.MustCompile(`\bestorno\b|\breembolso\b|\bdevolucao\b`),
	regexp.MustCompile(`\bcashback\b`),
	regexp.MustCompile(`\bchargeback\b`),
	regexp.MustCompile(`\brendimento\b|\bresgate\b`),
}

// DetectTransactionType classifies a description as income when it matches an
// income pattern and as expense otherwise.
func DetectTransactionType(description string) models.TransactionType {
	normalized := textutils.Normalize(description)
	for _, re := range incomePatterns {
		if re.MatchString(normalized) {
			return models.TypeIncome
		}
	}
	return models.TypeExpense
}

// FillTypes sets Type on every transaction that does not have one yet.
func FillTypes(transactions []models.ParsedTransaction) {
	for i := range transactions {
		if !transactions[i].Type.Valid() {
			transactions[i].Type = DetectTransactionType(transactions[i].Description)
		}
	}
}
