// Package detector classifies raw statement text: issuing bank, statement
// kind, and the direction of individual transactions.
package detector

import (
	"regexp"
	"strings"

	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

// Bank identifiers returned by DetectBank.
const (
	BankNubank      = "Nubank"
	BankC6          = "C6 Bank"
	BankItau        = "Itaú"
	BankBradesco    = "Bradesco"
	BankSantander   = "Santander"
	BankCaixa       = "Caixa"
	BankBTG         = "BTG Pactual"
	BankXP          = "XP"
	BankMercadoPago = "Mercado Pago"
	BankPicPay      = "PicPay"
	BankSicoob      = "Sicoob"
	BankSicredi     = "Sicredi"
	BankInter       = "Inter"
	BankBancoBrasil = "Banco do Brasil"
)

type bankPattern struct {
	name string
	re   *regexp.Regexp
}

// bankPatterns is checked in order. Issuers whose names are generic words
// ("inter", "brasil", "caixa") come last so they cannot shadow a specific match.
var bankPatterns = []bankPattern{
	{BankNubank, regexp.MustCompile(`\bnu ?bank\b|\bnu pagamentos\b`)},
	{BankC6, regexp.MustCompile(`\bc6 ?bank\b|\bbanco c6\b|\bc6 carbon\b`)},
	{BankMercadoPago, regexp.MustCompile(`\bmercado ?pago\b`)},
	{BankPicPay, regexp.MustCompile(`\bpicpay\b`)},
	{BankBTG, regexp.MustCompile(`\bbtg ?pactual\b|\bbanco btg\b`)},
	{BankXP, regexp.MustCompile(`\bxp investimentos\b|\bbanco xp\b|\bxp visa\b`)},
	{BankSicoob, regexp.MustCompile(`\bsicoob\b`)},
	{BankSicredi, regexp.MustCompile(`\bsicredi\b`)},
	{BankItau, regexp.MustCompile(`\bitau\b|\bitaucard\b|\bitau unibanco\b`)},
	{BankBradesco, regexp.MustCompile(`\bbradesco\b|\bbradescard\b`)},
	{BankSantander, regexp.MustCompile(`\bsantander\b`)},
	{BankInter, regexp.MustCompile(`\bbanco inter\b|\binter\.co\b|\bbancointer\b`)},
	{BankCaixa, regexp.MustCompile(`\bcaixa economica\b|\bcaixa\.gov\b|\bcef\b`)},
	{BankBancoBrasil, regexp.MustCompile(`\bbanco do brasil\b|\bbb\.com\.br\b|\bourocard\b`)},
}

// Banks returns the supported issuers in detection order.
func Banks() []string {
	out := make([]string, len(bankPatterns))
	for i, p := range bankPatterns {
		out[i] = p.name
	}
	return out
}

// DetectBank returns the issuing bank of a statement, or models.BankUnknown.
func DetectBank(text string) string {
	normalized := textutils.Normalize(text)
	for _, p := range bankPatterns {
		if p.re.MatchString(normalized) {
			return p.name
		}
	}
	return models.BankUnknown
}

var (
	creditCardKeywords = []string{
		"fatura", "cartao de credito", "limite disponivel", "limite total",
		"pagamento minimo", "melhor data de compra", "vencimento da fatura",
		"total da fatura", "anuidade", "compras parceladas", "fechamento",
		"encargos rotativo",
	}
	checkingKeywords = []string{
		"extrato", "conta corrente", "saldo anterior", "saldo disponivel",
		"saldo do dia", "agencia", "pix recebido", "pix enviado", "ted ",
		"transferencia", "deposito", "rendimento", "tarifa",
	}
)

// DetectStatementType scores text against credit-card and checking vocabulary
// and returns the higher-scoring kind. Ties resolve to checking.
func DetectStatementType(text string) models.StatementType {
	normalized := textutils.Normalize(text)
	if score(normalized, creditCardKeywords) > score(normalized, checkingKeywords) {
		return models.StatementCreditCard
	}
	return models.StatementChecking
}

func score(normalized string, keywords []string) int {
	total := 0
	for _, k := range keywords {
		total += strings.Count(normalized, k)
	}
	return total
}

// ResolveStatementType returns the caller's explicit type when valid,
// otherwise the detected one.
func ResolveStatementType(text string, userType models.StatementType) models.StatementType {
	if userType.Valid() {
		return userType
	}
	return DetectStatementType(text)
}
