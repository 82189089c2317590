package extractor

import (
	"fmt"
	"strings"

	"fintracker/internal/categorizer"
	"fintracker/internal/models"
)

const creditCardRules = `REGRAS PARA FATURA DE CARTÃO DE CRÉDITO:
- Ignore linhas de pagamento da fatura (PAGTO, PAGAMENTO, DEB EM C/C, DEBITO EM C/C).
- Ignore totais, saldos, limites e encargos informativos.
- Compras são "expense"; estornos, créditos e reembolsos são "income".
- A fatura pode ter seções por portador: cada seção começa com o número/final do cartão
  e termina com "Total para NOME". Atribua a cada lançamento o card_holder_name e o
  card_last_digits da seção em que ele aparece.
- Parcelas aparecem como "NN/MM" no fim da descrição: preencha installment_number e
  installments_total e use mode "parcelada".
`

const checkingRules = `REGRAS PARA EXTRATO DE CONTA CORRENTE:
- Ignore linhas de saldo (SALDO ANTERIOR, SALDO DO DIA, SALDO FINAL).
- PIX/TED/DOC recebidos, depósitos, salários e rendimentos são "income".
- PIX/TED/DOC enviados, pagamentos, compras no débito, saques e tarifas são "expense".
- Valores com sinal negativo ou marcados com "D" são saídas.
`

func buildExtractionPrompt(text string, st models.StatementType, catalog []models.CategoryForAI) string {
	var sb strings.Builder

	sb.WriteString("Você é um especialista em extratos bancários e faturas de cartão brasileiros.\n")
	sb.WriteString("Extraia TODAS as transações do documento abaixo.\n\n")

	if st == models.StatementCreditCard {
		sb.WriteString(creditCardRules)
	} else {
		sb.WriteString(checkingRules)
	}

	sb.WriteString("\nCATEGORIAS DISPONÍVEIS (id | nome | tipo | palavras-chave):\n")
	sb.WriteString(categorizer.CatalogLines(catalog))

	sb.WriteString(`
FORMATO DE SAÍDA: responda APENAS com JSON no formato
{"transactions": [{
  "date": "YYYY-MM-DD",
  "description": "texto original",
  "amount": 123.45,
  "type": "income" | "expense",
  "category_id": "<id da categoria>",
  "mode": "avulsa" | "parcelada",
  "installment_number": 1,
  "installments_total": 1,
  "card_last_digits": "1234",
  "card_holder_name": "NOME"
}]}
O campo amount é sempre positivo. Campos desconhecidos podem ser omitidos.
`)

	fmt.Fprintf(&sb, "\nDOCUMENTO:\n%s\n", text)
	return sb.String()
}
