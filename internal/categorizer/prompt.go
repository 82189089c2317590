package categorizer

import (
	"fmt"
	"strings"

	"fintracker/internal/models"
)

// CatalogLines renders the catalog as "id | name | type | keywords" lines.
// It is shared with the full-document extractor.
func CatalogLines(catalog []models.CategoryForAI) string {
	var sb strings.Builder
	for _, c := range catalog {
		fmt.Fprintf(&sb, "%s | %s | %s | %s\n", c.ID, c.Name, c.Type, strings.Join(hintsFor(c), ", "))
	}
	return sb.String()
}

func buildCategorizationPrompt(txs []models.ParsedTransaction, catalog []models.CategoryForAI) string {
	var sb strings.Builder

	sb.WriteString("Você é um assistente que classifica transações financeiras brasileiras.\n\n")
	sb.WriteString("CATEGORIAS DISPONÍVEIS (id | nome | tipo | palavras-chave):\n")
	sb.WriteString(CatalogLines(catalog))

	sb.WriteString("\nTRANSAÇÕES:\n")
	for i, tx := range txs {
		fmt.Fprintf(&sb, "%d. [%s] %s (R$ %s)\n", i, tx.Type, tx.Description, tx.Amount.StringFixed(2))
	}

	fmt.Fprintf(&sb, `
REGRAS:
- Escolha para cada transação a categoria mais adequada, preferindo categorias do mesmo tipo (income/expense).
- Use o id da categoria, exatamente como listado.
- Se nenhuma categoria servir, use a categoria "Outros" do tipo da transação.

Responda APENAS com um objeto JSON no formato {"categories": ["<id>", ...]}
contendo exatamente %d elementos, na mesma ordem das transações.
`, len(txs))

	return sb.String()
}
