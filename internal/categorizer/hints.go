package categorizer

import (
	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

// defaultHints gives example keywords for common category names, used in
// prompts when the stored category carries none. Keys are normalized names.
var defaultHints = map[string][]string{
	"alimentacao":     {"supermercado", "mercado", "padaria", "ifood", "restaurante", "lanchonete"},
	"transporte":      {"uber", "99", "posto", "combustivel", "estacionamento", "pedagio", "metro"},
	"moradia":         {"aluguel", "condominio", "iptu", "luz", "agua", "gas", "internet"},
	"saude":           {"farmacia", "drogaria", "hospital", "clinica", "laboratorio", "plano de saude"},
	"educacao":        {"escola", "faculdade", "curso", "livraria", "mensalidade"},
	"lazer":           {"cinema", "netflix", "spotify", "show", "viagem", "hotel"},
	"vestuario":       {"renner", "riachuelo", "c&a", "zara", "calcados"},
	"compras":         {"amazon", "mercado livre", "magazine luiza", "shopee", "americanas"},
	"servicos":        {"assinatura", "telefone", "celular", "tarifa", "anuidade"},
	"pets":            {"petshop", "petz", "cobasi", "veterinario"},
	"salario":         {"salario", "folha", "proventos", "pagto salario"},
	"investimentos":   {"rendimento", "resgate", "dividendos", "cdb", "tesouro"},
	"reembolso":       {"estorno", "reembolso", "cashback", "chargeback"},
	"transferencias":  {"pix recebido", "ted recebida", "transferencia recebida"},
	"outros despesas": {},
	"outros receitas": {},
}

// hintsFor returns the category's own keywords, or the defaults for its name.
func hintsFor(c models.CategoryForAI) []string {
	if len(c.Keywords) > 0 {
		return c.Keywords
	}
	return defaultHints[textutils.Normalize(c.Name)]
}
