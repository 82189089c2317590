package categorizer

import (
	"strings"

	"fintracker/internal/importerror"
	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

// ResolveCategoryReference maps a model's answer to a catalog ID. The answer is
// ideally an ID; a category name is accepted too, compared without case or
// accents. ok is false when nothing matches.
func ResolveCategoryReference(value string, catalog []models.CategoryForAI) (string, bool) {
	v := strings.Trim(strings.TrimSpace(value), `"'`)
	if v == "" {
		return "", false
	}

	for _, c := range catalog {
		if c.ID == v {
			return c.ID, true
		}
	}
	for _, c := range catalog {
		if strings.EqualFold(c.ID, v) {
			return c.ID, true
		}
	}

	normalized := textutils.Normalize(v)
	for _, c := range catalog {
		if textutils.Normalize(c.Name) == normalized {
			return c.ID, true
		}
	}
	return "", false
}

// outrosNames are the canonical catch-all category names per type.
var outrosNames = map[models.TransactionType]string{
	models.TypeExpense: "Outros Despesas",
	models.TypeIncome:  "Outros Receitas",
}

// ResolveOutros picks the catch-all category for a transaction type:
// the exact "Outros Despesas"/"Outros Receitas" name, then any category of that
// type whose name contains "outros", then the last category of that type in
// catalog order. A catalog with no category of that type is a configuration
// error and yields *importerror.CatalogError.
func ResolveOutros(catalog []models.CategoryForAI, txType models.TransactionType) (string, error) {
	if !txType.Valid() {
		txType = models.TypeExpense
	}

	want := textutils.Normalize(outrosNames[txType])
	for _, c := range catalog {
		if c.Type == txType && textutils.Normalize(c.Name) == want {
			return c.ID, nil
		}
	}

	for _, c := range catalog {
		if c.Type == txType && strings.Contains(textutils.Normalize(c.Name), "outros") {
			return c.ID, nil
		}
	}

	for i := len(catalog) - 1; i >= 0; i-- {
		if catalog[i].Type == txType {
			return catalog[i].ID, nil
		}
	}

	return "", &importerror.CatalogError{Type: string(txType)}
}
