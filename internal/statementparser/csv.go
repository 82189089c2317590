package statementparser

import (
	"encoding/csv"
	"fmt"
	"strings"

	"fintracker/internal/currencyutils"
	"fintracker/internal/dateutils"
	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

var (
	csvDateHeaders        = []string{"data", "date", "data lancamento", "data da compra"}
	csvDescriptionHeaders = []string{"descricao", "lancamento", "historico", "description", "title", "titulo", "estabelecimento", "memo", "identificador"}
	csvAmountHeaders      = []string{"valor", "amount", "value", "valor (r$)", "valor em r$"}
	csvHolderHeaders      = []string{"portador", "titular", "nome no cartao"}
	csvCardHeaders        = []string{"final do cartao", "cartao", "final"}
	csvInstallmentHeaders = []string{"parcela", "parcelas", "installment"}
)

type csvColumns struct {
	date, description, amount, holder, card, installment int
}

// CSVRule handles delimited exports whose header names a date, a description
// and an amount column. Comma and semicolon delimiters are accepted.
func CSVRule() Rule {
	return Rule{
		ID: "csv",
		Detect: func(doc *Document) bool {
			_, _, err := csvHeader(doc)
			return err == nil
		},
		Extract: extractCSV,
	}
}

func firstLine(doc *Document) string {
	for _, l := range doc.Lines {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

func csvHeader(doc *Document) (csvColumns, rune, error) {
	header := firstLine(doc)
	delim := ','
	if strings.Count(header, ";") > strings.Count(header, ",") {
		delim = ';'
	}
	fields := strings.Split(header, string(delim))
	if len(fields) < 3 {
		return csvColumns{}, delim, fmt.Errorf("not a delimited header")
	}

	cols := csvColumns{
		date:        findColumn(fields, csvDateHeaders),
		description: findColumn(fields, csvDescriptionHeaders),
		amount:      findColumn(fields, csvAmountHeaders),
		holder:      findColumn(fields, csvHolderHeaders),
		card:        findColumn(fields, csvCardHeaders),
		installment: findColumn(fields, csvInstallmentHeaders),
	}
	if cols.date < 0 || cols.description < 0 || cols.amount < 0 {
		return cols, delim, fmt.Errorf("missing date, description or amount column")
	}
	return cols, delim, nil
}

func findColumn(fields []string, names []string) int {
	for _, name := range names {
		for i, f := range fields {
			if textutils.Normalize(strings.Trim(f, `"' `)) == name {
				return i
			}
		}
	}
	return -1
}

func extractCSV(doc *Document) Extraction {
	var ext Extraction

	cols, delim, err := csvHeader(doc)
	if err != nil {
		return ext
	}

	r := csv.NewReader(strings.NewReader(strings.TrimSpace(doc.Text)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return ext
	}

	for _, rec := range records[1:] {
		if len(rec) <= cols.date || len(rec) <= cols.description || len(rec) <= cols.amount {
			continue
		}
		description := strings.TrimSpace(rec[cols.description])
		if description == "" || isSkipLine(description) {
			continue
		}
		ext.Scanned++

		date, err := dateutils.ParseDateNear(rec[cols.date], doc.RefDate)
		if err != nil {
			continue
		}
		amount, err := currencyutils.ParseAmount(rec[cols.amount])
		if err != nil || amount.IsZero() {
			continue
		}
		abs, negative := currencyutils.SplitSign(amount)

		tx := models.ParsedTransaction{
			Date:        dateutils.ToISODate(date),
			Description: description,
			Amount:      abs,
			Mode:        models.ModeSingle,
		}
		if doc.StatementType == models.StatementCreditCard {
			tx.Type = typeFromSign(doc.StatementType, negative, false)
		} else if negative {
			tx.Type = models.TypeExpense
		} else {
			tx.Type = models.TypeIncome
		}

		if cols.holder >= 0 && cols.holder < len(rec) {
			tx.CardHolderName = strings.TrimSpace(rec[cols.holder])
		}
		if cols.card >= 0 && cols.card < len(rec) {
			if d := textutils.LastFourDigits(rec[cols.card]); d != "" {
				tx.CardLastDigits = d
			}
		}
		installmentText := description
		if cols.installment >= 0 && cols.installment < len(rec) && strings.TrimSpace(rec[cols.installment]) != "" {
			installmentText = "parcela " + strings.TrimSpace(rec[cols.installment])
		}
		if n, total, ok := textutils.ExtractInstallment(installmentText); ok {
			tx.Mode = models.ModeInstallment
			tx.InstallmentNumber = n
			tx.InstallmentsTotal = total
		}

		ext.Matched++
		ext.Transactions = append(ext.Transactions, tx)
	}
	return ext
}
