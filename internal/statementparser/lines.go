package statementparser

import (
	"regexp"
	"strings"

	"fintracker/internal/currencyutils"
	"fintracker/internal/dateutils"
	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

type dateStyle int

const (
	numericDates dateStyle = iota
	monthNameDates
	anyDates
)

var (
	numericDateRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+(.+)$`)
	monthDateRe   = regexp.MustCompile(`(?i)^(\d{1,2}\s+(?:de\s+)?(?:jan|fev|feb|mar|abr|apr|mai|may|jun|jul|ago|aug|set|sep|out|oct|nov|dez|dec)[a-zç]*\.?)\s+(.+)$`)

	// holderHeaderRe matches card section headers such as
	// "JOAO SILVA - FINAL 1234" or "Cartão final 5678".
	holderHeaderRe = regexp.MustCompile(`(?i)^(.*?)[\s\-–(]*(?:cart[aã]o\s*)?(?:final|terminado em)\s*(\d{4})\)?\s*$`)
	markerRe       = regexp.MustCompile(`(?i)^\s*([DC+])?\s*$`)

	skipPrefixes = []string{"saldo", "total", "subtotal", "s a l d o", "limite", "pagamento minimo"}
	skipContains = []string{"saldo anterior", "total da fatura", "saldo do dia", "saldo final", "lancamentos futuros"}
)

// lineRule parses one transaction per dated line: date, description, amount.
type lineRule struct {
	dates dateStyle
	// balanceColumn: when two amounts end a line, the first is the value and
	// the second the running balance.
	balanceColumn bool
}

func (r lineRule) extract(doc *Document) Extraction {
	var ext Extraction
	var holder, digits string

	for _, raw := range doc.Lines {
		line := textutils.CollapseSpaces(raw)
		if line == "" {
			continue
		}

		dateTok, rest, ok := r.splitDate(line)
		if !ok {
			if h, d, isHeader := parseHolderHeader(line); isHeader {
				holder, digits = h, d
			}
			continue
		}
		if isSkipLine(rest) {
			continue
		}
		ext.Scanned++

		tx, ok := r.parseRest(rest, doc)
		if !ok {
			continue
		}
		date, err := dateutils.ParseDateNear(dateTok, doc.RefDate)
		if err != nil {
			continue
		}
		tx.Date = dateutils.ToISODate(date)
		tx.CardLastDigits = digits
		tx.CardHolderName = holder

		ext.Matched++
		ext.Transactions = append(ext.Transactions, tx)
	}

	return ext
}

func (r lineRule) splitDate(line string) (string, string, bool) {
	if r.dates == numericDates || r.dates == anyDates {
		if m := numericDateRe.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	if r.dates == monthNameDates || r.dates == anyDates {
		if m := monthDateRe.FindStringSubmatch(line); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// parseRest splits "DESCRIPTION AMOUNT [BALANCE]" and fills everything but the date.
func (r lineRule) parseRest(rest string, doc *Document) (models.ParsedTransaction, bool) {
	var tx models.ParsedTransaction

	locs := currencyutils.AmountPattern.FindAllStringIndex(rest, -1)
	if len(locs) == 0 {
		return tx, false
	}
	last := locs[len(locs)-1]
	if !markerRe.MatchString(rest[last[1]:]) {
		return tx, false
	}

	chosen := last
	marker := rest[last[1]:]
	if r.balanceColumn && len(locs) >= 2 {
		prev := locs[len(locs)-2]
		if between := rest[prev[1]:last[0]]; markerRe.MatchString(between) {
			chosen = prev
			marker = between
		}
	}

	description := strings.TrimSpace(rest[:chosen[0]])
	if description == "" {
		return tx, false
	}

	marker = strings.ToUpper(strings.TrimSpace(marker))
	amountStr := rest[chosen[0]:chosen[1]]
	if marker == "D" || marker == "C" {
		amountStr += marker
	}
	amount, err := currencyutils.ParseAmount(amountStr)
	if err != nil || amount.IsZero() {
		return tx, false
	}
	abs, negative := currencyutils.SplitSign(amount)
	explicitCredit := marker == "C" || marker == "+"

	tx.Description = description
	tx.Amount = abs
	tx.Type = typeFromSign(doc.StatementType, negative, explicitCredit)
	tx.Mode = models.ModeSingle
	if n, total, ok := textutils.ExtractInstallment(description); ok {
		tx.Mode = models.ModeInstallment
		tx.InstallmentNumber = n
		tx.InstallmentsTotal = total
	}
	return tx, true
}

// typeFromSign maps an amount sign to a direction. On invoices unsigned values
// are purchases and negative ones credits; on checking statements negative
// values are debits and unsigned ones are left for keyword detection.
func typeFromSign(st models.StatementType, negative, explicitCredit bool) models.TransactionType {
	if st == models.StatementCreditCard {
		if negative || explicitCredit {
			return models.TypeIncome
		}
		return models.TypeExpense
	}
	switch {
	case negative:
		return models.TypeExpense
	case explicitCredit:
		return models.TypeIncome
	}
	return ""
}

func isSkipLine(rest string) bool {
	n := textutils.Normalize(rest)
	for _, p := range skipPrefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	for _, c := range skipContains {
		if strings.Contains(n, c) {
			return true
		}
	}
	return false
}

func parseHolderHeader(line string) (holder, digits string, ok bool) {
	m := holderHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name := strings.Trim(strings.TrimSpace(m[1]), "-–:()")
	name = strings.TrimSpace(name)
	switch n := textutils.Normalize(name); {
	case n == "", n == "cartao", strings.HasPrefix(n, "cartao de credito"), strings.ContainsAny(n, "0123456789"):
		name = ""
	}
	return name, m[2], true
}
