// Package currencyutils parses and formats Brazilian real amounts as they appear
// in bank statements, invoices and exports.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyRe = regexp.MustCompile(`(?i)R\$|BRL|US\$|USD|\s`)
	// AmountPattern matches a money token with a decimal part: 1.234,56 / -45,90 / 12.50 / 45,90-
	AmountPattern = regexp.MustCompile(`-?(?:R\$\s*)?-?\d{1,3}(?:\.\d{3})*[,.]\d{2}-?|-?(?:R\$\s*)?-?\d+[,.]\d{2}-?`)
)

// ParseAmount parses a signed amount. Negative markers are a leading or trailing
// minus, surrounding parentheses, or a trailing D (debit); a trailing C marks a credit.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "D"):
		negative = true
		s = strings.TrimSpace(s[:len(s)-1])
	case strings.HasSuffix(upper, "C"):
		s = strings.TrimSpace(s[:len(s)-1])
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = !negative
		s = s[1 : len(s)-1]
	}

	s = StandardizeAmount(s)
	if strings.HasSuffix(s, "-") {
		negative = !negative
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s'", amountStr)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and converts the Brazilian grouping
// convention (1.234,56) to one decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	s := currencyRe.ReplaceAllString(amountStr, "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot < lastComma {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(strings.TrimRight(s[lastComma+1:], "-")) <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		// a lone dot followed by exactly three digits is a thousands separator
		if strings.Count(s, ".") > 1 || len(strings.TrimRight(s[lastDot+1:], "-")) == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}

// SplitSign returns the absolute value and whether the amount was negative.
func SplitSign(amount decimal.Decimal) (decimal.Decimal, bool) {
	return amount.Abs(), amount.IsNegative()
}

// FormatBRL formats an amount as "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, grouped.String(), frac)
}
