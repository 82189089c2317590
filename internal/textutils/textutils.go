// Package textutils provides text normalization and statement-line extraction helpers.
package textutils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	installmentRe = regexp.MustCompile(`(\d{1,2})\s*/\s*(\d{1,2})\s*$`)
	parcelaRe     = regexp.MustCompile(`(?i)\bparc(?:ela)?\.?\s*(\d{1,2})\s*(?:/|de)\s*(\d{1,2})\b`)
	spacesRe      = regexp.MustCompile(`\s+`)
	cardDigitsRe  = regexp.MustCompile(`(?i)(?:final|cart[aã]o|card)\D{0,20}(\d{4})\b`)
)

// Normalize lowercases s, strips diacritics and collapses whitespace, so that
// "Alimentação " and "ALIMENTACAO" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(spacesRe.ReplaceAllString(strings.ToLower(folded), " "))
}

// EqualFold reports whether a and b are equal ignoring case and diacritics.
func EqualFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// ContainsFold reports whether s contains substr ignoring case and diacritics.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Normalize(s), Normalize(substr))
}

// ContainsAnyFold reports whether s contains any of the keywords, ignoring case
// and diacritics.
func ContainsAnyFold(s string, keywords []string) bool {
	n := Normalize(s)
	for _, k := range keywords {
		if strings.Contains(n, Normalize(k)) {
			return true
		}
	}
	return false
}

// ExtractInstallment finds an "NN/MM" installment marker at the end of a
// description. Markers with number 0, total below 2 or number above total are
// rejected.
func ExtractInstallment(description string) (number, total int, ok bool) {
	m := installmentRe.FindStringSubmatch(strings.TrimSpace(description))
	if m == nil {
		m = parcelaRe.FindStringSubmatch(description)
	}
	if m == nil {
		return 0, 0, false
	}
	number, _ = strconv.Atoi(m[1])
	total, _ = strconv.Atoi(m[2])
	if number < 1 || total < 2 || number > total {
		return 0, 0, false
	}
	return number, total, true
}

// ExtractCardDigits returns the last four card digits announced in a line such
// as "Cartão final 1234".
func ExtractCardDigits(line string) string {
	if m := cardDigitsRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// LastFourDigits keeps the last four digits of a masked card number such as
// "**** 4321", or returns "" when s has fewer than four digits.
func LastFourDigits(s string) string {
	var digits []rune
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}

// CollapseSpaces trims s and replaces runs of whitespace with a single space.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// CountWords returns the number of space-separated tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
