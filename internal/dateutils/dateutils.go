// Package dateutils provides the date parsing and month arithmetic used by
// statement parsing, due-date computation and recurring expansion.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts found in Brazilian statements and exports.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutBR       = "02/01/2006"
	DateLayoutBRShort  = "02/01/06"
	DateLayoutBRDashed = "02-01-2006"
	DateLayoutCompact  = "20060102"
)

// CommonFormats are the layouts tried, in order, for full dates.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutBR,
	DateLayoutBRShort,
	DateLayoutBRDashed,
	"2/1/2006",
	"02.01.2006",
	DateLayoutCompact,
}

// monthAbbrev maps Portuguese and English three-letter month names.
var monthAbbrev = map[string]time.Month{
	"JAN": time.January, "FEV": time.February, "FEB": time.February,
	"MAR": time.March, "ABR": time.April, "APR": time.April,
	"MAI": time.May, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "AUG": time.August,
	"SET": time.September, "SEP": time.September, "OUT": time.October,
	"OCT": time.October, "NOV": time.November, "DEZ": time.December,
	"DEC": time.December,
}

var (
	spaceRe      = regexp.MustCompile(`\s+`)
	dayMonthRe   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	dayMonNameRe = regexp.MustCompile(`^(\d{1,2})\s*(?:DE\s+)?([A-Za-zÇç]{3})[A-Za-zÇç]*\.?(?:\s+(\d{4}))?$`)
	fullDateRe   = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)
)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate parses dateStr with any of the known layouts. Dates without a year
// ("15/03", "15 MAR") take refYear.
func ParseDate(dateStr string, refYear int) (time.Time, error) {
	t, _, err := parseDate(dateStr, refYear)
	return t, err
}

// ParseDateNear parses dateStr like ParseDate. A date without a year is placed
// in the year of ref, or in the year before when that would put it after ref,
// so December purchases on a January invoice stay in December of last year.
func ParseDateNear(dateStr string, ref time.Time) (time.Time, error) {
	t, yearless, err := parseDate(dateStr, ref.Year())
	if err != nil || !yearless || !t.After(ref) {
		return t, err
	}
	t, _, err = parseDate(dateStr, ref.Year()-1)
	return t, err
}

func parseDate(dateStr string, refYear int) (time.Time, bool, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, false, fmt.Errorf("empty date")
	}

	// OFX timestamps carry time and zone after the date: 20240315120000[-3:BRT]
	if len(clean) > 8 && isDigits(clean[:8]) {
		clean = clean[:8]
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, false, nil
		}
	}

	if m := dayMonthRe.FindStringSubmatch(clean); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		t, err := build(refYear, time.Month(month), day)
		return t, true, err
	}

	if m := dayMonNameRe.FindStringSubmatch(strings.ToUpper(clean)); m != nil {
		month, ok := monthAbbrev[m[2]]
		if !ok {
			return time.Time{}, false, fmt.Errorf("unknown month %q in date %q", m[2], dateStr)
		}
		day, _ := strconv.Atoi(m[1])
		if m[3] != "" {
			year, _ := strconv.Atoi(m[3])
			t, err := build(year, month, day)
			return t, false, err
		}
		t, err := build(refYear, month, day)
		return t, true, err
	}

	return time.Time{}, false, fmt.Errorf("unable to parse date: %s", dateStr)
}

func build(year int, month time.Month, day int) (time.Time, error) {
	if month < time.January || month > time.December || day < 1 || day > DaysIn(year, month) {
		return time.Time{}, fmt.Errorf("invalid date %02d/%02d/%d", day, month, year)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ToISODate formats t as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// ParseISO parses a YYYY-MM-DD string.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(DateLayoutISO, strings.TrimSpace(s))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by n calendar months, clamping the day to the last day of
// the target month (31 Jan + 1 month = 28/29 Feb).
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	day := t.Day()
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// AddMonthsISO is AddMonths over YYYY-MM-DD strings.
func AddMonthsISO(iso string, n int) (string, error) {
	t, err := ParseISO(iso)
	if err != nil {
		return "", err
	}
	return ToISODate(AddMonths(t, n)), nil
}

// DateInMonth builds a date clamped to the month's length (day 31 in April is 30 April).
func DateInMonth(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// InferReference returns the latest full DD/MM/YYYY date found in text (the
// due date or period end on most statements), or fallback when there is none.
func InferReference(text string, fallback time.Time) time.Time {
	var ref time.Time
	for _, m := range fullDateRe.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t, err := build(year, time.Month(month), day)
		if err == nil && t.After(ref) {
			ref = t
		}
	}
	if ref.IsZero() {
		return fallback
	}
	return ref
}
