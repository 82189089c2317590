package extractor

import (
	"regexp"
	"strings"

	"fintracker/internal/textutils"
)

// totalForRe matches per-holder subtotal lines such as
// "Total para MARIA S OLIVEIRA R$ 1.234,56".
var totalForRe = regexp.MustCompile(`(?i)^\s*total\s+(?:para|de|do titular|do adicional)\s+([^\d$]+?)\s*(?:R\$\s*)?-?[\d.]*,\d{2}\s*$`)

// cardFinalRe finds "final 1234" card markers.
var cardFinalRe = regexp.MustCompile(`(?i)final\s*(\d{4})`)

// minMatchRunes is the description prefix length compared against section lines.
const minMatchRunes = 12

type holderSection struct {
	Holder string
	Digits string
	Lines  []string
}

// holderSections splits text into per-holder sections. A section runs from the
// line after the previous "total para" marker up to its own marker.
func holderSections(text string) []holderSection {
	var sections []holderSection
	var current []string
	for _, line := range strings.Split(text, "\n") {
		m := totalForRe.FindStringSubmatch(line)
		if m == nil {
			current = append(current, line)
			continue
		}
		s := holderSection{Holder: textutils.CollapseSpaces(m[1]), Lines: current}
		for _, l := range current {
			if d := cardFinalRe.FindStringSubmatch(l); d != nil {
				s.Digits = d[1]
				break
			}
		}
		sections = append(sections, s)
		current = nil
	}
	return sections
}

// assignHolders stamps the holder of the section whose lines contain a prefix
// of each description. Returns how many items were assigned.
func assignHolders(txs []ExtractedTransaction, sections []holderSection) int {
	assigned := 0
	for i := range txs {
		needle := textutils.Normalize(txs[i].Description)
		if r := []rune(needle); len(r) > minMatchRunes {
			needle = string(r[:minMatchRunes])
		}
		if needle == "" {
			continue
		}
		for _, s := range sections {
			if sectionContains(s, needle) {
				txs[i].CardHolderName = s.Holder
				if txs[i].CardLastDigits == "" {
					txs[i].CardLastDigits = s.Digits
				}
				assigned++
				break
			}
		}
	}
	return assigned
}

func sectionContains(s holderSection, needle string) bool {
	for _, line := range s.Lines {
		if strings.Contains(textutils.Normalize(line), needle) {
			return true
		}
	}
	return false
}
