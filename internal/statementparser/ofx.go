package statementparser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"fintracker/internal/currencyutils"
	"fintracker/internal/dateutils"
	"fintracker/internal/models"

	"gopkg.in/xmlpath.v2"
)

var (
	ofxBlockRe = regexp.MustCompile(`(?is)<STMTTRN>(.*?)</STMTTRN>`)

	sgmlDateRe   = sgmlTag("DTPOSTED")
	sgmlAmountRe = sgmlTag("TRNAMT")
	sgmlMemoRe   = sgmlTag("MEMO")
	sgmlNameRe   = sgmlTag("NAME")

	ofxTrnPath    = xmlpath.MustCompile("//STMTTRN")
	ofxDatePath   = xmlpath.MustCompile("DTPOSTED")
	ofxAmountPath = xmlpath.MustCompile("TRNAMT")
	ofxMemoPath   = xmlpath.MustCompile("MEMO")
	ofxNamePath   = xmlpath.MustCompile("NAME")
)

// ofxRecord is one <STMTTRN> block, independent of the OFX dialect.
type ofxRecord struct {
	date, amount, memo, name string
}

// OFXRule handles OFX exports: 2.x XML through xmlpath, 1.x SGML through
// tag regexes.
func OFXRule() Rule {
	return Rule{
		ID: "ofx",
		Detect: func(doc *Document) bool {
			upper := strings.ToUpper(doc.Text)
			return strings.Contains(upper, "<OFX>") || strings.Contains(upper, "<STMTTRN>")
		},
		Extract: extractOFX,
	}
}

func extractOFX(doc *Document) Extraction {
	records, err := ofxXMLRecords(doc.Text)
	if err != nil || len(records) == 0 {
		records = ofxSGMLRecords(doc.Text)
	}

	ext := Extraction{Scanned: len(records)}
	for _, rec := range records {
		tx, ok := rec.toParsed(doc.RefDate)
		if !ok {
			continue
		}
		ext.Matched++
		ext.Transactions = append(ext.Transactions, tx)
	}
	return ext
}

func ofxXMLRecords(text string) ([]ofxRecord, error) {
	if !strings.Contains(strings.ToUpper(text), "</TRNAMT>") {
		return nil, fmt.Errorf("not an XML OFX document")
	}
	start := strings.Index(text, "<OFX>")
	if start == -1 {
		return nil, fmt.Errorf("missing <OFX> root")
	}

	root, err := xmlpath.Parse(strings.NewReader(text[start:]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX XML: %w", err)
	}

	var records []ofxRecord
	iter := ofxTrnPath.Iter(root)
	for iter.Next() {
		node := iter.Node()
		var rec ofxRecord
		rec.date, _ = ofxDatePath.String(node)
		rec.amount, _ = ofxAmountPath.String(node)
		rec.memo, _ = ofxMemoPath.String(node)
		rec.name, _ = ofxNamePath.String(node)
		records = append(records, rec)
	}
	return records, nil
}

func ofxSGMLRecords(text string) []ofxRecord {
	var records []ofxRecord
	for _, m := range ofxBlockRe.FindAllStringSubmatch(text, -1) {
		block := m[1]
		records = append(records, ofxRecord{
			date:   sgmlField(block, sgmlDateRe),
			amount: sgmlField(block, sgmlAmountRe),
			memo:   sgmlField(block, sgmlMemoRe),
			name:   sgmlField(block, sgmlNameRe),
		})
	}
	return records
}

// sgmlTag matches an unclosed SGML element and captures its value.
func sgmlTag(tag string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)<%s>([^<\r\n]*)`, tag))
}

func sgmlField(block string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(block); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// toParsed converts a record. OFX amounts are always signed: negative values
// leave the account, positive ones enter it.
func (r ofxRecord) toParsed(ref time.Time) (models.ParsedTransaction, bool) {
	var tx models.ParsedTransaction

	description := strings.TrimSpace(r.memo)
	if description == "" {
		description = strings.TrimSpace(r.name)
	}
	if description == "" {
		return tx, false
	}

	date, err := dateutils.ParseDateNear(r.date, ref)
	if err != nil {
		return tx, false
	}
	amount, err := currencyutils.ParseAmount(r.amount)
	if err != nil || amount.IsZero() {
		return tx, false
	}
	abs, negative := currencyutils.SplitSign(amount)

	tx.Date = dateutils.ToISODate(date)
	tx.Description = description
	tx.Amount = abs
	tx.Type = models.TypeIncome
	if negative {
		tx.Type = models.TypeExpense
	}
	tx.Mode = models.ModeSingle
	return tx, true
}
