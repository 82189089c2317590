package statementparser

import (
	"fintracker/internal/detector"
)

// DefaultRules returns the built-in registry, without the generic fallback.
func DefaultRules() []Rule {
	return []Rule{
		OFXRule(),
		CSVRule(),
		bankRule(detector.BankNubank, lineRule{dates: monthNameDates}),
		bankRule(detector.BankC6, lineRule{dates: numericDates}),
		bankRule(detector.BankInter, lineRule{dates: anyDates}),
		bankRule(detector.BankMercadoPago, lineRule{dates: anyDates}),
		bankRule(detector.BankItau, lineRule{dates: numericDates, balanceColumn: true}),
		bankRule(detector.BankBradesco, lineRule{dates: numericDates, balanceColumn: true}),
		bankRule(detector.BankSantander, lineRule{dates: numericDates, balanceColumn: true}),
		bankRule(detector.BankCaixa, lineRule{dates: numericDates, balanceColumn: true}),
		bankRule(detector.BankBancoBrasil, lineRule{dates: numericDates, balanceColumn: true}),
	}
}

// GenericRule accepts any document and parses dated lines in either date style.
func GenericRule() Rule {
	lr := lineRule{dates: anyDates, balanceColumn: true}
	return Rule{
		ID:      "generic",
		Detect:  func(*Document) bool { return true },
		Extract: lr.extract,
	}
}

func bankRule(bank string, lr lineRule) Rule {
	return Rule{
		ID:      bank,
		Detect:  func(doc *Document) bool { return doc.Bank == bank },
		Extract: lr.extract,
	}
}
