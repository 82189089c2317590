package models

// TransactionType is the direction of money for a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Mode distinguishes single purchases from installment purchases.
type Mode string

const (
	ModeSingle      Mode = "avulsa"
	ModeInstallment Mode = "parcelada"
)

// StatementType is the kind of document being imported.
type StatementType string

const (
	StatementCreditCard StatementType = "credit_card"
	StatementChecking   StatementType = "checking"
)

// Valid reports whether s is one of the known statement types.
func (s StatementType) Valid() bool {
	return s == StatementCreditCard || s == StatementChecking
}

// Source records how a transaction entered the system.
type Source string

const (
	SourceManual           Source = "manual"
	SourceCreditCardImport Source = "credit_card_import"
	SourceBankImport       Source = "bank_statement_import"
)

// ParsingMethod tags how the local parser produced its result.
type ParsingMethod string

const (
	ParsingRegex  ParsingMethod = "regex"
	ParsingHybrid ParsingMethod = "hybrid"
)

// ImportMethod tells the caller which path produced an import result.
type ImportMethod string

const (
	MethodFastParser ImportMethod = "fast_parser"
	MethodAIFallback ImportMethod = "ai_fallback"
)

// BankUnknown is returned by bank detection when no issuer matches.
const BankUnknown = "Desconhecido"

// Relationship values guessed for family members created during import.
const (
	RelationshipSpouse = "spouse"
	RelationshipOther  = "other"
)

// Card billing-cycle defaults used when a transaction has no registered card.
const (
	DefaultClosingDay = 1
	DefaultDueDay     = 10
)
