// Package models holds the data shapes shared by the import pipeline,
// the manual-entry path and the storage layer.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is one statement line before categorization.
// Amount is never negative; direction lives in Type.
type ParsedTransaction struct {
	Date              string          `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Type              TransactionType `json:"type,omitempty"`
	Mode              Mode            `json:"mode,omitempty"`
	InstallmentNumber int             `json:"installment_number,omitempty"`
	InstallmentsTotal int             `json:"installments_total,omitempty"`
	CardLastDigits    string          `json:"card_last_digits,omitempty"`
	CardHolderName    string          `json:"card_holder_name,omitempty"`
}

// CategorizedTransaction is a ParsedTransaction with a resolved category.
type CategorizedTransaction struct {
	ParsedTransaction
	CategoryID string `json:"categoryId"`
}

// ParserMetadata carries the local parser's diagnostic signals.
type ParserMetadata struct {
	TotalTransactions int           `json:"totalTransactions"`
	ParsingMethod     ParsingMethod `json:"parsingMethod"`
	Confidence        float64       `json:"confidence"`
}

// ParserResult is the output of the local statement parser.
type ParserResult struct {
	Transactions  []ParsedTransaction `json:"transactions"`
	Bank          string              `json:"bank"`
	StatementType StatementType       `json:"statementType"`
	Metadata      ParserMetadata      `json:"metadata"`
}

// Transaction is the persisted record shape, shared by manual entry and import.
type Transaction struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	UserID            string          `gorm:"index;size:64" json:"user_id,omitempty"`
	Date              string          `gorm:"size:10;not null" json:"date"`
	Amount            decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Type              TransactionType `gorm:"size:16;not null" json:"type"`
	CategoryID        string          `gorm:"size:36" json:"categoryId"`
	Name              string          `json:"name"`
	Mode              Mode            `gorm:"size:16" json:"mode"`
	InstallmentNumber *int            `json:"installmentNumber,omitempty"`
	InstallmentsTotal *int            `json:"installmentsTotal,omitempty"`
	CardID            *string         `gorm:"size:36" json:"cardId"`
	FamilyMemberID    *string         `gorm:"size:36" json:"familyMemberId"`
	DueDate           *string         `gorm:"size:10" json:"dueDate"`
	IsPaid            bool            `json:"isPaid"`
	IsRecurring       bool            `json:"isRecurring"`
	RecurringMonths   *int            `json:"recurringMonths,omitempty"`
	Source            Source          `gorm:"size:32" json:"source"`
	CreatedAt         time.Time       `json:"createdAt"`

	// CardHolderName is the holder as printed on the statement. Display only.
	CardHolderName string `gorm:"-" json:"cardHolderName,omitempty"`
}

// CreditCard is a registered card; LastFourDigits is the import join key.
type CreditCard struct {
	ID                   string  `gorm:"primaryKey;size:36" json:"id"`
	UserID               string  `gorm:"index;size:64" json:"user_id,omitempty"`
	Name                 string  `json:"name"`
	LastFourDigits       string  `gorm:"size:4;index" json:"lastFourDigits"`
	ClosingDay           int     `json:"closingDay"`
	DueDay               int     `json:"dueDay"`
	HolderFamilyMemberID *string `gorm:"size:36" json:"holderFamilyMemberId"`
}

// FamilyMember is a person transactions can be attributed to.
type FamilyMember struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	UserID       string `gorm:"index;size:64" json:"user_id,omitempty"`
	Name         string `gorm:"not null" json:"name"`
	Relationship string `gorm:"size:32" json:"relationship"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v, or nil when v is empty.
func StringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
