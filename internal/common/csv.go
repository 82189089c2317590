// Package common holds the file formats shared by the CLI commands.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fintracker/internal/logging"
	"fintracker/internal/models"

	"github.com/gocarina/gocsv"
)

// TransactionRow is the flat CSV layout of an imported transaction.
type TransactionRow struct {
	Date              string `csv:"date"`
	Name              string `csv:"name"`
	Amount            string `csv:"amount"`
	Type              string `csv:"type"`
	CategoryID        string `csv:"category_id"`
	Mode              string `csv:"mode"`
	InstallmentNumber string `csv:"installment_number"`
	InstallmentsTotal string `csv:"installments_total"`
	DueDate           string `csv:"due_date"`
	CardID            string `csv:"card_id"`
	FamilyMemberID    string `csv:"family_member_id"`
	CardHolderName    string `csv:"card_holder_name"`
	Source            string `csv:"source"`
	IsPaid            bool   `csv:"is_paid"`
}

// ManualEntryRow is one line of a manual-entry CSV file.
type ManualEntryRow struct {
	Date         string `csv:"date"`
	Name         string `csv:"name"`
	Amount       string `csv:"amount"`
	Type         string `csv:"type"`
	Category     string `csv:"category"`
	Installment  int    `csv:"installment,omitempty"`
	Installments int    `csv:"installments,omitempty"`
	Months       int    `csv:"recurring_months,omitempty"`
	DueDate      string `csv:"due_date,omitempty"`
	Paid         bool   `csv:"paid,omitempty"`
}

// ToRow flattens a transaction for CSV output.
func ToRow(tx models.Transaction) TransactionRow {
	return TransactionRow{
		Date:              tx.Date,
		Name:              tx.Name,
		Amount:            tx.Amount.StringFixed(2),
		Type:              string(tx.Type),
		CategoryID:        tx.CategoryID,
		Mode:              string(tx.Mode),
		InstallmentNumber: intString(tx.InstallmentNumber),
		InstallmentsTotal: intString(tx.InstallmentsTotal),
		DueDate:           stringValue(tx.DueDate),
		CardID:            stringValue(tx.CardID),
		FamilyMemberID:    stringValue(tx.FamilyMemberID),
		CardHolderName:    tx.CardHolderName,
		Source:            string(tx.Source),
		IsPaid:            tx.IsPaid,
	}
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger.Debug("Reading CSV file", logging.F(logging.FieldInputFile, filePath))

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Debug("Read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// WriteTransactionsToCSV writes transactions to csvFile with the given
// delimiter, creating parent directories as needed.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, delimiter rune, logger logging.Logger) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]TransactionRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = ToRow(tx)
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Transactions written to CSV",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))
	return nil
}

func intString(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
