// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fintracker/internal/common"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"
)

// ParseStatementType validates the --type flag of the import command. An
// empty value means "detect from the document".
func ParseStatementType(s string) (models.StatementType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", nil
	}
	st := models.StatementType(s)
	if !st.Valid() {
		return "", &importerror.ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not credit_card or checking", s)}
	}
	return st, nil
}

// ParseTransactionType validates an income/expense flag, defaulting to expense.
func ParseTransactionType(s string) (models.TransactionType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return models.TypeExpense, nil
	}
	t := models.TransactionType(s)
	if !t.Valid() {
		return "", &importerror.ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not income or expense", s)}
	}
	return t, nil
}

// Delimiter returns the first rune of the configured CSV delimiter.
func Delimiter(s string) rune {
	for _, r := range s {
		return r
	}
	return ','
}

// WriteOutput writes v to outputFile, choosing the format by extension:
// ".csv" writes the transactions as CSV, anything else writes v as JSON.
// An empty outputFile prints JSON to w.
func WriteOutput(w io.Writer, outputFile string, v interface{}, txs []models.Transaction, delimiter rune, log logging.Logger) error {
	if outputFile == "" {
		return common.WriteJSON(w, v)
	}

	if strings.EqualFold(filepath.Ext(outputFile), ".csv") {
		return common.WriteTransactionsToCSV(txs, outputFile, delimiter, log)
	}

	if err := common.WriteJSONFile(outputFile, v); err != nil {
		return err
	}
	log.Info("Results written", logging.F(logging.FieldOutputFile, outputFile))
	return nil
}
