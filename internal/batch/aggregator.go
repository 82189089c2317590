// Package batch imports every statement in a set of files and merges the
// results into one chronological list without cross-file duplicates.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fintracker/internal/categorizer"
	"fintracker/internal/importer"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/textutils"
)

// DateRange represents a date range with start and end dates, as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start == "" || dr.End == "" {
		return ""
	}
	return dr.Start + "_" + dr.End
}

// FileResult is the outcome of importing one file.
type FileResult struct {
	File     string             `json:"file"`
	Metadata *importer.Metadata `json:"metadata,omitempty"`
	Count    int                `json:"count"`
	Error    string             `json:"error,omitempty"`
}

// Summary is the merged outcome of a batch import.
type Summary struct {
	Files        []FileResult         `json:"files"`
	Transactions []models.Transaction `json:"transactions"`
	Duplicates   int                  `json:"duplicates"`
	DateRange    DateRange            `json:"dateRange"`
}

// ImportFunc imports a single file.
type ImportFunc func(ctx context.Context, path string) (*importer.Result, error)

// Aggregator runs an ImportFunc over many files.
type Aggregator struct {
	logger   logging.Logger
	importFn ImportFunc
}

// NewAggregator creates an Aggregator that imports each file with importFn.
func NewAggregator(importFn ImportFunc, logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logger, importFn: importFn}
}

// Aggregate imports files in order. A file that fails is recorded and
// skipped; fatal errors (an incomplete catalog, cancellation) abort the batch.
// Transactions repeated across files, as happens with overlapping statement
// periods, are kept once.
func (a *Aggregator) Aggregate(ctx context.Context, files []string) (*Summary, error) {
	summary := &Summary{Files: make([]FileResult, 0, len(files)), Transactions: []models.Transaction{}}
	seen := make(map[string]int)

	for i, file := range files {
		fr := FileResult{File: filepath.Base(file)}
		res, err := a.importFn(ctx, file)
		if err != nil {
			if categorizer.IsFatal(err) {
				return nil, fmt.Errorf("%s: %w", fr.File, err)
			}
			a.logger.WithError(err).Warn("Failed to import file", logging.F(logging.FieldInputFile, file))
			fr.Error = err.Error()
			summary.Files = append(summary.Files, fr)
			continue
		}

		meta := res.Metadata
		fr.Metadata = &meta
		fr.Count = len(res.Transactions)
		summary.Files = append(summary.Files, fr)

		for _, tx := range res.Transactions {
			key := duplicateKey(tx)
			if owner, ok := seen[key]; ok && owner != i {
				summary.Duplicates++
				a.logger.Warn("Duplicate transaction skipped",
					logging.F(logging.FieldInputFile, fr.File),
					logging.F("date", tx.Date),
					logging.F("amount", tx.Amount.String()),
					logging.F(logging.FieldDescription, tx.Name))
				continue
			}
			seen[key] = i
			summary.Transactions = append(summary.Transactions, tx)
		}
	}

	SortChronologically(summary.Transactions)
	summary.DateRange = DateRangeOf(summary.Transactions)

	a.logger.Info("Batch imported",
		logging.F("files", len(files)),
		logging.F(logging.FieldCount, len(summary.Transactions)),
		logging.F("duplicates", summary.Duplicates))
	return summary, nil
}

// duplicateKey identifies a transaction across statements: same date, amount,
// type, card, installment and normalized name.
func duplicateKey(tx models.Transaction) string {
	card := ""
	if tx.CardID != nil {
		card = *tx.CardID
	}
	installment := 0
	if tx.InstallmentNumber != nil {
		installment = *tx.InstallmentNumber
	}
	return strings.Join([]string{
		tx.Date,
		tx.Amount.StringFixed(2),
		string(tx.Type),
		card,
		fmt.Sprint(installment),
		textutils.Normalize(tx.Name),
	}, "|")
}

// SortChronologically sorts transactions by date, then by amount. Equal
// elements keep their order.
func SortChronologically(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Date != transactions[j].Date {
			return transactions[i].Date < transactions[j].Date
		}
		return transactions[i].Amount.LessThan(transactions[j].Amount)
	})
}

// DateRangeOf returns the first and last dates among transactions.
func DateRangeOf(transactions []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range transactions {
		if dr.Start == "" || tx.Date < dr.Start {
			dr.Start = tx.Date
		}
		if dr.End == "" || tx.Date > dr.End {
			dr.End = tx.Date
		}
	}
	return dr
}
