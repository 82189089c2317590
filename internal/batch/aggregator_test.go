package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fintracker/internal/importer"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, name, amount string) models.Transaction {
	return models.Transaction{
		Date:   date,
		Name:   name,
		Amount: decimal.RequireFromString(amount),
		Type:   models.TypeExpense,
	}
}

func fakeImport(results map[string][]models.Transaction, errs map[string]error) ImportFunc {
	return func(_ context.Context, path string) (*importer.Result, error) {
		if err, ok := errs[path]; ok {
			return nil, err
		}
		txs := results[path]
		return &importer.Result{
			Transactions: txs,
			Metadata:     importer.Metadata{Method: models.MethodFastParser, TotalTransactions: len(txs)},
		}, nil
	}
}

func TestAggregate_MergesAndDeduplicates(t *testing.T) {
	logger := logging.NewMockLogger()
	results := map[string][]models.Transaction{
		"/in/marco.ofx": {
			tx("2024-03-20", "MERCADO", "50.00"),
			tx("2024-03-05", "PADARIA", "10.00"),
			tx("2024-03-05", "PADARIA", "10.00"),
		},
		"/in/abril.ofx": {
			tx("2024-03-20", "Mercado ", "50"),
			tx("2024-04-02", "FARMACIA", "30.00"),
		},
	}
	agg := NewAggregator(fakeImport(results, nil), logger)

	summary, err := agg.Aggregate(context.Background(), []string{"/in/marco.ofx", "/in/abril.ofx"})
	require.NoError(t, err)

	var got []string
	for _, tx := range summary.Transactions {
		got = append(got, tx.Date+" "+tx.Name)
	}
	assert.Equal(t, []string{
		"2024-03-05 PADARIA",
		"2024-03-05 PADARIA",
		"2024-03-20 MERCADO",
		"2024-04-02 FARMACIA",
	}, got, "repeats inside one statement are kept, repeats across statements are not")
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, DateRange{Start: "2024-03-05", End: "2024-04-02"}, summary.DateRange)
	require.Len(t, summary.Files, 2)
	assert.Equal(t, "marco.ofx", summary.Files[0].File)
	assert.Equal(t, 3, summary.Files[0].Count)
	assert.True(t, logger.HasEntry("WARN", "Duplicate transaction skipped"))
}

func TestAggregate_DifferentInstallmentsAreDistinct(t *testing.T) {
	a := tx("2024-03-06", "LOJA", "100")
	a.InstallmentNumber = models.IntPtr(1)
	b := a
	b.InstallmentNumber = models.IntPtr(2)

	agg := NewAggregator(fakeImport(map[string][]models.Transaction{"a": {a}, "b": {b}}, nil), logging.NewMockLogger())
	summary, err := agg.Aggregate(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, summary.Transactions, 2)
	assert.Zero(t, summary.Duplicates)
}

func TestAggregate_FailedFileIsSkipped(t *testing.T) {
	errs := map[string]error{"bad.pdf": errors.New("corrupt pdf")}
	results := map[string][]models.Transaction{"good.txt": {tx("2024-01-01", "X", "1")}}
	agg := NewAggregator(fakeImport(results, errs), logging.NewMockLogger())

	summary, err := agg.Aggregate(context.Background(), []string{"bad.pdf", "good.txt"})
	require.NoError(t, err)
	assert.Len(t, summary.Transactions, 1)
	assert.Equal(t, "corrupt pdf", summary.Files[0].Error)
	assert.Nil(t, summary.Files[0].Metadata)
	assert.Empty(t, summary.Files[1].Error)
}

func TestAggregate_FatalErrorAborts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"catalog", &importerror.CatalogError{Type: string(models.TypeIncome)}},
		{"canceled", fmt.Errorf("import: %w", context.Canceled)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(fakeImport(nil, map[string]error{"a": tt.err}), logging.NewMockLogger())
			_, err := agg.Aggregate(context.Background(), []string{"a", "b"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "a: ")
		})
	}
}

func TestDateRange_String(t *testing.T) {
	assert.Equal(t, "", DateRange{}.String())
	assert.Equal(t, "2024-01-01_2024-01-31", DateRange{Start: "2024-01-01", End: "2024-01-31"}.String())
}

func TestDateRangeOf_Empty(t *testing.T) {
	assert.Equal(t, DateRange{}, DateRangeOf(nil))
}
