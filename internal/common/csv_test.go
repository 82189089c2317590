package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fintracker/internal/logging"
	"fintracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{
			Date:              "2024-03-05",
			Name:              "LOJA ELETRO 05/06",
			Amount:            decimal.RequireFromString("300"),
			Type:              models.TypeExpense,
			CategoryID:        "cat-1",
			Mode:              models.ModeInstallment,
			InstallmentNumber: models.IntPtr(5),
			InstallmentsTotal: models.IntPtr(6),
			DueDate:           models.StringPtr("2024-04-10"),
			CardID:            models.StringPtr("card-1"),
			Source:            models.SourceCreditCardImport,
		},
		{
			Date:   "2024-03-06",
			Name:   "PADARIA; CENTRAL",
			Amount: decimal.RequireFromString("25.5"),
			Type:   models.TypeExpense,
			Mode:   models.ModeSingle,
			Source: models.SourceCreditCardImport,
		},
	}
}

func TestWriteTransactionsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "transactions.csv")
	logger := logging.NewMockLogger()

	require.NoError(t, WriteTransactionsToCSV(sampleTransactions(), path, ';', logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "date;name;amount;type;category_id"))
	assert.Equal(t, "2024-03-05;LOJA ELETRO 05/06;300.00;expense;cat-1;parcelada;5;6;2024-04-10;card-1;;;credit_card_import;false", lines[1])
	assert.Contains(t, lines[2], `"PADARIA; CENTRAL"`)
	assert.Contains(t, lines[2], "25.50")
	assert.True(t, logger.HasEntry("INFO", "Transactions written to CSV"))
}

func TestWriteTransactionsToCSV_Nil(t *testing.T) {
	err := WriteTransactionsToCSV(nil, filepath.Join(t.TempDir(), "x.csv"), ',', logging.NewMockLogger())
	assert.Error(t, err)
}

func TestReadCSVFile_ManualEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	content := "date,name,amount,type,category,installment,installments,recurring_months,due_date,paid\n" +
		"2024-03-01,Geladeira,\"1.500,00\",expense,1,1,10,,2024-03-10,true\n" +
		"2024-03-05,Salário,5000,income,10,,,12,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	rows, err := ReadCSVFile[ManualEntryRow](path, logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Geladeira", rows[0].Name)
	assert.Equal(t, "1.500,00", rows[0].Amount)
	assert.Equal(t, 10, rows[0].Installments)
	assert.True(t, rows[0].Paid)
	assert.Equal(t, 12, rows[1].Months)
	assert.Equal(t, 0, rows[1].Installments)
}

func TestReadCSVFile_Missing(t *testing.T) {
	_, err := ReadCSVFile[ManualEntryRow](filepath.Join(t.TempDir(), "nope.csv"), logging.NewMockLogger())
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"total": 2}))
	assert.Equal(t, "{\n  \"total\": 2\n}\n", buf.String())

	path := filepath.Join(t.TempDir(), "nested", "r.json")
	require.NoError(t, WriteJSONFile(path, []string{"a"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a"`)
}
