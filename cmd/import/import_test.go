package importcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fintracker/internal/batch"
	"fintracker/internal/config"
	"fintracker/internal/container"
	"fintracker/internal/importer"
	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoice = `FATURA DO CARTAO DE CREDITO
Vencimento 10/04/2024
05/03/2024 PADARIA CENTRAL 25,50
06/03/2024 LOJA ELETRO 05/06 300,00
`

func newTestContainer(t *testing.T, providers ...llm.Provider) (*container.Container, *store.GormStore) {
	t.Helper()
	logger := logging.NewMockLogger()
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	_, err = st.SeedDefaultCategories(context.Background(), "u")
	require.NoError(t, err)

	cfg := &config.Config{
		CSV:    config.CSVConfig{Delimiter: ";"},
		AI:     config.AIConfig{TimeoutSeconds: 5},
		Import: config.ImportConfig{BatchSize: 15, BatchConcurrency: 3, BatchThreshold: 20},
	}
	return container.NewContainerWith(cfg, logger, st, nil, providers...), st
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_PrintsJSON(t *testing.T) {
	c, st := newTestContainer(t, llm.NewMockProvider("gemini", `{"categories": ["Alimentação", "Lazer"]}`, nil))
	input := writeFile(t, "fatura.txt", invoice)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), c, "u", Options{Input: input}, &out))

	var res importer.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, models.MethodFastParser, res.Metadata.Method)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, store.SeedCategoryID("u", "1"), res.Transactions[0].CategoryID)
	assert.Equal(t, models.ModeInstallment, res.Transactions[1].Mode)

	saved, err := st.GetTransactions(context.Background(), "u")
	require.NoError(t, err)
	assert.Empty(t, saved, "nothing is persisted without --save")
}

func TestRun_SaveAndCSV(t *testing.T) {
	c, st := newTestContainer(t, llm.NewMockProvider("gemini", `{"categories": ["Alimentação", "Lazer"]}`, nil))
	input := writeFile(t, "fatura.txt", invoice)
	output := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, Run(context.Background(), c, "u", Options{Input: input, Output: output, Save: true}, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date;name;amount")

	saved, err := st.GetTransactions(context.Background(), "u")
	require.NoError(t, err)
	assert.NotEmpty(t, saved)
}

func TestRun_NothingExtracted(t *testing.T) {
	c, _ := newTestContainer(t)
	input := writeFile(t, "empty.txt", "documento sem transacoes")

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), c, "u", Options{Input: input}, &out))
	assert.Contains(t, out.String(), importer.ErrorCouldNotExtract)
}

func TestRun_Validation(t *testing.T) {
	c, _ := newTestContainer(t)

	tests := []struct {
		name string
		opts Options
		msg  string
	}{
		{"missing input", Options{}, "input"},
		{"bad type", Options{Input: "x.txt", StatementType: "savings"}, "savings"},
		{"missing file", Options{Input: filepath.Join(t.TempDir(), "nope.txt")}, "nope.txt"},
		{"unsupported input", Options{Input: writeFile(t, "notes.docx", "x")}, "unsupported statement file"},
		{"unsupported output", Options{Input: "x.txt", Output: "out.xml"}, "unsupported output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(context.Background(), c, "u", tt.opts, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRun_Dir(t *testing.T) {
	c, st := newTestContainer(t, llm.NewMockProvider("gemini", `{"categories": ["Alimentação", "Lazer"]}`, nil))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marco.txt"), []byte(invoice), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marco_copia.txt"), []byte(invoice), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leia-me.md"), []byte("ignored"), 0600))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), c, "u", Options{Dir: dir, Save: true}, &out))

	var summary batch.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Len(t, summary.Files, 2)
	assert.Len(t, summary.Transactions, 2)
	assert.Equal(t, 2, summary.Duplicates)

	saved, err := st.GetTransactions(context.Background(), "u")
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestRun_EmptyDir(t *testing.T) {
	c, _ := newTestContainer(t)
	err := Run(context.Background(), c, "u", Options{Dir: t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "no statement files")
}

func TestCmd_Flags(t *testing.T) {
	assert.Equal(t, "import", Cmd.Use)
	for _, name := range []string{"input", "dir", "output", "type", "save"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
}
