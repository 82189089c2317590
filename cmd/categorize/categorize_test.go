package categorize

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"fintracker/internal/config"
	"fintracker/internal/container"
	"fintracker/internal/llm"
	"fintracker/internal/logging"
	"fintracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContainer(t *testing.T, seed bool, providers ...llm.Provider) *container.Container {
	t.Helper()
	logger := logging.NewMockLogger()
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	if seed {
		_, err = st.SeedDefaultCategories(context.Background(), "u")
		require.NoError(t, err)
	}
	cfg := &config.Config{
		AI:     config.AIConfig{TimeoutSeconds: 5},
		Import: config.ImportConfig{BatchSize: 15, BatchConcurrency: 3, BatchThreshold: 20},
	}
	return container.NewContainerWith(cfg, logger, st, nil, providers...)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		providers []llm.Provider
		opts      Options
		want      string
	}{
		{
			name:      "provider answer",
			providers: []llm.Provider{llm.NewMockProvider("gemini", `{"categories": ["Transporte"]}`, nil)},
			opts:      Options{Description: "UBER TRIP", Amount: "R$ 23,90"},
			want:      store.SeedCategoryID("u", "2") + "\tTransporte\n",
		},
		{
			name: "no providers expense",
			opts: Options{Description: "UBER TRIP"},
			want: store.SeedCategoryID("u", "9") + "\tOutros Despesas\n",
		},
		{
			name: "no providers income",
			opts: Options{Description: "PIX RECEBIDO", Type: "income"},
			want: store.SeedCategoryID("u", "13") + "\tOutros Receitas\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t, true, tt.providers...)
			var out bytes.Buffer
			require.NoError(t, Run(context.Background(), c, "u", tt.opts, &out))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		seed bool
		opts Options
		msg  string
	}{
		{"empty description", true, Options{Description: "  "}, "description"},
		{"bad type", true, Options{Description: "X", Type: "transfer"}, "transfer"},
		{"bad amount", true, Options{Description: "X", Amount: "abc"}, "amount"},
		{"no catalog", false, Options{Description: "X"}, "seed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t, tt.seed)
			err := Run(context.Background(), c, "u", tt.opts, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
