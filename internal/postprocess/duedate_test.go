package postprocess

import (
	"testing"

	"fintracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDueDate_CreditCard(t *testing.T) {
	card := &models.CreditCard{ClosingDay: 10, DueDay: 20}

	tests := []struct {
		name     string
		date     string
		card     *models.CreditCard
		expected string
	}{
		{"before closing", "2024-03-09", card, "2024-03-20"},
		{"on closing day", "2024-03-10", card, "2024-04-20"},
		{"after closing", "2024-03-15", card, "2024-04-20"},
		{"december rolls over", "2024-12-25", card, "2025-01-20"},
		{"default cycle, first day", "2024-03-01", nil, "2024-04-10"},
		{"default cycle, late", "2024-03-28", nil, "2024-04-10"},
		{"due day clamped to month end", "2024-01-05", &models.CreditCard{ClosingDay: 3, DueDay: 31}, "2024-02-29"},
		{"invalid card days use defaults", "2024-03-05", &models.CreditCard{ClosingDay: 0, DueDay: 40}, "2024-04-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDueDate(tt.date, models.StatementCreditCard, tt.card)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateDueDate_CheckingIsTransactionDate(t *testing.T) {
	card := &models.CreditCard{ClosingDay: 10, DueDay: 20}
	for _, d := range []string{"2024-01-01", "2024-02-29", "2024-12-31", "2025-06-15"} {
		got, err := CalculateDueDate(d, models.StatementChecking, card)
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestCalculateDueDate_InvalidDate(t *testing.T) {
	_, err := CalculateDueDate("15/03/2024", models.StatementCreditCard, nil)
	assert.Error(t, err)
}
