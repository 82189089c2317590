package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		refYear  int
		expected string
		wantErr  bool
	}{
		{"ISO", "2024-03-15", 2000, "2024-03-15", false},
		{"BR full", "15/03/2024", 2000, "2024-03-15", false},
		{"BR short year", "15/03/24", 2000, "2024-03-15", false},
		{"BR dashed", "15-03-2024", 2000, "2024-03-15", false},
		{"day and month only", "05/11", 2023, "2023-11-05", false},
		{"portuguese month", "15 MAR", 2024, "2024-03-15", false},
		{"portuguese month lowercase", "02 fev", 2024, "2024-02-02", false},
		{"month with year", "10 DEZ 2023", 2024, "2023-12-10", false},
		{"OFX timestamp", "20240315120000[-3:BRT]", 2000, "2024-03-15", false},
		{"extra whitespace", "  15/03/2024 ", 2000, "2024-03-15", false},
		{"invalid day", "31/02", 2024, "", true},
		{"unknown month", "15 XYZ", 2024, "", true},
		{"empty", "", 2024, "", true},
		{"garbage", "not a date", 2024, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, tt.refYear)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ToISODate(got))
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		start    string
		months   int
		expected string
	}{
		{"2024-01-15", 1, "2024-02-15"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-11-10", 2, "2025-01-10"},
		{"2024-12-25", 1, "2025-01-25"},
		{"2024-03-31", -1, "2024-02-29"},
		{"2024-05-05", 0, "2024-05-05"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got, err := AddMonthsISO(tt.start, tt.months)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAddMonthsISO_Invalid(t *testing.T) {
	_, err := AddMonthsISO("15/03/2024", 1)
	assert.Error(t, err)
}

func TestDateInMonth(t *testing.T) {
	assert.Equal(t, "2024-04-30", ToISODate(DateInMonth(2024, time.April, 31)))
	assert.Equal(t, "2024-02-29", ToISODate(DateInMonth(2024, time.February, 30)))
	assert.Equal(t, "2024-06-01", ToISODate(DateInMonth(2024, time.June, 0)))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
}

func TestInferReference(t *testing.T) {
	fallback := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	ref := InferReference("Fatura emitida em 05/12/2023\nVencimento 15/12/2023\n10/11 UBER 12,90", fallback)
	assert.Equal(t, "2023-12-15", ToISODate(ref))

	assert.Equal(t, fallback, InferReference("sem datas completas", fallback))
	assert.Equal(t, fallback, InferReference("data invalida 31/02/2024", fallback))
}

func TestParseDateNear(t *testing.T) {
	ref := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"same month before reference", "03/01", "2025-01-03"},
		{"reference day itself", "10/01", "2025-01-10"},
		{"december rolls back a year", "20/12", "2024-12-20"},
		{"month name rolls back a year", "28 DEZ", "2024-12-28"},
		{"explicit year is kept", "20/12/2025", "2025-12-20"},
		{"month name with year is kept", "20 DEZ 2025", "2025-12-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateNear(tt.input, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ToISODate(got))
		})
	}

	_, err := ParseDateNear("sem data", ref)
	assert.Error(t, err)
}
