package importerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError(t *testing.T) {
	cause := errors.New("429 too many requests")
	err := &ProviderError{Provider: "gemini", Op: "generate", Err: cause}

	assert.Equal(t, "gemini: generate failed: 429 too many requests", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestCatalogError(t *testing.T) {
	err := fmt.Errorf("categorize: %w", &CatalogError{Type: "income"})

	assert.True(t, IsCatalogError(err))
	assert.True(t, errors.Is(err, ErrNoCategoryOfType))
	assert.Contains(t, err.Error(), `no "income" category`)

	var catalogErr *CatalogError
	assert.True(t, errors.As(err, &catalogErr))
	assert.Equal(t, "income", catalogErr.Type)
}

func TestIsCatalogError_Other(t *testing.T) {
	assert.False(t, IsCatalogError(errors.New("boom")))
	assert.False(t, IsCatalogError(ErrAllTiersFailed))
	assert.False(t, IsCatalogError(nil))
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "amount",
			err:      &ParseError{Parser: "nubank", Field: "amount", Value: "12,3x", Err: errors.New("invalid decimal")},
			expected: "nubank: failed to parse amount='12,3x': invalid decimal",
		},
		{
			name:     "empty date",
			err:      &ParseError{Parser: "generic", Field: "date", Value: "", Err: errors.New("empty date")},
			expected: "generic: failed to parse date='': empty date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.NotNil(t, tt.err.Unwrap())
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "installmentsTotal", Reason: "must be greater than installmentNumber"}
	assert.Equal(t, "invalid installmentsTotal: must be greater than installmentNumber", err.Error())
}
