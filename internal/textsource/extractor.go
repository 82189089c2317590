package textsource

// Extractor pulls the text content out of a document file.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// MockExtractor implements Extractor for testing purposes.
type MockExtractor struct {
	MockText string
	MockErr  error
	Paths    []string
}

// NewMockExtractor creates a new MockExtractor with the given mock data.
func NewMockExtractor(mockText string, mockErr error) *MockExtractor {
	return &MockExtractor{MockText: mockText, MockErr: mockErr}
}

// ExtractText returns the predefined mock text or error.
func (e *MockExtractor) ExtractText(path string) (string, error) {
	e.Paths = append(e.Paths, path)
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
