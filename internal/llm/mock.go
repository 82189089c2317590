package llm

import (
	"context"
	"sync"
)

// MockProvider implements Provider for testing. It answers with Handler when
// set, otherwise with Response/Err, and records every prompt it receives.
type MockProvider struct {
	ProviderName string
	Response     string
	Err          error
	Handler      func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// NewMockProvider creates a MockProvider returning the given reply or error.
func NewMockProvider(name, response string, err error) *MockProvider {
	return &MockProvider{ProviderName: name, Response: response, Err: err}
}

func (m *MockProvider) Name() string { return m.ProviderName }

func (m *MockProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Handler != nil {
		return m.Handler(prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Calls returns how many times GenerateJSON was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of the received prompts in call order.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
