package mocks

import (
	"context"
	"sync"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/generation"
)

var (
	_ generation.Generator   = (*MockGenerator)(nil)
	_ generation.Transcriber = (*MockTranscriber)(nil)
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt domain.PromptMessage, cfg generation.ModelConfig) (string, error)

	// Default response values
	Text string
	Err  error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// Prompts contains all prompts passed to Generate calls
		Prompts []domain.PromptMessage

		// Configs contains all model configs passed to Generate calls
		Configs []generation.ModelConfig

		// Contexts contains all contexts passed to Generate calls
		Contexts []context.Context
	}
}

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(
	ctx context.Context,
	prompt domain.PromptMessage,
	cfg generation.ModelConfig,
) (string, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.Prompts = append(m.GenerateCalls.Prompts, prompt)
	m.GenerateCalls.Configs = append(m.GenerateCalls.Configs, cfg)
	m.GenerateCalls.Contexts = append(m.GenerateCalls.Contexts, ctx)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt, cfg)
	}

	return m.Text, m.Err
}

// CallCount returns the number of Generate calls so far.
func (m *MockGenerator) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// LastPrompt returns the prompt of the most recent Generate call.
func (m *MockGenerator) LastPrompt() (domain.PromptMessage, bool) {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	if len(m.GenerateCalls.Prompts) == 0 {
		return domain.PromptMessage{}, false
	}
	return m.GenerateCalls.Prompts[len(m.GenerateCalls.Prompts)-1], true
}

// NewMockGeneratorWithText creates a MockGenerator that returns text
func NewMockGeneratorWithText(text string) *MockGenerator {
	return &MockGenerator{Text: text}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewMockGeneratorWithDefaultCards creates a MockGenerator with two well formed cards
func NewMockGeneratorWithDefaultCards() *MockGenerator {
	return &MockGenerator{
		Text: "Q: What is hexagonal architecture?\n" +
			"A: A pattern that isolates the domain from external concerns.\n\n" +
			"Q: What is Dependency Inversion?\n" +
			"A: High-level modules depend on abstractions, not on low-level modules.",
	}
}

// MockGeneratorWithNoCards creates a MockGenerator that answers with the empty sentinel
func MockGeneratorWithNoCards() *MockGenerator {
	return &MockGenerator{Text: generation.NoFlashcardsSentinel}
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.Prompts = nil
	m.GenerateCalls.Configs = nil
	m.GenerateCalls.Contexts = nil
}

// MockTranscriber implements generation.Transcriber for testing
type MockTranscriber struct {
	// TranscribeFn allows test cases to mock the Transcribe behavior
	TranscribeFn func(ctx context.Context, audio []byte, mimeType string) (string, error)

	// Default response values
	Text string
	Err  error

	// Call tracking for verification
	TranscribeCalls struct {
		mu sync.Mutex

		Count     int
		Audio     [][]byte
		MIMETypes []string
	}
}

// Transcribe implements the generation.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	m.TranscribeCalls.mu.Lock()
	m.TranscribeCalls.Count++
	m.TranscribeCalls.Audio = append(m.TranscribeCalls.Audio, audio)
	m.TranscribeCalls.MIMETypes = append(m.TranscribeCalls.MIMETypes, mimeType)
	m.TranscribeCalls.mu.Unlock()

	if m.TranscribeFn != nil {
		return m.TranscribeFn(ctx, audio, mimeType)
	}
	return m.Text, m.Err
}

// CallCount returns the number of Transcribe calls so far.
func (m *MockTranscriber) CallCount() int {
	m.TranscribeCalls.mu.Lock()
	defer m.TranscribeCalls.mu.Unlock()
	return m.TranscribeCalls.Count
}
