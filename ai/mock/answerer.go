package mock

import (
	"context"
	"fmt"
	"sync/atomic"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via a function field.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, uses default deterministic behavior.
	AnswerFunc func(ctx context.Context, prompt string) (string, error)

	callCount atomic.Int64
}

// NewMockAnswerer creates a mock answerer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnswerer().
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns a deterministic reply derived from the prompt.
func (m *MockAnswerer) Answer(ctx context.Context, prompt string) (string, error) {
	m.callCount.Add(1)

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, prompt)
	}

	// Default: echo a short deterministic answer
	return fmt.Sprintf("answer(%d chars)", len(prompt)), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockAnswerer) Reset() {
	m.callCount.Store(0)
	m.AnswerFunc = nil
}
