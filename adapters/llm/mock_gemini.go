package llm

import (
	"context"
	"sync"

	"github.com/satriahrh/arunika/companion/domain/repositories"
)

var mockReplies = []string{
	"Hello there! Great to see you!",
	"Hmm, what was that?",
	"I'm listening.",
	"Sorry, I missed that one.",
}

// MockLLM is an offline stand-in for Gemini. It cycles through canned
// replies, or returns Err when set.
type MockLLM struct {
	Replies []string
	Err     error

	mu      sync.Mutex
	next    int
	prompts []string
}

var _ repositories.LargeLanguageModel = (*MockLLM)(nil)

// NewMockLLM creates a mock that cycles through replies, or the built-in
// replies when none are given
func NewMockLLM(replies ...string) *MockLLM {
	if len(replies) == 0 {
		replies = mockReplies
	}
	return &MockLLM{Replies: replies}
}

// Generate implements repositories.LargeLanguageModel
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}

	reply := m.Replies[m.next%len(m.Replies)]
	m.next++
	return reply, nil
}

// Prompts returns the prompts received so far
func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
