package review

import (
	"context"
	"sync"
)

// MockPrompter is a test implementation of the Prompter interface. Unscripted
// candidates resolve to the default resolution.
type MockPrompter struct {
	scripted map[string]Resolution
	Prompts  []MatchPrompt
	def      Resolution
	mu       sync.Mutex
}

// NewMockPrompter creates a mock prompter with the given default resolution.
func NewMockPrompter(def Resolution) *MockPrompter {
	return &MockPrompter{
		scripted: make(map[string]Resolution),
		def:      def,
	}
}

// Script sets the resolution returned for one candidate id.
func (m *MockPrompter) Script(candidateID string, resolution Resolution) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripted[candidateID] = resolution
}

// ResolveMatch records the prompt and returns the scripted resolution.
func (m *MockPrompter) ResolveMatch(_ context.Context, prompt MatchPrompt) (Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if resolution, ok := m.scripted[prompt.Candidate.TempID]; ok {
		return resolution, nil
	}
	return m.def, nil
}
