package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is an offline generator for local development. It echoes the
// first line of the prompt that mentions ingredients or a question.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Generate(_ context.Context, prompt string) (string, error) {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if q, ok := strings.CutPrefix(line, "Please answer this question: "); ok {
			return fmt.Sprintf("(mock) Good question about %q. Any recipe will forgive a little improvisation.", q), nil
		}
		if i := strings.Index(line, "using these ingredients: "); i >= 0 {
			items := strings.TrimSuffix(line[i+len("using these ingredients: "):], ".")
			return fmt.Sprintf("# Mock Skillet\n\nA quick dish made from %s.\n\n## Ingredients\n- %s\n\n## Steps\n1. Combine everything.\n2. Serve.\n\nTotal time: 10 minutes\nServes: 2\n",
				items, strings.Join(strings.Split(items, ","), "\n-")), nil
		}
	}
	return "(mock) I can only talk about recipes.", nil
}
