package classifier

import (
	"context"
	"fmt"
	"strings"
)

// MockClassifier is a deterministic keyword classifier for tests and local runs.
type MockClassifier struct{}

// NewMockClassifier creates a new mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

var mockKeywords = []struct {
	words []string
	class int
}{
	{[]string{"excellent", "amazing", "great", "love"}, 5},
	{[]string{"good", "nice", "happy"}, 4},
	{[]string{"terrible", "awful", "worst", "hate"}, 1},
	{[]string{"bad", "broke", "poor", "slow"}, 2},
}

// Classify returns a class from the first matching keyword group, 3 otherwise.
func (m *MockClassifier) Classify(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return 0, fmt.Errorf("[MOCK] empty review")
	}
	for _, group := range mockKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.class, nil
			}
		}
	}
	return 3, nil
}
