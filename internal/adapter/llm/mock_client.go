package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockClient answers without calling a model. It is selected by MODE=MOCK.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// CreateChatCompletion returns a canned recommendation or follow-up answer.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content := m.generateMockResponse(req)
	prompt := m.estimateTokens(req)

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Model:   req.Model,
		Content: content,
		Usage: &Usage{
			PromptTokens:     prompt,
			CompletionTokens: len(content) / 4,
			TotalTokens:      prompt + len(content)/4,
		},
	}, nil
}

// generateMockResponse summarises the prompt for an initial request (one
// starting with a system message) and echoes the question otherwise.
func (m *MockClient) generateMockResponse(req *ChatCompletionRequest) string {
	var lastUser string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUser = req.Messages[i].Content
			break
		}
	}

	if len(req.Messages) > 0 && req.Messages[0].Role == "system" {
		reviews := strings.Count(lastUser, "review: ")
		return fmt.Sprintf("[MOCK] Business recommendation based on %d reviews: keep what customers praise and fix what they report.", reviews)
	}
	if lastUser == "" {
		return "[MOCK] No question was asked."
	}
	return fmt.Sprintf("[MOCK] Answer to %q.", truncate(lastUser, 100))
}

// estimateTokens provides a rough token count estimate.
func (m *MockClient) estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
