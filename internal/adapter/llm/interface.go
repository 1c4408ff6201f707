// Package llm provides an abstraction for chat-completion API clients.
package llm

import "context"

// LLMClient defines the interface for chat-completion operations.
type LLMClient interface {
	// CreateChatCompletion sends the full message list and returns one completion.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure the clients implement LLMClient.
var (
	_ LLMClient = (*Client)(nil)
	_ LLMClient = (*MockClient)(nil)
)

// ChatCompletionRequest is a provider-neutral chat completion request.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage represents a chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse carries the first choice of a completion.
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
