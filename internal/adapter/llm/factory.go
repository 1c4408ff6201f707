package llm

import (
	"log/slog"
	"time"
)

// ModeMock indicates mock mode should be used.
const ModeMock = "MOCK"

// NewLLMClient creates an LLM client based on the configured mode.
// If mode is MOCK, returns a MockClient; otherwise returns a real Client.
func NewLLMClient(mode, baseURL, apiKey string, timeout time.Duration) LLMClient {
	if mode == ModeMock {
		slog.Info("MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
