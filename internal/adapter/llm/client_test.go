package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateChatCompletion(t *testing.T) {
	var gotBody struct {
		Model    string        `json:"model"`
		Messages []ChatMessage `json:"messages"`
	}
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Improve shipping.  "}}],
			"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/v1", "sk-test", 5*time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: "be helpful"},
			{Role: "user", Content: "reviews"},
			{Role: "assistant", Content: "earlier answer"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "  Improve shipping.  ", resp.Content)
	assert.Equal(t, 13, resp.Usage.TotalTokens)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, DefaultModel, gotBody.Model)
	require.Len(t, gotBody.Messages, 3)
	assert.Equal(t, "system", gotBody.Messages[0].Role)
	assert.Equal(t, "assistant", gotBody.Messages[2].Role)
	assert.Equal(t, "earlier answer", gotBody.Messages[2].Content)
}

func TestClientSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/v1", "bad", 5*time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM API error")
}

func TestClientRejectsUnknownRole(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", "", time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "tool", Content: "x"}},
	})
	assert.Error(t, err)
}

func TestMockClientEchoesLastUserMessage(t *testing.T) {
	m := NewMockClient()
	resp, err := m.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "mock",
		Messages: []ChatMessage{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "answer"},
			{Role: "user", Content: "what about shipping?"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, `"what about shipping?"`)
	assert.Equal(t, "mock", resp.Model)
}

func TestMockClientSummarisesInitialPrompt(t *testing.T) {
	resp, err := NewMockClient().CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: "Provide a recommendation."},
			{Role: "user", Content: "review: a\nsentiment score: 5\nreview: b\nsentiment score: 1\n"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "based on 2 reviews")
}

func TestNewLLMClientMockMode(t *testing.T) {
	assert.IsType(t, &MockClient{}, NewLLMClient(ModeMock, "", "", time.Second))
	assert.IsType(t, &Client{}, NewLLMClient("", "", "key", time.Second))
}
