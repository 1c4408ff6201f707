// Package narrative builds business recommendations from scored reviews.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/john-thuo1/sentiment/internal/adapter/llm"
	"github.com/john-thuo1/sentiment/internal/domain"
)

const (
	// ReviewCharLimit bounds each review quoted in the prompt.
	ReviewCharLimit = 500
	// MessageCharLimit bounds the whole prompt.
	MessageCharLimit = 4096

	// SystemPrompt frames the initial recommendation.
	SystemPrompt = "Provide a thorough Business Recommendation based on the reviews and sentiment scores."
)

// Generator produces the initial recommendation and follow-up answers.
type Generator struct {
	client llm.LLMClient
	model  string
}

// NewGenerator creates a generator using the given chat model.
func NewGenerator(client llm.LLMClient, model string) *Generator {
	return &Generator{client: client, model: model}
}

// TruncateText cuts text to max characters and marks the cut with "...".
func TruncateText(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

// BuildPrompt lists every review with its score.
func BuildPrompt(records []domain.ReviewRecord) string {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "review: %s\nsentiment score: %d\n", TruncateText(rec.Review, ReviewCharLimit), rec.SentimentScore)
	}
	return TruncateText(b.String(), MessageCharLimit)
}

// InitialRecommendation asks for a recommendation covering the whole dataset.
func (g *Generator) InitialRecommendation(ctx context.Context, ds *domain.Dataset) (string, error) {
	return g.complete(ctx, []llm.ChatMessage{
		{Role: string(domain.RoleSystem), Content: SystemPrompt},
		{Role: string(domain.RoleUser), Content: BuildPrompt(ds.Records)},
	})
}

// FollowUp resubmits the entire transcript, which must end with the new question.
func (g *Generator) FollowUp(ctx context.Context, transcript []domain.Message) (string, error) {
	messages := make([]llm.ChatMessage, 0, len(transcript))
	for _, m := range transcript {
		messages = append(messages, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return g.complete(ctx, messages)
}

func (g *Generator) complete(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return strings.TrimSpace(resp.Content), nil
}
