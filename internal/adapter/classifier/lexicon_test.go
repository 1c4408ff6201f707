package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconClassifierPolarity(t *testing.T) {
	l, err := NewLexiconClassifier()
	require.NoError(t, err)

	tests := []struct {
		text     string
		min, max int
	}{
		{"Great product! I love it, excellent quality", 4, 5},
		{"I love this blender, it is wonderful and works perfectly", 4, 5},
		{"Terrible, awful, worst purchase ever. I hate it", 1, 2},
		{"Horrible kettle, it broke after a day and the seller was useless", 1, 2},
	}
	for _, tt := range tests {
		got, err := l.Classify(context.Background(), tt.text)
		require.NoError(t, err, tt.text)
		assert.GreaterOrEqual(t, got, tt.min, tt.text)
		assert.LessOrEqual(t, got, tt.max, tt.text)
	}
}

func TestLexiconClassifierLongReviewStaysPositive(t *testing.T) {
	l, err := NewLexiconClassifier()
	require.NoError(t, err)

	text := strings.Repeat("excellent quality and I love it. ", 20)
	got, err := l.Classify(context.Background(), text)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 4)
}

func TestLexiconClassifierErrors(t *testing.T) {
	l, err := NewLexiconClassifier()
	require.NoError(t, err)

	_, err = l.Classify(context.Background(), "   ")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Classify(ctx, "great")
	assert.ErrorIs(t, err, context.Canceled)
}
