package classifier

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cdipaolo/sentiment"
)

// chunkWords bounds how many words go through one naive Bayes product;
// longer products underflow float64.
const chunkWords = 16

// LexiconClassifier scores English text offline with the pretrained naive
// Bayes sentiment model. The probability that the review is positive is
// spread over five equal bands.
type LexiconClassifier struct {
	model sentiment.Models
}

// NewLexiconClassifier restores the bundled model.
func NewLexiconClassifier() (*LexiconClassifier, error) {
	model, err := sentiment.Restore()
	if err != nil {
		return nil, fmt.Errorf("restore sentiment model: %w", err)
	}
	if _, ok := model[sentiment.English]; !ok {
		return nil, fmt.Errorf("restore sentiment model: no %q model", sentiment.English)
	}
	return &LexiconClassifier{model: model}, nil
}

// Classify maps P(positive) onto 1-5: [0, 0.2) is 1 and [0.8, 1] is 5.
func (l *LexiconClassifier) Classify(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, fmt.Errorf("no scorable words in review")
	}

	positive := l.positiveProbability(words)
	class := MinClass + int(positive*float64(MaxClass-MinClass+1))
	if class > MaxClass {
		class = MaxClass
	}
	return class, nil
}

// positiveProbability scores words in chunks and combines the chunks in
// log-odds space, which gives the same posterior as one naive Bayes product.
func (l *LexiconClassifier) positiveProbability(words []string) float64 {
	nb := l.model[sentiment.English]
	prior := logit(nb.Probabilities[1])

	var logOdds float64
	chunks := 0
	for start := 0; start < len(words); start += chunkWords {
		end := min(start+chunkWords, len(words))
		class, p := nb.Probability(strings.Join(words[start:end], " "))
		if class == 0 {
			p = 1 - p
		}
		logOdds += logit(p)
		chunks++
	}
	// Each chunk carries the class prior once; keep only one.
	logOdds -= float64(chunks-1) * prior
	return 1 / (1 + math.Exp(-logOdds))
}

func logit(p float64) float64 {
	const eps = 1e-12
	if math.IsNaN(p) {
		return 0
	}
	p = math.Min(math.Max(p, eps), 1-eps)
	return math.Log(p / (1 - p))
}
