// Package scoring turns review text into sentiment scores and labels.
package scoring

import (
	"context"
	"log/slog"
	"strings"

	"github.com/john-thuo1/sentiment/internal/adapter/classifier"
	"github.com/john-thuo1/sentiment/internal/domain"
)

// MaxReviewChars is the character budget a review is cut to before classification.
const MaxReviewChars = 512

// Scorer wraps a classifier. Build one per process and share it.
type Scorer struct {
	classifier classifier.Classifier
}

// NewScorer creates a scorer around an already constructed classifier.
func NewScorer(c classifier.Classifier) *Scorer {
	return &Scorer{classifier: c}
}

// Summary counts the outcome of a batch.
type Summary struct {
	Rows   int `json:"rows"`
	Scored int `json:"scored"`
	Failed int `json:"failed"`
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Score classifies one review. Failures of any kind yield the sentinel 0.
func (s *Scorer) Score(ctx context.Context, review string) int {
	if strings.TrimSpace(review) == "" {
		return domain.UnscoredScore
	}

	class, err := s.classifier.Classify(ctx, Truncate(review, MaxReviewChars))
	if err != nil {
		slog.Warn("error calculating sentiment score", "error", err)
		return domain.UnscoredScore
	}
	if class < classifier.MinClass || class > classifier.MaxClass {
		slog.Warn("classifier returned out-of-range class", "class", class)
		return domain.UnscoredScore
	}
	return class
}

// ScoreDataset scores every record in place and marks the dataset scored.
// A cancelled context stops the batch; records already visited keep their score.
func (s *Scorer) ScoreDataset(ctx context.Context, ds *domain.Dataset) (Summary, error) {
	summary := Summary{Rows: len(ds.Records)}
	for i := range ds.Records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		score := s.Score(ctx, ds.Records[i].Review)
		ds.Records[i].SetScore(score)
		if score == domain.UnscoredScore {
			summary.Failed++
		} else {
			summary.Scored++
		}
	}
	ds.Scored = true

	slog.Info("sentiment scores calculated", "file", ds.SourceName, "rows", summary.Rows, "failed", summary.Failed)
	return summary, nil
}
