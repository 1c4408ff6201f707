// Package classifier provides sentiment classification backends.
package classifier

import "context"

// MinClass and MaxClass bound the class indexes a classifier may return.
const (
	MinClass = 1
	MaxClass = 5
)

// Classifier maps a review text onto a 1-5 sentiment class.
type Classifier interface {
	// Classify returns the index of the most probable class.
	Classify(ctx context.Context, text string) (int, error)
}

// Ensure the backends implement Classifier.
var (
	_ Classifier = (*HuggingFaceClient)(nil)
	_ Classifier = (*LexiconClassifier)(nil)
	_ Classifier = (*MockClassifier)(nil)
)
