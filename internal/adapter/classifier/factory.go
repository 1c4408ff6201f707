package classifier

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	// ModeMock forces the mock backend regardless of the configured one.
	ModeMock = "MOCK"

	BackendHuggingFace = "huggingface"
	BackendLexicon     = "lexicon"
	BackendMock        = "mock"
)

// Options selects and configures a classifier backend.
type Options struct {
	Mode    string
	Backend string
	BaseURL string
	Model   string
	Token   string
	Timeout time.Duration
}

// New creates the classifier named by opts. It is meant to be called once per
// process; the returned value is shared by every session.
func New(opts Options) (Classifier, error) {
	if opts.Mode == ModeMock {
		slog.Info("MODE=MOCK detected, using mock classifier")
		return NewMockClassifier(), nil
	}

	switch opts.Backend {
	case BackendHuggingFace, "":
		slog.Info("using hosted classifier", "url", opts.BaseURL, "model", opts.Model)
		return NewHuggingFaceClient(opts.BaseURL, opts.Model, opts.Token, opts.Timeout), nil
	case BackendLexicon:
		slog.Info("using offline lexicon classifier")
		return NewLexiconClassifier()
	case BackendMock:
		return NewMockClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", opts.Backend)
	}
}
