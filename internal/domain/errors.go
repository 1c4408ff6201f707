package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSessionNotFound is returned for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoDataset is returned when an operation needs an uploaded dataset.
	ErrNoDataset = errors.New("no dataset uploaded for this session")
	// ErrNotScored is returned when an operation needs sentiment scores.
	ErrNotScored = errors.New("dataset has not been analyzed yet")
	// ErrInvalidDateFormat is returned when a date column matches neither accepted format.
	ErrInvalidDateFormat = errors.New("invalid date format: expected YYYY-MM-DD or DD-MM-YY")
	// ErrEncoding is returned when an upload cannot be decoded to text.
	ErrEncoding = errors.New("unable to decode file")
	// ErrMalformedCSV is returned when the CSV reader rejects the upload.
	ErrMalformedCSV = errors.New("malformed CSV file")
	// ErrEmptyFile is returned for uploads without a header row.
	ErrEmptyFile = errors.New("file is empty")
	// ErrNoRecommendation is returned for follow-ups asked before the first recommendation.
	ErrNoRecommendation = errors.New("no recommendation has been generated for this session")
	// ErrEmptyQuestion is returned for blank follow-up questions.
	ErrEmptyQuestion = errors.New("question must not be empty")
	// ErrUpstream wraps failures of the hosted model services.
	ErrUpstream = errors.New("upstream service error")
)

// SchemaError lists required columns missing from an upload.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("the uploaded CSV file is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// PolicyError is returned when the upload policy rejects a file.
type PolicyError struct {
	Reasons []string
}

func (e *PolicyError) Error() string {
	if len(e.Reasons) == 0 {
		return "upload rejected by policy"
	}
	return "upload rejected: " + strings.Join(e.Reasons, "; ")
}
