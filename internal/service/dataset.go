package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/john-thuo1/sentiment/internal/dataset"
	"github.com/john-thuo1/sentiment/internal/domain"
	"github.com/john-thuo1/sentiment/internal/policy"
	"github.com/john-thuo1/sentiment/internal/scoring"
)

// DatasetSummary describes the session dataset after a step.
type DatasetSummary struct {
	SourceName string                `json:"source_name"`
	Encoding   string                `json:"encoding"`
	Columns    []string              `json:"columns"`
	Rows       int                   `json:"rows"`
	Scored     bool                  `json:"scored"`
	Preview    []domain.ReviewRecord `json:"preview"`
}

// AnalyzeResult is returned by Analyze.
type AnalyzeResult struct {
	DatasetSummary
	Scoring scoring.Summary `json:"scoring"`
}

func summarize(ds *domain.Dataset) *DatasetSummary {
	return &DatasetSummary{
		SourceName: ds.SourceName,
		Encoding:   ds.Encoding,
		Columns:    ds.Columns,
		Rows:       len(ds.Records),
		Scored:     ds.Scored,
		Preview:    ds.Head(PreviewRows),
	}
}

// IngestUpload validates a raw review file and makes it the session dataset.
func (s *Service) IngestUpload(ctx context.Context, sessionID, filename string, raw []byte) (*DatasetSummary, error) {
	return s.ingest(ctx, sessionID, filename, raw, dataset.LoadReviews)
}

// ImportScored loads a previously exported file so charts and chat work without re-scoring.
func (s *Service) ImportScored(ctx context.Context, sessionID, filename string, raw []byte) (*DatasetSummary, error) {
	return s.ingest(ctx, sessionID, filename, raw, dataset.LoadScored)
}

func (s *Service) ingest(ctx context.Context, sessionID, filename string, raw []byte, load func(string, []byte) (*domain.Dataset, error)) (*DatasetSummary, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	if _, err := s.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}

	// File level checks run before parsing.
	if err := s.checkPolicy(ctx, filename, len(raw), 0); err != nil {
		return nil, err
	}

	ds, err := load(filename, raw)
	if err != nil {
		slog.Warn("upload rejected", "session_id", sessionID, "file", filename, "error", err)
		return nil, err
	}

	if err := s.checkPolicy(ctx, filename, len(raw), len(ds.Records)); err != nil {
		return nil, err
	}

	if err := s.store.SaveDataset(ctx, sessionID, ds); err != nil {
		return nil, fmt.Errorf("failed to save dataset: %w", err)
	}

	slog.Info("file uploaded", "session_id", sessionID, "file", filename, "rows", len(ds.Records), "scored", ds.Scored)
	return summarize(ds), nil
}

func (s *Service) checkPolicy(ctx context.Context, filename string, size, rows int) error {
	if s.policyEngine == nil {
		return nil
	}
	input := policy.Input{
		Filename:  filename,
		SizeBytes: int64(size),
		RowCount:  rows,
	}
	if s.config != nil {
		input.Limits = policy.Limits{
			MaxBytes: s.config.Upload.MaxBytes,
			MaxRows:  s.config.Upload.MaxRows,
		}
	}
	return s.policyEngine.Check(ctx, input)
}

// Analyze scores every record of the session dataset.
func (s *Service) Analyze(ctx context.Context, sessionID string) (*AnalyzeResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	ds, err := s.loadDataset(ctx, sessionID, false)
	if err != nil {
		return nil, err
	}

	summary, err := s.scorer.ScoreDataset(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("scoring interrupted: %w", err)
	}

	if err := s.store.SaveDataset(ctx, sessionID, ds); err != nil {
		return nil, fmt.Errorf("failed to save dataset: %w", err)
	}

	return &AnalyzeResult{DatasetSummary: *summarize(ds), Scoring: summary}, nil
}

// Export renders the scored dataset as CSV and names the download.
func (s *Service) Export(ctx context.Context, sessionID string) (string, []byte, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	ds, err := s.loadDataset(ctx, sessionID, true)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := dataset.Export(&buf, ds); err != nil {
		return "", nil, fmt.Errorf("failed to export dataset: %w", err)
	}

	name := dataset.ExportFileName(ds.SourceName, s.now())
	slog.Info("dataset exported", "session_id", sessionID, "file", name)
	return name, buf.Bytes(), nil
}
