package service

import (
	"context"
	"io"

	"github.com/john-thuo1/sentiment/internal/report"
)

func (s *Service) Insights(ctx context.Context, sessionID string) (*report.Insights, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	ds, err := s.loadDataset(ctx, sessionID, true)
	if err != nil {
		return nil, err
	}
	return report.Build(ds), nil
}

// RenderCharts writes the chart page for the selected views.
func (s *Service) RenderCharts(ctx context.Context, sessionID string, w io.Writer, views []report.View) error {
	in, err := s.Insights(ctx, sessionID)
	if err != nil {
		return err
	}
	return report.Render(w, in, views)
}

