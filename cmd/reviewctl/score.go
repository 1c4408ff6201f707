package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/john-thuo1/sentiment/internal/adapter/classifier"
	"github.com/john-thuo1/sentiment/internal/config"
	"github.com/john-thuo1/sentiment/internal/dataset"
	"github.com/john-thuo1/sentiment/internal/report"
	"github.com/john-thuo1/sentiment/internal/scoring"
)

func runScoreCmd(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	in := fs.String("in", "", "Path to the review CSV")
	out := fs.String("out", ".", "Directory for the updated CSV")
	backend := fs.String("backend", cfg.Classifier.Backend, "Classifier backend: huggingface, lexicon or mock")
	charts := fs.String("charts", "", "Optional path for an HTML chart page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("--in is required")
	}

	clf, err := classifier.New(classifier.Options{
		Mode:    cfg.Mode,
		Backend: *backend,
		BaseURL: cfg.Classifier.URL,
		Model:   cfg.Classifier.Model,
		Token:   cfg.Classifier.Token,
		Timeout: cfg.ClassifierTimeout(),
	})
	if err != nil {
		return err
	}

	result, err := scoreFile(context.Background(), scoring.NewScorer(clf), *in, *out, *charts, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("rows=%d scored=%d failed=%d out=%s\n", result.Summary.Rows, result.Summary.Scored, result.Summary.Failed, result.Path)
	return nil
}

type scoreResult struct {
	Path    string
	Summary scoring.Summary
}

// scoreFile runs the upload pipeline on a local file and writes the export into outDir.
func scoreFile(ctx context.Context, scorer *scoring.Scorer, inPath, outDir, chartsPath string, now time.Time) (*scoreResult, error) {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.LoadReviews(filepath.Base(inPath), raw)
	if err != nil {
		return nil, err
	}

	summary, err := scorer.ScoreDataset(ctx, ds)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	outPath := filepath.Join(outDir, dataset.ExportFileName(ds.SourceName, now))
	f, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := dataset.Export(f, ds); err != nil {
		return nil, err
	}

	if chartsPath != "" {
		cf, err := os.Create(chartsPath)
		if err != nil {
			return nil, err
		}
		defer cf.Close()
		if err := report.Render(cf, report.Build(ds), report.AllViews); err != nil {
			return nil, err
		}
	}

	return &scoreResult{Path: outPath, Summary: summary}, f.Close()
}
