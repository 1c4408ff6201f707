package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/john-thuo1/sentiment/internal/adapter/classifier"
	"github.com/john-thuo1/sentiment/internal/adapter/llm"
	"github.com/john-thuo1/sentiment/internal/config"
	"github.com/john-thuo1/sentiment/internal/logging"
	"github.com/john-thuo1/sentiment/internal/narrative"
	"github.com/john-thuo1/sentiment/internal/policy"
	"github.com/john-thuo1/sentiment/internal/repository"
	"github.com/john-thuo1/sentiment/internal/scoring"
	"github.com/john-thuo1/sentiment/internal/service"
	handler "github.com/john-thuo1/sentiment/internal/transport/http"
	"github.com/john-thuo1/sentiment/internal/transport/ws"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup("sentiments", cfg.Log.Level, cfg.Log.Dir)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("starting review analyzer",
		"port", cfg.HTTP.Port,
		"database", cfg.Database.URL,
		"mode", cfg.Mode,
		"classifier", cfg.Classifier.Backend,
		"llm_model", cfg.LLM.Model,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	db, err := repository.NewSQLiteStore(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	// The classifier is built once and shared by every session.
	clf, err := classifier.New(classifier.Options{
		Mode:    cfg.Mode,
		Backend: cfg.Classifier.Backend,
		BaseURL: cfg.Classifier.URL,
		Model:   cfg.Classifier.Model,
		Token:   cfg.Classifier.Token,
		Timeout: cfg.ClassifierTimeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	scorer := scoring.NewScorer(clf)

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.Mode, cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLMTimeout())
	generator := narrative.NewGenerator(llmClient, cfg.LLM.Model)

	// Initialize policy engine
	policyEngine, err := newPolicyEngine(ctx, cfg.Upload.PolicyFile)
	if err != nil {
		return err
	}

	// Initialize service
	svc := service.New(db, scorer, generator, cfg, policyEngine)

	hub := ws.NewHub()
	go hub.Run(ctx)
	svc.SetNotifier(hub)

	e := handler.NewServer(svc, ws.NewServer(ws.DefaultOptions(), hub, svc), cfg.Upload.MaxBytes)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("HTTP API started", "port", cfg.HTTP.Port)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	slog.Info("shutting down")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("failed to shutdown server gracefully", "error", err)
	}

	slog.Info("review analyzer stopped")
	return nil
}

func newPolicyEngine(ctx context.Context, path string) (*policy.Engine, error) {
	content := policy.DefaultPolicy
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		content = string(data)
	}

	engine, err := policy.NewEngine(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize policy engine: %w", err)
	}
	return engine, nil
}
