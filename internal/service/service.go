package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/john-thuo1/sentiment/internal/config"
	"github.com/john-thuo1/sentiment/internal/domain"
	"github.com/john-thuo1/sentiment/internal/narrative"
	"github.com/john-thuo1/sentiment/internal/policy"
	"github.com/john-thuo1/sentiment/internal/repository"
	"github.com/john-thuo1/sentiment/internal/scoring"
)

// PreviewRows is the number of leading records returned after ingest and analysis.
const PreviewRows = 5

// Notifier receives every message appended to a session transcript.
type Notifier interface {
	PublishMessage(sessionID string, msg domain.Message)
}

type Service struct {
	store        repository.Store
	scorer       *scoring.Scorer
	generator    *narrative.Generator
	config       *config.Config
	policyEngine *policy.Engine
	notifier     Notifier
	now          func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

func New(store repository.Store, scorer *scoring.Scorer, generator *narrative.Generator, cfg *config.Config, policyEngine *policy.Engine) *Service {
	return &Service{
		store:        store,
		scorer:       scorer,
		generator:    generator,
		config:       cfg,
		policyEngine: policyEngine,
		now:          time.Now,
		locks:        make(map[string]*sessionLock),
	}
}

// SetNotifier registers the transcript listener. Call before serving requests.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// lockSession serialises operations on one session and returns the unlock func.
// The entry is dropped once no caller holds or waits for it.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// loadDataset returns the session dataset; scored requires it to carry sentiment scores.
func (s *Service) loadDataset(ctx context.Context, sessionID string, scored bool) (*domain.Dataset, error) {
	if _, err := s.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	ds, err := s.store.GetDataset(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	if ds == nil {
		return nil, domain.ErrNoDataset
	}
	if scored && !ds.Scored {
		return nil, domain.ErrNotScored
	}
	return ds, nil
}

func (s *Service) notify(sessionID string, msg domain.Message) {
	if s.notifier != nil {
		s.notifier.PublishMessage(sessionID, msg)
	}
}
