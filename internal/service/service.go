// Package service implements the resolution orchestrator and the online
// learning coordinator on top of the store, classifier, lexical index
// and learning policy.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Jaaziel-Polanco/bot-claro/internal/catalog"
	"github.com/Jaaziel-Polanco/bot-claro/internal/config"
	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
	"github.com/Jaaziel-Polanco/bot-claro/internal/policy"
	"github.com/Jaaziel-Polanco/bot-claro/internal/search"
	"github.com/Jaaziel-Polanco/bot-claro/internal/store"
)

// Fixed policy constants for one conversation turn. Not per-request
// configurable; chosen to bound how often users are asked to
// disambiguate.
const (
	// ConfidenceThreshold is the minimum classifier score accepted
	// without consulting the lexical fallback.
	ConfidenceThreshold = 0.5
	// MaxCandidates caps the disambiguation list.
	MaxCandidates = 3
)

// User-visible copy.
const (
	ProcessingMessage      = "Procesando..."
	ApologyMessage         = "No entendí tu mensaje. ¿Puedes intentarlo con otras palabras?"
	AmbiguousMessage       = "No estoy seguro de haberte entendido. ¿Te refieres a alguna de estas opciones?"
	ConnectionErrorMessage = "Error en la conexión con el servicio de IA."
)

// Service owns the classifier, the lexical index and per-session pending
// corrections. Constructed once at startup and shared by all requests.
type Service struct {
	store      store.Store
	classifier *nlp.Classifier
	policy     *policy.Engine
	config     *config.Config

	// mu guards index and pending. The index is immutable once built
	// and swapped wholesale on catalog refresh, so in-flight searches
	// always see a consistent index.
	mu      sync.RWMutex
	index   *search.Index
	pending map[string]domain.PendingCorrection

	// learnMu serializes Learn calls end to end: append-then-train is
	// the atomic unit.
	learnMu sync.Mutex
}

// New creates the service. Call Refresh before serving requests so the
// classifier is trained from the store snapshot.
func New(st store.Store, classifier *nlp.Classifier, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:      st,
		classifier: classifier,
		policy:     policyEngine,
		config:     cfg,
		index:      search.NewIndex(nil),
		pending:    make(map[string]domain.PendingCorrection),
	}
}

// Refresh re-reads the intent catalog snapshot from the store, retrains
// the classifier from the seed examples and rebuilds the lexical index.
// Corrections learned since the previous refresh are discarded.
func (s *Service) Refresh(ctx context.Context) (domain.CatalogInfo, error) {
	intents, err := s.store.ListIntents(ctx)
	if err != nil {
		return domain.CatalogInfo{}, fmt.Errorf("failed to list intents: %w", err)
	}

	if err := s.classifier.Bootstrap(intents); err != nil {
		return domain.CatalogInfo{}, fmt.Errorf("failed to train classifier: %w", err)
	}

	idx := search.NewIndex(intents)
	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	examples := 0
	for _, intent := range intents {
		examples += len(intent.Examples)
	}
	return domain.CatalogInfo{
		Intents:   len(intents),
		Examples:  examples,
		TrainedAt: time.Now(),
	}, nil
}

// ReloadCatalog re-imports the catalog file (when configured) and then
// refreshes the classifier and index from the store.
func (s *Service) ReloadCatalog(ctx context.Context) (domain.CatalogInfo, error) {
	if s.config.CatalogPath != "" {
		if _, err := catalog.Import(ctx, s.store, s.config.CatalogPath); err != nil {
			return domain.CatalogInfo{}, err
		}
	}
	return s.Refresh(ctx)
}

// Suggest returns ranked intent suggestions for the query. An empty
// query returns the full catalog in catalog order.
func (s *Service) Suggest(query string) []domain.Intent {
	return s.currentIndex().Search(query)
}

// GetMessages returns a session transcript.
func (s *Service) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	messages, err := s.store.GetMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

func (s *Service) currentIndex() *search.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}
