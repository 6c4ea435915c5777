package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
	"github.com/Jaaziel-Polanco/bot-claro/internal/store"
)

// Resolve handles one conversation turn: record the utterance, classify
// it, and either answer directly or return the ambiguous candidate list.
// Every turn ends with a final bot message in the transcript.
func (s *Service) Resolve(ctx context.Context, sessionID, userID, utterance string) (domain.Resolution, error) {
	if _, err := s.store.GetOrCreateSession(ctx, sessionID, userID); err != nil {
		return domain.Resolution{}, fmt.Errorf("failed to resolve session: %w", err)
	}

	s.appendMessage(ctx, sessionID, domain.RoleUser, utterance)
	placeholderID := s.appendMessage(ctx, sessionID, domain.RoleBot, ProcessingMessage)

	// A new utterance supersedes any unresolved correction.
	s.setPending(sessionID, utterance)

	result, err := s.classifier.Classify(utterance)
	if err != nil {
		s.clearPending(sessionID)
		s.finalizeMessage(ctx, placeholderID, ConnectionErrorMessage)
		return domain.Resolution{}, fmt.Errorf("failed to classify: %w", err)
	}

	if result.IntentID != "" && result.Score >= ConfidenceThreshold {
		s.clearPending(sessionID)
		s.finalizeMessage(ctx, placeholderID, result.Answer)
		return answered(result), nil
	}

	if overridden, ok := nlp.GreetingOverride(utterance, result); ok {
		s.clearPending(sessionID)
		s.finalizeMessage(ctx, placeholderID, overridden.Answer)
		return answered(overridden), nil
	}

	candidates := s.candidates(utterance)
	if len(candidates) > 1 {
		// Keep the pending correction: the follow-up disambiguation
		// call feeds it back into the classifier.
		s.finalizeMessage(ctx, placeholderID, AmbiguousMessage)
		return domain.Resolution{
			Kind:       domain.ResolutionAmbiguous,
			Candidates: candidates,
		}, nil
	}

	// Zero or one candidate: best-effort answer or apology.
	s.clearPending(sessionID)
	if result.Answer == "" {
		result.Answer = ApologyMessage
	}
	s.finalizeMessage(ctx, placeholderID, result.Answer)
	return answered(result), nil
}

// ConfirmDisambiguation resolves a pending low-confidence turn with the
// intent the user picked, feeds the correction into the online learning
// loop and answers with the intent's canned response. The explicit
// utterance wins over the session's pending correction when both exist;
// a confirmation carrying neither is rejected with
// ErrNoPendingCorrection.
func (s *Service) ConfirmDisambiguation(ctx context.Context, sessionID, intentID, utterance string) (domain.Resolution, error) {
	intent, err := s.store.GetIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, store.ErrIntentNotFound) {
			return domain.Resolution{}, err
		}
		return domain.Resolution{}, fmt.Errorf("failed to load intent %s: %w", intentID, err)
	}

	correction := utterance
	if pending, ok := s.takePending(sessionID); ok && correction == "" {
		correction = pending.Utterance
	}
	if correction == "" {
		return domain.Resolution{}, ErrNoPendingCorrection
	}

	if err := s.Learn(ctx, correction, intentID, SourceDisambiguation); err != nil {
		// Degrade: the user still gets the canned answer; the
		// appended examples stay for the next retrain.
		log.Printf("ERROR: failed to learn %q -> %s: %v", correction, intentID, err)
	}

	s.appendMessage(ctx, sessionID, domain.RoleUser, intent.Title)
	s.appendMessage(ctx, sessionID, domain.RoleBot, intent.Response)

	return domain.Resolution{
		Kind:     domain.ResolutionAnswered,
		Answer:   intent.Response,
		IntentID: intent.ID,
		Score:    1,
	}, nil
}

// candidates queries the lexical index for up to MaxCandidates intents
// matching the utterance. A blank utterance has no candidates: the
// index's empty-query catalog listing is a suggestion behavior, not a
// fallback match.
func (s *Service) candidates(utterance string) []domain.Candidate {
	if nlp.Normalize(utterance) == "" {
		return nil
	}
	matches := s.currentIndex().Search(utterance)
	if len(matches) > MaxCandidates {
		matches = matches[:MaxCandidates]
	}
	candidates := make([]domain.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, domain.Candidate{ID: m.ID, Title: m.Title})
	}
	return candidates
}

func answered(result domain.ClassificationResult) domain.Resolution {
	return domain.Resolution{
		Kind:     domain.ResolutionAnswered,
		Answer:   result.Answer,
		Score:    result.Score,
		IntentID: result.IntentID,
	}
}
