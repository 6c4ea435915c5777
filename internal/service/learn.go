package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
	"github.com/Jaaziel-Polanco/bot-claro/internal/policy"
)

// Correction sources reported to the learning policy.
const (
	SourceDisambiguation = "disambiguation"
	SourceAdmin          = "admin"
)

// ErrCorrectionRejected is returned when the learning policy blocks a
// correction.
var ErrCorrectionRejected = errors.New("correction rejected by learning policy")

// ErrNoPendingCorrection is returned when a disambiguation arrives with
// no explicit utterance and no pending correction for the session.
var ErrNoPendingCorrection = errors.New("no pending correction for session")

// Learn incorporates one confirmed (utterance, intent) pair: the policy
// is consulted, the utterance is expanded into its variation family, and
// the classifier is retrained with the enlarged set. Serialized across
// callers; the call completes (or fails) before the correction counts
// as applied. An unknown intent id is accepted: it becomes a rarely
// seen label and self-corrects on the next catalog refresh.
func (s *Service) Learn(ctx context.Context, utterance, intentID, source string) error {
	s.learnMu.Lock()
	defer s.learnMu.Unlock()

	decision, err := s.policy.Evaluate(ctx, policy.CorrectionInput{
		Utterance: utterance,
		IntentID:  intentID,
		Source:    source,
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate learning policy: %w", err)
	}
	if decision != policy.DecisionAllow {
		return fmt.Errorf("%w: %s", ErrCorrectionRejected, decision)
	}

	if err := s.classifier.Learn(nlp.Variations(utterance), intentID); err != nil {
		return fmt.Errorf("failed to retrain classifier: %w", err)
	}
	return nil
}
