package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

// setPending records the last unresolved utterance for a session. A new
// utterance supersedes any prior pending correction.
func (s *Service) setPending(sessionID, utterance string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sessionID] = domain.PendingCorrection{
		SessionID: sessionID,
		Utterance: utterance,
		CreatedAt: time.Now(),
	}
}

// takePending consumes the pending correction for a session, if any.
func (s *Service) takePending(sessionID string) (domain.PendingCorrection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[sessionID]
	if ok {
		delete(s.pending, sessionID)
	}
	return p, ok
}

func (s *Service) clearPending(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, sessionID)
}

// PendingFor reports the pending correction of a session without
// consuming it.
func (s *Service) PendingFor(sessionID string) (domain.PendingCorrection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[sessionID]
	return p, ok
}

// appendMessage writes a transcript message, returning its id. Store
// failures are logged but do not abort the turn: the transcript is
// best-effort, the resolution itself is not.
func (s *Service) appendMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string) string {
	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		log.Printf("WARN: failed to record %s message for session %s: %v", role, sessionID, err)
		return ""
	}
	return msg.MessageID
}

// finalizeMessage replaces the processing placeholder with its final
// content once resolution completes.
func (s *Service) finalizeMessage(ctx context.Context, messageID, content string) {
	if messageID == "" {
		return
	}
	if err := s.store.UpdateMessageContent(ctx, messageID, content); err != nil {
		log.Printf("WARN: failed to finalize message %s: %v", messageID, err)
	}
}
