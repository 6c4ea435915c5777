// Package domain defines the core domain models for the support-chat service.
package domain

import "time"

// Intent is a discrete, named user goal with example utterances and one
// canned response. The ID is the classification label.
type Intent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
	Response    string   `json:"response"`
}

// TrainingExample is one (utterance, intent) pair in the classifier's
// training set.
type TrainingExample struct {
	Utterance string `json:"utterance"`
	IntentID  string `json:"intent_id"`
}

// ClassificationResult is the classifier's verdict for one utterance.
// IntentID is empty when the model produced nothing usable.
type ClassificationResult struct {
	IntentID string  `json:"intent_id"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

// Candidate is one disambiguation option offered to the user.
type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ResolutionKind discriminates the two resolution outcomes.
type ResolutionKind string

const (
	ResolutionAnswered  ResolutionKind = "answer"
	ResolutionAmbiguous ResolutionKind = "ambiguous"
)

// Resolution is the outcome of one conversation turn. Either an answer
// (Answer/Score/IntentID set) or an ambiguous marker carrying the
// candidate list. Control state is never encoded in the answer text.
type Resolution struct {
	Kind       ResolutionKind `json:"type"`
	Answer     string         `json:"answer,omitempty"`
	Score      float64        `json:"score,omitempty"`
	IntentID   string         `json:"intent_id,omitempty"`
	Candidates []Candidate    `json:"candidates,omitempty"`
}

// LearnRequest is a confirmed correction fed back into the classifier.
type LearnRequest struct {
	Message  string `json:"message"`
	IntentID string `json:"intent_id"`
}

// CatalogInfo summarizes the active catalog after a reload.
type CatalogInfo struct {
	Intents   int       `json:"intents"`
	Examples  int       `json:"examples"`
	TrainedAt time.Time `json:"trained_at"`
}
