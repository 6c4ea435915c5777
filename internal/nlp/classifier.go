// Package nlp implements the intent classification core: a multinomial
// naive-Bayes text classifier trained from the intent catalog, the
// greeting override, and the variation expander used for online learning.
package nlp

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

// ErrNotReady is returned by Classify before the first successful Train.
var ErrNotReady = errors.New("classifier not trained")

// Classifier maps free-form utterances to intent labels with a confidence
// score. It owns its training set and trained model for the process
// lifetime: training mutates state under the write lock, classification
// reads the last trained model under the read lock.
type Classifier struct {
	mu       sync.RWMutex
	examples []domain.TrainingExample
	answers  map[string]string // intent id -> canned response
	model    *model            // nil until first Train
}

// NewClassifier creates an untrained classifier.
func NewClassifier() *Classifier {
	return &Classifier{answers: make(map[string]string)}
}

// Bootstrap resets the training set to the catalog seed examples, records
// the canned answers, and trains. Called at startup and on catalog
// reload; corrections learned since the last bootstrap are discarded,
// which lets curation mistakes self-correct on the next reload.
func (c *Classifier) Bootstrap(intents []domain.Intent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.examples = c.examples[:0]
	c.answers = make(map[string]string, len(intents))
	for _, intent := range intents {
		c.answers[intent.ID] = intent.Response
		for _, example := range intent.Examples {
			c.examples = append(c.examples, domain.TrainingExample{
				Utterance: example,
				IntentID:  intent.ID,
			})
		}
	}
	c.model = buildModel(c.examples)
	return nil
}

// AddExample appends one example to the training set without retraining.
// The caller must invoke Train for it to take effect.
func (c *Classifier) AddExample(utterance, intentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.examples = append(c.examples, domain.TrainingExample{Utterance: utterance, IntentID: intentID})
}

// Train rebuilds the model from the current training set. Idempotent:
// the same example set always yields equivalent decision behavior.
func (c *Classifier) Train() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = buildModel(c.examples)
	return nil
}

// Learn appends a family of variants for one confirmed intent and
// retrains, all under a single write lock so concurrent learns serialize
// and never interleave with classification.
func (c *Classifier) Learn(variants []string, intentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range variants {
		c.examples = append(c.examples, domain.TrainingExample{Utterance: v, IntentID: intentID})
	}
	c.model = buildModel(c.examples)
	return nil
}

// ExampleCount returns the size of the current training set.
func (c *Classifier) ExampleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.examples)
}

// Classify normalizes the utterance, runs it through the trained model
// and returns the top intent with its confidence and canned response.
// Returns ErrNotReady before the first Train; any other degenerate input
// (no usable tokens, empty model) yields the zero result instead of an
// error, since a best-effort reply beats a hard failure in chat.
func (c *Classifier) Classify(utterance string) (domain.ClassificationResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.model == nil {
		return domain.ClassificationResult{}, ErrNotReady
	}

	intentID, score := c.model.classify(Tokenize(utterance))
	if intentID == "" {
		return domain.ClassificationResult{}, nil
	}
	return domain.ClassificationResult{
		IntentID: intentID,
		Answer:   c.answers[intentID],
		Score:    score,
	}, nil
}

// model is an immutable trained snapshot. Rebuilt wholesale on every
// train; never mutated after construction.
type model struct {
	classes     []string
	priors      map[string]float64 // log P(class)
	tokenCounts map[string]map[string]int
	classTotals map[string]int
	vocab       map[string]bool
}

func buildModel(examples []domain.TrainingExample) *model {
	m := &model{
		priors:      make(map[string]float64),
		tokenCounts: make(map[string]map[string]int),
		classTotals: make(map[string]int),
		vocab:       make(map[string]bool),
	}

	docs := make(map[string]int)
	for _, ex := range examples {
		tokens := Tokenize(ex.Utterance)
		if len(tokens) == 0 {
			continue
		}
		if _, ok := m.tokenCounts[ex.IntentID]; !ok {
			m.tokenCounts[ex.IntentID] = make(map[string]int)
			m.classes = append(m.classes, ex.IntentID)
		}
		docs[ex.IntentID]++
		for _, tok := range tokens {
			m.tokenCounts[ex.IntentID][tok]++
			m.classTotals[ex.IntentID]++
			m.vocab[tok] = true
		}
	}

	// Deterministic class order so ties break the same way on every train.
	sort.Strings(m.classes)

	total := 0
	for _, n := range docs {
		total += n
	}
	for _, class := range m.classes {
		m.priors[class] = math.Log(float64(docs[class]) / float64(total))
	}
	return m
}

// classify returns the top label and its normalized posterior in [0,1].
// Tokens outside the vocabulary are ignored; a query with no known
// tokens returns the empty label.
func (m *model) classify(tokens []string) (string, float64) {
	if len(m.classes) == 0 {
		return "", 0
	}

	known := tokens[:0:0]
	for _, tok := range tokens {
		if m.vocab[tok] {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return "", 0
	}

	vocabSize := float64(len(m.vocab))
	logProbs := make([]float64, len(m.classes))
	for i, class := range m.classes {
		lp := m.priors[class]
		counts := m.tokenCounts[class]
		denom := float64(m.classTotals[class]) + vocabSize
		for _, tok := range known {
			lp += math.Log((float64(counts[tok]) + 1) / denom)
		}
		logProbs[i] = lp
	}

	best := 0
	for i := range logProbs {
		if logProbs[i] > logProbs[best] {
			best = i
		}
	}

	// Normalize in log space to keep the score a posterior in [0,1].
	var sum float64
	for _, lp := range logProbs {
		sum += math.Exp(lp - logProbs[best])
	}
	return m.classes[best], 1 / sum
}
