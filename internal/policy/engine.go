// Package policy guards the online-learning feedback loop: before a
// user-supplied correction is accepted into the training set it is
// evaluated against a Rego policy, so operators can curb training-set
// poisoning without redeploying.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA learning-policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.learning_policy.decision"),
		rego.Module("learning_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// CorrectionInput is the policy input for one correction.
type CorrectionInput struct {
	Utterance string `json:"utterance"`
	IntentID  string `json:"intent_id"`
	Source    string `json:"source"` // "disambiguation" or "admin"
}

// Evaluate returns the policy decision for a correction. The policy is
// expected to define a default, but an empty result falls back to allow.
func (e *Engine) Evaluate(ctx context.Context, input CorrectionInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the default learning policy: accept everything except
// blank utterances, oversized utterances and corrections against the
// empty intent id.
const DefaultPolicy = `
package learning_policy

import rego.v1

default decision := "allow"

decision := "block" if {
	trim_space(input.utterance) == ""
}

decision := "block" if {
	count(input.utterance) > 500
}

decision := "block" if {
	input.intent_id == ""
}
`
