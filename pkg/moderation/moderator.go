// Package moderation reviews content snapshots against rule expressions.
// Rules run through pluggable expression engines (expr, CEL, and optionally
// goja behind the js_eval build tag) and produce decisions that record which
// rules an object violated.
package moderation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rule pairs a stable code with the expression that detects a violation.
// An expression evaluating to boolean true marks the subject as violating.
type Rule struct {
	Code string
	Expr string
}

// Decision is the outcome of reviewing one subject.
type Decision struct {
	ID         uuid.UUID `json:"id"`
	SubjectID  string    `json:"subject_id"`
	Blocked    bool      `json:"blocked"`
	Violations []string  `json:"violations,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// ModeratorOption configures a moderator.
type ModeratorOption func(*Moderator)

// Moderator evaluates a fixed rule set against content snapshots.
type Moderator struct {
	evaluator Evaluator
	rules     []Rule
	logger    RuleLogger
}

// NewModerator builds a moderator over the given engine and rules.
func NewModerator(evaluator Evaluator, rules []Rule, opts ...ModeratorOption) (*Moderator, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("moderation: evaluator is required")
	}
	m := &Moderator{
		evaluator: evaluator,
		rules:     append([]Rule{}, rules...),
		logger:    noopRuleLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// Review runs every rule against the snapshot and returns the aggregate
// decision. Only a boolean true result counts as a violation; any other
// value, including truthy non-booleans, leaves the rule satisfied.
func (m *Moderator) Review(subjectID string, snapshot map[string]any) (Decision, error) {
	decision := Decision{
		ID:         uuid.New(),
		SubjectID:  subjectID,
		ReviewedAt: time.Now(),
	}
	ctx := RuleContext{Snapshot: snapshot}

	for _, rule := range m.rules {
		started := time.Now()
		result, err := m.evaluator.Evaluate(ctx, rule.Expr)
		m.logger.LogRule(RuleLogEvent{
			Engine:   engineName(m.evaluator),
			Rule:     rule.Code,
			Expr:     rule.Expr,
			Duration: time.Since(started),
			Err:      err,
		})
		if err != nil {
			return Decision{}, wrapEvaluationError(engineName(m.evaluator), rule.Expr, err)
		}
		if violated, ok := result.(bool); ok && violated {
			decision.Violations = append(decision.Violations, rule.Code)
		}
	}

	decision.Blocked = len(decision.Violations) > 0
	return decision, nil
}

func engineName(evaluator Evaluator) string {
	switch evaluator.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		return fmt.Sprintf("%T", evaluator)
	}
}
