package moderation

import "time"

// RuleLogEvent describes one rule evaluation attempt for logging.
type RuleLogEvent struct {
	Engine   string
	Rule     string
	Expr     string
	Duration time.Duration
	Err      error
}

// RuleLogger records rule evaluations.
type RuleLogger interface {
	LogRule(RuleLogEvent)
}

// RuleLoggerFunc adapts a function to RuleLogger.
type RuleLoggerFunc func(RuleLogEvent)

// LogRule implements RuleLogger.
func (f RuleLoggerFunc) LogRule(event RuleLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRuleLogger struct{}

func (noopRuleLogger) LogRule(RuleLogEvent) {}

// WithRuleLogger attaches a rule logger to the moderator.
func WithRuleLogger(logger RuleLogger) ModeratorOption {
	return func(m *Moderator) {
		if logger == nil {
			m.logger = noopRuleLogger{}
			return
		}
		m.logger = logger
	}
}
