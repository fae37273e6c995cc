package persist

import "time"

// OpEvent describes one store-facing operation for logging.
type OpEvent struct {
	Op       string
	Type     string
	Key      string
	Fields   int
	Duration time.Duration
	Err      error
}

// OpLogger records session operations.
type OpLogger interface {
	LogOperation(OpEvent)
}

// OpLoggerFunc adapts a function to OpLogger.
type OpLoggerFunc func(OpEvent)

// LogOperation implements OpLogger.
func (f OpLoggerFunc) LogOperation(event OpEvent) {
	if f != nil {
		f(event)
	}
}

type noopOpLogger struct{}

func (noopOpLogger) LogOperation(OpEvent) {}

// WithOpLogger attaches an operation logger to the session.
func WithOpLogger(logger OpLogger) SessionOption {
	return func(cfg *sessionConfig) {
		if logger == nil {
			cfg.logger = noopOpLogger{}
			return
		}
		cfg.logger = logger
	}
}
