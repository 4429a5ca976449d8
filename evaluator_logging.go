package spaces

import "time"

// EvaluatorLogEvent describes one metric expression evaluation for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Space    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events. The metric hot path stays silent
// unless a logger is attached.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}
