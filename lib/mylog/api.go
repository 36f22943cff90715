package mylog

import "context"

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New is bound to an implementation by an init() based on the environment.
var New func(name string) Logger

// Logger writes one leveled line per call. The traceLabel ties the line to
// the aggregate (cart, checkout, order) it concerns.
type Logger interface {
	Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any)
}
