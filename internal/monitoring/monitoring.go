// Package monitoring provides the diagnostic sink shared by all
// simulation components: structured events with a severity, a category
// and string context, submitted concurrently and drained FIFO by a
// single consumer.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level fallback logger used by Recorder for
// warning-and-above events. It defaults to log.Printf but may be replaced
// by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Severity grades a diagnostic event.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Category identifies the subsystem an event originates from.
type Category string

const (
	CategoryTransport  Category = "transport"
	CategorySimulation Category = "simulation"
	CategoryValidation Category = "validation"
	CategorySystem     Category = "system"
)

// Event is one diagnostic entry.
type Event struct {
	Time     time.Time         `json:"time"`
	Message  string            `json:"message"`
	Severity Severity          `json:"severity"`
	Category Category          `json:"category"`
	Context  map[string]string `json:"context,omitempty"`
}

// Reporter accepts diagnostic events. Implementations must be safe for
// concurrent submission from any goroutine and must never block the
// producer indefinitely.
type Reporter interface {
	Report(message string, severity Severity, category Category, context map[string]string)
}

// Discard is a Reporter that drops every event.
type Discard struct{}

func (Discard) Report(string, Severity, Category, map[string]string) {}
