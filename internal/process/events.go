package process

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"taskman/internal/logutil"
)

// Level classifies an Event.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

// Event describes something worth telling the user or the log about.
type Event struct {
	Level   Level
	Op      string // "terminate", "kill", "snapshot", "copy", "export"
	PID     int32  // zero when the event is not about one process
	Message string
	Err     error
}

func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.PID != 0 {
		fmt.Fprintf(&sb, " (PID %d)", e.PID)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Reporter receives events. Implementations must be safe for concurrent use.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

// LogReporter writes events to the structured log.
type LogReporter struct {
	Logger *logutil.ComponentLogger
}

func (r LogReporter) Report(e Event) {
	logger := r.Logger
	if logger == nil {
		logger = logutil.NewLogger("events")
	}
	args := []any{"op", e.Op}
	if e.PID != 0 {
		args = append(args, "pid", e.PID)
	}
	if e.Err != nil {
		args = append(args, "error", e.Err)
	}
	switch e.Level {
	case LevelError:
		logger.Error(e.Message, args...)
	case LevelWarn:
		logger.Warn(e.Message, args...)
	default:
		logger.Info(e.Message, args...)
	}
}

// notifyFunc is swapped out in tests.
var notifyFunc = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// NotifyReporter raises a desktop notification for error events.
type NotifyReporter struct {
	Title string
}

func (r NotifyReporter) Report(e Event) {
	if e.Level != LevelError {
		return
	}
	title := r.Title
	if title == "" {
		title = "taskman"
	}
	// Notification failures have nowhere better to go than the log.
	if err := notifyFunc(title, e.String()); err != nil {
		logutil.Logger().Debug("desktop notification failed", "error", err)
	}
}

// MultiReporter fans an event out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}

// Subscription delivers events to a consumer over a buffered channel. When
// the consumer falls behind, new events are dropped rather than blocking the
// reporter.
type Subscription struct {
	ch chan Event
}

// NewSubscription returns a Subscription buffering up to size events.
func NewSubscription(size int) *Subscription {
	if size < 1 {
		size = 1
	}
	return &Subscription{ch: make(chan Event, size)}
}

func (s *Subscription) Report(e Event) {
	select {
	case s.ch <- e:
	default:
	}
}

// C returns the receive side of the subscription.
func (s *Subscription) C() <-chan Event {
	return s.ch
}
