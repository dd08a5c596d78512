// Package notify carries transient user-visible notifications.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

type Notification struct {
	Level   Level
	Message string
}

// Notifier shows a notification to whoever is driving the client.
type Notifier interface {
	Notify(level Level, message string)
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

func (n *LogNotifier) Notify(level Level, message string) {
	var ev *zerolog.Event
	switch level {
	case Error:
		ev = n.logger.Error()
	case Warning:
		ev = n.logger.Warn()
	default:
		ev = n.logger.Info()
	}
	ev.Str("level_hint", string(level)).Msg(message)
}

// Recorder keeps every notification in order. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Fanout sends each notification to every wrapped notifier.
type Fanout []Notifier

func (f Fanout) Notify(level Level, message string) {
	for _, n := range f {
		n.Notify(level, message)
	}
}
